package dto

import (
	"fmt"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// transactionDateFormat is the wire format for transaction dates.
const transactionDateFormat = "2006-01-02"

// Transaction is the wire representation of a transaction.
type Transaction struct {
	ID          string  `json:"id,omitempty"`
	Date        string  `json:"date" binding:"required"`
	Merchant    string  `json:"merchant" binding:"required"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	IsPending   bool    `json:"is_pending"`
}

// ToDomain converts a wire transaction into the engine's representation.
func (t Transaction) ToDomain() (dedup.Transaction, error) {
	date, err := time.Parse(transactionDateFormat, t.Date)
	if err != nil {
		return dedup.Transaction{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", t.Date)
	}
	return dedup.Transaction{
		Date:        date.UTC(),
		Merchant:    t.Merchant,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		IsPending:   t.IsPending,
	}, nil
}

// FromDomain converts an engine transaction for the wire.
func FromDomain(txn dedup.Transaction) Transaction {
	return Transaction{
		Date:        txn.Date.Format(transactionDateFormat),
		Merchant:    txn.Merchant,
		Amount:      txn.Amount,
		Category:    txn.Category,
		Description: txn.Description,
		IsPending:   txn.IsPending,
	}
}

// FromExisting converts a stored transaction for the wire.
func FromExisting(txn dedup.ExistingTransaction) Transaction {
	out := FromDomain(txn.Transaction)
	out.ID = txn.ID
	return out
}

// ToDomainBatch converts a batch, reporting the first invalid row.
func ToDomainBatch(txns []Transaction) ([]dedup.Transaction, error) {
	out := make([]dedup.Transaction, 0, len(txns))
	for i, t := range txns {
		converted, err := t.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		out = append(out, converted)
	}
	return out, nil
}
