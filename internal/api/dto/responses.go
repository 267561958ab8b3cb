package dto

import (
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// ReconcileResponse reports one applied reconciliation run.
type ReconcileResponse struct {
	RunID       int64                     `json:"run_id"`
	Stats       dedup.ReconciliationStats `json:"stats"`
	InsertedIDs []string                  `json:"inserted_ids"`
}

// NewReconcileResponse builds the wire response for an applied run.
func NewReconcileResponse(run *storage.ReconciliationRun) ReconcileResponse {
	if run == nil {
		return ReconcileResponse{}
	}
	return ReconcileResponse{
		RunID:       run.ID,
		Stats:       run.Stats,
		InsertedIDs: run.InsertedIDs,
	}
}

// DedupPreviewResponse reports what a batch would look like after
// deduplication, without side effects.
type DedupPreviewResponse struct {
	Unique            []Transaction `json:"unique"`
	DuplicatesFound   int           `json:"duplicates_found"`
	DuplicateExamples []string      `json:"duplicate_examples,omitempty"`
}

// NewDedupPreviewResponse builds the wire response for a dedup preview.
func NewDedupPreviewResponse(result *dedup.DedupResult) DedupPreviewResponse {
	unique := make([]Transaction, 0, len(result.UniqueTransactions))
	for _, txn := range result.UniqueTransactions {
		unique = append(unique, FromDomain(txn))
	}
	return DedupPreviewResponse{
		Unique:            unique,
		DuplicatesFound:   result.DuplicatesFound,
		DuplicateExamples: result.DuplicateExamples,
	}
}

// TransactionListResponse is a page of stored transactions.
type TransactionListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Count        int           `json:"count"`
}

// NewTransactionListResponse builds the wire response for a listing.
func NewTransactionListResponse(txns []dedup.ExistingTransaction) TransactionListResponse {
	out := make([]Transaction, 0, len(txns))
	for _, txn := range txns {
		out = append(out, FromExisting(txn))
	}
	return TransactionListResponse{Transactions: out, Count: len(out)}
}
