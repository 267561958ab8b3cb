package dedup

import (
	"fmt"

	"github.com/spendlens/spendlens-backend/internal/domain/merchant"
)

// maxDuplicateExamples caps the diagnostic strings attached to a result.
const maxDuplicateExamples = 5

// Deduplicator classifies incoming transactions as unique or duplicate
// against an existing set.
type Deduplicator struct {
	config Config
}

// NewDeduplicator creates a deduplicator with the given tolerances.
func NewDeduplicator(config Config) *Deduplicator {
	return &Deduplicator{config: config}
}

// DedupResult is the outcome of a deduplication pass. UniqueTransactions
// preserves the input order of the new batch.
type DedupResult struct {
	UniqueTransactions []Transaction `json:"unique_transactions"`
	DuplicatesFound    int           `json:"duplicates_found"`

	// DuplicateExamples holds up to five human-readable descriptions of
	// detected duplicates, for logs and API diagnostics.
	DuplicateExamples []string `json:"duplicate_examples,omitempty"`
}

// Deduplicate scans each new transaction against the existing set and keeps
// only the ones no existing transaction matches.
//
// A new transaction is a duplicate of an existing one when the amounts are
// within tolerance and either the dates fall on the same calendar day
// (priority 1, exact duplicate) or within the configured window (priority 2,
// the pending/posted case). Priority 1 is exhausted across the whole
// existing set before priority 2 is considered.
func (d *Deduplicator) Deduplicate(newTxns []Transaction, existing []Transaction) DedupResult {
	result := DedupResult{
		UniqueTransactions: make([]Transaction, 0, len(newTxns)),
	}

	for _, txn := range newTxns {
		match := d.findDuplicate(txn, existing)
		if match == nil {
			result.UniqueTransactions = append(result.UniqueTransactions, txn)
			continue
		}

		result.DuplicatesFound++
		if len(result.DuplicateExamples) < maxDuplicateExamples {
			result.DuplicateExamples = append(result.DuplicateExamples,
				formatDuplicate(txn, *match))
		}
	}

	return result
}

// findDuplicate returns the existing transaction that makes txn a duplicate,
// or nil. Same-day matches win over window matches regardless of scan order.
func (d *Deduplicator) findDuplicate(txn Transaction, existing []Transaction) *Transaction {
	// Priority 1: same calendar day.
	for i := range existing {
		if !amountsWithinTolerance(txn.Amount, existing[i].Amount, d.config.AmountTolerance) {
			continue
		}
		if sameCalendarDay(txn.Date, existing[i].Date) && merchant.Match(txn.Merchant, existing[i].Merchant).IsMatch {
			return &existing[i]
		}
	}

	// Priority 2: merchant match within the date window.
	for i := range existing {
		if !amountsWithinTolerance(txn.Amount, existing[i].Amount, d.config.AmountTolerance) {
			continue
		}
		if merchant.Match(txn.Merchant, existing[i].Merchant).IsMatch &&
			datesWithinWindow(txn.Date, existing[i].Date, d.config.DateWindowDays) {
			return &existing[i]
		}
	}

	return nil
}

func formatDuplicate(txn, match Transaction) string {
	return fmt.Sprintf("%s %q $%.2f matches existing %s %q $%.2f",
		txn.Date.Format("2006-01-02"), txn.Merchant, txn.Amount,
		match.Date.Format("2006-01-02"), match.Merchant, match.Amount)
}
