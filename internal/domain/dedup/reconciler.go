package dedup

import "github.com/spendlens/spendlens-backend/internal/domain/merchant"

// Reconciler extends deduplication with pending/posted lifecycle handling:
// a posted transaction that matches a stored pending one supersedes it.
type Reconciler struct {
	config Config
}

// NewReconciler creates a reconciler with the given tolerances.
func NewReconciler(config Config) *Reconciler {
	return &Reconciler{config: config}
}

// ReconciledTransaction pairs an inserted posted transaction with the id of
// the pending transaction it replaces.
type ReconciledTransaction struct {
	Transaction      Transaction `json:"transaction"`
	ReconciledFromID string      `json:"reconciled_from_id"`
}

// ReconciliationStats summarizes one reconciliation pass.
type ReconciliationStats struct {
	TotalNew               int `json:"total_new"`
	PendingReconciled      int `json:"pending_reconciled"`
	ExactDuplicatesSkipped int `json:"exact_duplicates_skipped"`
	NewPendingAdded        int `json:"new_pending_added"`
	NewPostedAdded         int `json:"new_posted_added"`
}

// ReconciliationResult carries the intentions produced by a reconciliation
// pass. The caller owns persistence: it inserts TransactionsToInsert (the
// new uniques and new pendings), deletes PendingIDsToDelete, and inserts the
// posted replacements in ReconciledTransactions together with their
// back-references.
type ReconciliationResult struct {
	TransactionsToInsert   []Transaction           `json:"transactions_to_insert"`
	PendingIDsToDelete     []string                `json:"pending_ids_to_delete"`
	ReconciledTransactions []ReconciledTransaction `json:"reconciled_transactions"`
	Stats                  ReconciliationStats     `json:"stats"`
}

// Reconcile classifies each new transaction against the existing set.
//
// Per new transaction, the first existing transaction with a matching
// amount, matching merchant, and a date within the window decides the
// action:
//
//	new posted  + matched pending  -> reconcile (delete pending, insert posted)
//	new pending + matched posted   -> skip (posted version already stored)
//	same lifecycle stage           -> duplicate, drop the new transaction
//	no match                       -> insert as new pending or posted
//
// The scan takes existing transactions in caller-supplied order; a pending
// transaction is consumed by at most one reconciliation so its id is never
// scheduled for deletion twice.
func (r *Reconciler) Reconcile(newTxns []Transaction, existing []ExistingTransaction) ReconciliationResult {
	result := ReconciliationResult{
		Stats: ReconciliationStats{TotalNew: len(newTxns)},
	}

	usedPendingIDs := make(map[string]bool)

	for _, txn := range newTxns {
		match := r.findMatch(txn, existing, usedPendingIDs)

		switch {
		case match == nil:
			result.TransactionsToInsert = append(result.TransactionsToInsert, txn)
			if txn.IsPending {
				result.Stats.NewPendingAdded++
			} else {
				result.Stats.NewPostedAdded++
			}

		case !txn.IsPending && match.IsPending:
			// Posted counterpart of a stored pending transaction.
			usedPendingIDs[match.ID] = true
			result.PendingIDsToDelete = append(result.PendingIDsToDelete, match.ID)
			result.ReconciledTransactions = append(result.ReconciledTransactions, ReconciledTransaction{
				Transaction:      txn,
				ReconciledFromID: match.ID,
			})
			result.Stats.PendingReconciled++

		default:
			// Same lifecycle stage, or a new pending whose posted version
			// is already stored. Either way the new transaction is dropped.
			result.Stats.ExactDuplicatesSkipped++
		}
	}

	return result
}

// findMatch returns the first existing transaction satisfying the
// amount+merchant+window predicate, skipping pendings already consumed in
// this pass.
func (r *Reconciler) findMatch(txn Transaction, existing []ExistingTransaction, usedPendingIDs map[string]bool) *ExistingTransaction {
	for i := range existing {
		if usedPendingIDs[existing[i].ID] {
			continue
		}
		if !amountsWithinTolerance(txn.Amount, existing[i].Amount, r.config.AmountTolerance) {
			continue
		}
		if merchant.Match(txn.Merchant, existing[i].Merchant).IsMatch &&
			datesWithinWindow(txn.Date, existing[i].Date, r.config.DateWindowDays) {
			return &existing[i]
		}
	}
	return nil
}
