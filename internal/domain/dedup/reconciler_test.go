package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeExisting(id, merchant string, amount float64, day time.Time, pending bool) ExistingTransaction {
	return ExistingTransaction{
		ID: id,
		Transaction: Transaction{
			Date:      day,
			Merchant:  merchant,
			Amount:    amount,
			IsPending: pending,
		},
	}
}

func TestReconcile_PendingToPosted(t *testing.T) {
	// Arrange
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 17), Merchant: "UBER PENDING", Amount: 25.00, IsPending: false},
	}
	existing := []ExistingTransaction{
		makeExisting("p1", "UBER *TRIP NYC", 25.00, date(2025, 8, 15), true),
	}

	// Act
	result := r.Reconcile(newTxns, existing)

	// Assert
	assert.Equal(t, []string{"p1"}, result.PendingIDsToDelete)
	require.Len(t, result.ReconciledTransactions, 1)
	assert.Equal(t, "p1", result.ReconciledTransactions[0].ReconciledFromID)
	assert.Equal(t, "UBER PENDING", result.ReconciledTransactions[0].Transaction.Merchant)
	assert.Empty(t, result.TransactionsToInsert)
	assert.Equal(t, 1, result.Stats.PendingReconciled)
	assert.Equal(t, 0, result.Stats.NewPostedAdded)
}

func TestReconcile_NewPendingSkippedWhenPostedExists(t *testing.T) {
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 16), Merchant: "Starbucks", Amount: 5.50, IsPending: true},
	}
	existing := []ExistingTransaction{
		makeExisting("t1", "Starbucks", 5.50, date(2025, 8, 15), false),
	}

	result := r.Reconcile(newTxns, existing)

	assert.Empty(t, result.TransactionsToInsert)
	assert.Empty(t, result.PendingIDsToDelete)
	assert.Equal(t, 1, result.Stats.ExactDuplicatesSkipped)
}

func TestReconcile_SameStageDuplicateDropped(t *testing.T) {
	r := NewReconciler(DefaultConfig())

	t.Run("both posted", func(t *testing.T) {
		result := r.Reconcile(
			[]Transaction{{Date: date(2025, 8, 15), Merchant: "Starbucks", Amount: 5.50}},
			[]ExistingTransaction{makeExisting("t1", "Starbucks", 5.50, date(2025, 8, 15), false)},
		)
		assert.Empty(t, result.TransactionsToInsert)
		assert.Equal(t, 1, result.Stats.ExactDuplicatesSkipped)
	})

	t.Run("both pending", func(t *testing.T) {
		result := r.Reconcile(
			[]Transaction{{Date: date(2025, 8, 15), Merchant: "Starbucks", Amount: 5.50, IsPending: true}},
			[]ExistingTransaction{makeExisting("p1", "Starbucks", 5.50, date(2025, 8, 15), true)},
		)
		assert.Empty(t, result.TransactionsToInsert)
		assert.Empty(t, result.PendingIDsToDelete)
		assert.Equal(t, 1, result.Stats.ExactDuplicatesSkipped)
	})
}

func TestReconcile_NoMatchInserts(t *testing.T) {
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 15), Merchant: "Chipotle", Amount: 12.00, IsPending: false},
		{Date: date(2025, 8, 16), Merchant: "Shell Oil", Amount: 40.00, IsPending: true},
	}

	result := r.Reconcile(newTxns, nil)

	assert.Len(t, result.TransactionsToInsert, 2)
	assert.Equal(t, 1, result.Stats.NewPostedAdded)
	assert.Equal(t, 1, result.Stats.NewPendingAdded)
	assert.Equal(t, 2, result.Stats.TotalNew)
}

func TestReconcile_PendingConsumedOnce(t *testing.T) {
	// Two posted transactions matching the same stored pending: only the
	// first reconciles; the second keeps scanning and, finding no other
	// match, is inserted as a new posted transaction.
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 16), Merchant: "Uber", Amount: 25.00},
		{Date: date(2025, 8, 17), Merchant: "Uber", Amount: 25.00},
	}
	existing := []ExistingTransaction{
		makeExisting("p1", "Uber", 25.00, date(2025, 8, 15), true),
	}

	result := r.Reconcile(newTxns, existing)

	assert.Equal(t, []string{"p1"}, result.PendingIDsToDelete)
	assert.Equal(t, 1, result.Stats.PendingReconciled)
	assert.Equal(t, 1, result.Stats.NewPostedAdded)
	assert.Len(t, result.ReconciledTransactions, 1)
	assert.Len(t, result.TransactionsToInsert, 1)
}

func TestReconcile_FirstMatchWinsInScanOrder(t *testing.T) {
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 16), Merchant: "Uber", Amount: 25.00},
	}
	existing := []ExistingTransaction{
		makeExisting("p2", "Uber", 25.00, date(2025, 8, 14), true),
		makeExisting("p1", "Uber", 25.00, date(2025, 8, 16), true),
	}

	result := r.Reconcile(newTxns, existing)

	// Caller-supplied order decides between equally valid matches.
	assert.Equal(t, []string{"p2"}, result.PendingIDsToDelete)
}

func TestReconcile_MixedBatch(t *testing.T) {
	r := NewReconciler(DefaultConfig())
	newTxns := []Transaction{
		{Date: date(2025, 8, 17), Merchant: "UBER PENDING", Amount: 25.00},               // reconciles p1
		{Date: date(2025, 8, 15), Merchant: "Starbucks", Amount: 5.50},                   // duplicate of t1
		{Date: date(2025, 8, 18), Merchant: "Chipotle", Amount: 12.00},                   // new posted
		{Date: date(2025, 8, 18), Merchant: "Shell Oil", Amount: 40.00, IsPending: true}, // new pending
	}
	existing := []ExistingTransaction{
		makeExisting("p1", "UBER *TRIP NYC", 25.00, date(2025, 8, 15), true),
		makeExisting("t1", "Starbucks", 5.50, date(2025, 8, 15), false),
	}

	result := r.Reconcile(newTxns, existing)

	assert.Equal(t, ReconciliationStats{
		TotalNew:               4,
		PendingReconciled:      1,
		ExactDuplicatesSkipped: 1,
		NewPendingAdded:        1,
		NewPostedAdded:         1,
	}, result.Stats)
	assert.Len(t, result.TransactionsToInsert, 2)
	assert.Len(t, result.ReconciledTransactions, 1)
}
