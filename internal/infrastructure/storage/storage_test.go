package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMigrations_RunOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-apply migrations.
	store, err = NewStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	applied, err := store.getAppliedMigrations()
	require.NoError(t, err)
	assert.Len(t, applied, len(allMigrations))
}

func TestApplyReconciliation_InsertsAndDeletes(t *testing.T) {
	store := newTestStorage(t)

	// Seed a pending transaction via a plain insert run.
	seedResult := dedup.ReconciliationResult{
		TransactionsToInsert: []dedup.Transaction{
			{Date: date(2025, 8, 15), Merchant: "UBER *TRIP NYC", Amount: 25.00, IsPending: true},
		},
		Stats: dedup.ReconciliationStats{TotalNew: 1, NewPendingAdded: 1},
	}
	seedRun, err := store.ApplyReconciliation(seedResult)
	require.NoError(t, err)
	require.Len(t, seedRun.InsertedIDs, 1)
	pendingID := seedRun.InsertedIDs[0]

	// Apply a reconciliation superseding the pending.
	result := dedup.ReconciliationResult{
		PendingIDsToDelete: []string{pendingID},
		ReconciledTransactions: []dedup.ReconciledTransaction{
			{
				Transaction:      dedup.Transaction{Date: date(2025, 8, 17), Merchant: "UBER TRIP", Amount: 25.00},
				ReconciledFromID: pendingID,
			},
		},
		Stats: dedup.ReconciliationStats{TotalNew: 1, PendingReconciled: 1},
	}
	run, err := store.ApplyReconciliation(result)
	require.NoError(t, err)
	assert.Len(t, run.InsertedIDs, 1)

	// Pending is gone, posted replacement is stored.
	txns, err := store.ListTransactions(time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "UBER TRIP", txns[0].Merchant)
	assert.False(t, txns[0].IsPending)

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTransactions)
	assert.Equal(t, 1, stats.ReconciledTransactions)
	assert.Equal(t, 2, stats.ReconciliationRuns)
}

func TestListTransactions_DateWindow(t *testing.T) {
	store := newTestStorage(t)

	result := dedup.ReconciliationResult{
		TransactionsToInsert: []dedup.Transaction{
			{Date: date(2025, 7, 1), Merchant: "Old", Amount: 1},
			{Date: date(2025, 8, 15), Merchant: "Mid", Amount: 2},
			{Date: date(2025, 9, 30), Merchant: "New", Amount: 3},
		},
		Stats: dedup.ReconciliationStats{TotalNew: 3, NewPostedAdded: 3},
	}
	_, err := store.ApplyReconciliation(result)
	require.NoError(t, err)

	txns, err := store.ListTransactions(date(2025, 8, 1), date(2025, 8, 31))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Mid", txns[0].Merchant)
	assert.Equal(t, date(2025, 8, 15), txns[0].Date)
}

func TestSaveClassification_Upsert(t *testing.T) {
	store := newTestStorage(t)

	require.NoError(t, store.SaveClassification(&MerchantClassification{
		MerchantKey: "netflix.com",
		Label:       "fixed",
		Confidence:  0.7,
		Source:      SourceRule,
		Score:       0.88,
	}))

	// Second save overwrites.
	require.NoError(t, store.SaveClassification(&MerchantClassification{
		MerchantKey: "netflix.com",
		Label:       "fixed",
		Confidence:  0.95,
		Source:      SourceLLM,
		Score:       0.55,
	}))

	classifications, err := store.ListClassifications()
	require.NoError(t, err)
	require.Len(t, classifications, 1)
	assert.Equal(t, SourceLLM, classifications[0].Source)
	assert.Equal(t, 0.95, classifications[0].Confidence)
}
