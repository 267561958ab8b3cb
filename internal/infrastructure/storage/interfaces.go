package storage

import (
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// Repository is the persistence contract the services depend on. *Storage
// implements it over SQLite; MockRepository implements it in memory for
// tests.
type Repository interface {
	// ListTransactions returns stored transactions with dates inside
	// [from, to]; zero bounds are unbounded.
	ListTransactions(from, to time.Time) ([]dedup.ExistingTransaction, error)

	// ApplyReconciliation performs a reconciliation result's inserts,
	// deletes, and back-reference writes atomically.
	ApplyReconciliation(result dedup.ReconciliationResult) (*ReconciliationRun, error)

	// SaveClassification upserts a merchant's fixed-expense verdict.
	SaveClassification(c *MerchantClassification) error

	// ListClassifications returns all stored verdicts.
	ListClassifications() ([]MerchantClassification, error)

	// GetStats returns aggregate counters.
	GetStats() (*Stats, error)

	Close() error
}

// Compile-time checks.
var (
	_ Repository = (*Storage)(nil)
	_ Repository = (*MockRepository)(nil)
)
