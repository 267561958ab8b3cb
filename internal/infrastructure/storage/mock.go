package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu sync.Mutex

	transactions    []dedup.ExistingTransaction
	runs            []ReconciliationRun
	classifications map[string]MerchantClassification
	nextID          int

	// Optional error injection.
	ListErr  error
	ApplyErr error
	SaveErr  error
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		classifications: make(map[string]MerchantClassification),
	}
}

// Seed adds existing transactions with generated ids and returns them.
func (m *MockRepository) Seed(txns ...dedup.Transaction) []dedup.ExistingTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	var seeded []dedup.ExistingTransaction
	for _, txn := range txns {
		existing := dedup.ExistingTransaction{ID: m.newID(), Transaction: txn}
		m.transactions = append(m.transactions, existing)
		seeded = append(seeded, existing)
	}
	return seeded
}

// SeedExisting adds pre-built existing transactions (caller-chosen ids).
func (m *MockRepository) SeedExisting(txns ...dedup.ExistingTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, txns...)
}

func (m *MockRepository) newID() string {
	m.nextID++
	return fmt.Sprintf("txn-%d", m.nextID)
}

// ListTransactions implements Repository.
func (m *MockRepository) ListTransactions(from, to time.Time) ([]dedup.ExistingTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}

	var result []dedup.ExistingTransaction
	for _, txn := range m.transactions {
		if !from.IsZero() && txn.Date.Before(from) {
			continue
		}
		if !to.IsZero() && txn.Date.After(to) {
			continue
		}
		result = append(result, txn)
	}
	return result, nil
}

// ApplyReconciliation implements Repository.
func (m *MockRepository) ApplyReconciliation(result dedup.ReconciliationResult) (*ReconciliationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ApplyErr != nil {
		return nil, m.ApplyErr
	}

	run := ReconciliationRun{
		ID:        int64(len(m.runs) + 1),
		Stats:     result.Stats,
		CreatedAt: time.Now().UTC(),
	}

	for _, txn := range result.TransactionsToInsert {
		id := m.newID()
		m.transactions = append(m.transactions, dedup.ExistingTransaction{ID: id, Transaction: txn})
		run.InsertedIDs = append(run.InsertedIDs, id)
	}
	for _, rec := range result.ReconciledTransactions {
		id := m.newID()
		m.transactions = append(m.transactions, dedup.ExistingTransaction{ID: id, Transaction: rec.Transaction})
		run.InsertedIDs = append(run.InsertedIDs, id)
	}

	deleted := make(map[string]bool)
	for _, id := range result.PendingIDsToDelete {
		deleted[id] = true
	}
	if len(deleted) > 0 {
		kept := m.transactions[:0]
		for _, txn := range m.transactions {
			if !deleted[txn.ID] {
				kept = append(kept, txn)
			}
		}
		m.transactions = kept
	}

	m.runs = append(m.runs, run)
	return &run, nil
}

// SaveClassification implements Repository.
func (m *MockRepository) SaveClassification(c *MerchantClassification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	m.classifications[c.MerchantKey] = *c
	return nil
}

// ListClassifications implements Repository.
func (m *MockRepository) ListClassifications() ([]MerchantClassification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []MerchantClassification
	for _, c := range m.classifications {
		result = append(result, c)
	}
	return result, nil
}

// GetStats implements Repository.
func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &Stats{
		TotalTransactions:   len(m.transactions),
		ReconciliationRuns:  len(m.runs),
		ClassifiedMerchants: len(m.classifications),
	}
	for _, txn := range m.transactions {
		if txn.IsPending {
			stats.PendingTransactions++
		}
	}
	return stats, nil
}

// Close implements Repository.
func (m *MockRepository) Close() error { return nil }

// Runs returns the recorded reconciliation runs.
func (m *MockRepository) Runs() []ReconciliationRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReconciliationRun(nil), m.runs...)
}
