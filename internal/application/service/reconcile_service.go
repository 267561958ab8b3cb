package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// ReconcileService runs incoming transaction batches through the
// deduplication and reconciliation engine and persists the outcome.
type ReconcileService struct {
	storage      storage.Repository
	reconciler   *dedup.Reconciler
	deduplicator *dedup.Deduplicator
	config       dedup.Config
	logger       *slog.Logger
}

// NewReconcileService creates a reconcile service.
func NewReconcileService(store storage.Repository, config dedup.Config, logger *slog.Logger) *ReconcileService {
	return &ReconcileService{
		storage:      store,
		reconciler:   dedup.NewReconciler(config),
		deduplicator: dedup.NewDeduplicator(config),
		config:       config,
		logger:       logger,
	}
}

// ReconcileReport is the applied outcome of one incoming batch.
type ReconcileReport struct {
	Run   *storage.ReconciliationRun `json:"run"`
	Stats dedup.ReconciliationStats  `json:"stats"`
}

// Reconcile matches a batch against stored transactions around its date
// range and applies the resulting inserts and pending deletions.
func (s *ReconcileService) Reconcile(newTxns []dedup.Transaction) (*ReconcileReport, error) {
	if len(newTxns) == 0 {
		return &ReconcileReport{}, nil
	}

	existing, err := s.loadWindow(newTxns)
	if err != nil {
		return nil, fmt.Errorf("loading existing transactions: %w", err)
	}

	result := s.reconciler.Reconcile(newTxns, existing)

	run, err := s.storage.ApplyReconciliation(result)
	if err != nil {
		return nil, fmt.Errorf("applying reconciliation: %w", err)
	}

	s.logger.Info("batch reconciled",
		"total_new", result.Stats.TotalNew,
		"pending_reconciled", result.Stats.PendingReconciled,
		"exact_duplicates_skipped", result.Stats.ExactDuplicatesSkipped,
		"new_pending_added", result.Stats.NewPendingAdded,
		"new_posted_added", result.Stats.NewPostedAdded,
		"run_id", run.ID,
	)

	return &ReconcileReport{Run: run, Stats: result.Stats}, nil
}

// PreviewDedup reports which transactions of a batch would be dropped as
// duplicates, without writing anything.
func (s *ReconcileService) PreviewDedup(newTxns []dedup.Transaction) (*dedup.DedupResult, error) {
	if len(newTxns) == 0 {
		return &dedup.DedupResult{}, nil
	}

	existing, err := s.loadWindow(newTxns)
	if err != nil {
		return nil, fmt.Errorf("loading existing transactions: %w", err)
	}

	stored := make([]dedup.Transaction, len(existing))
	for i, e := range existing {
		stored[i] = e.Transaction
	}

	result := s.deduplicator.Deduplicate(newTxns, stored)
	return &result, nil
}

// loadWindow fetches stored transactions covering the batch's date range
// widened by the match window on both sides.
func (s *ReconcileService) loadWindow(newTxns []dedup.Transaction) ([]dedup.ExistingTransaction, error) {
	minDate, maxDate := newTxns[0].Date, newTxns[0].Date
	for _, txn := range newTxns[1:] {
		if txn.Date.Before(minDate) {
			minDate = txn.Date
		}
		if txn.Date.After(maxDate) {
			maxDate = txn.Date
		}
	}

	pad := time.Duration(s.config.DateWindowDays) * 24 * time.Hour
	return s.storage.ListTransactions(minDate.Add(-pad), maxDate.Add(pad))
}
