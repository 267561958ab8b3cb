// Package storage provides SQLite persistence for transactions,
// reconciliation runs, and merchant classifications. It is the caller-side
// collaborator of the dedup/recurring engine: it supplies existing
// transactions and applies the intentions a reconciliation produces.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

const dateFormat = "2006-01-02"

// Storage provides database access.
type Storage struct {
	db *sql.DB
}

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ListTransactions returns stored transactions with dates inside [from, to].
// Zero time bounds are unbounded. Results are ordered by date then insertion
// order, which is also the scan order the reconciler sees.
func (s *Storage) ListTransactions(from, to time.Time) ([]dedup.ExistingTransaction, error) {
	query := `SELECT id, date, merchant, amount, category, description, is_pending
	          FROM transactions WHERE 1=1`
	var args []interface{}

	if !from.IsZero() {
		query += " AND date >= ?"
		args = append(args, from.UTC().Format(dateFormat))
	}
	if !to.IsZero() {
		query += " AND date <= ?"
		args = append(args, to.UTC().Format(dateFormat))
	}
	query += " ORDER BY date, rowid"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []dedup.ExistingTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func scanTransaction(rows *sql.Rows) (dedup.ExistingTransaction, error) {
	var txn dedup.ExistingTransaction
	var dateStr string
	var category, description sql.NullString

	if err := rows.Scan(&txn.ID, &dateStr, &txn.Merchant, &txn.Amount, &category, &description, &txn.IsPending); err != nil {
		return dedup.ExistingTransaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	date, err := time.ParseInLocation(dateFormat, dateStr, time.UTC)
	if err != nil {
		return dedup.ExistingTransaction{}, fmt.Errorf("bad stored date %q: %w", dateStr, err)
	}
	txn.Date = date
	txn.Category = category.String
	txn.Description = description.String
	return txn, nil
}

// ApplyReconciliation performs the intentions of a reconciliation result in
// one database transaction: inserts new transactions, inserts posted
// replacements with their back-references, deletes superseded pendings, and
// records the run stats. Returns the recorded run including the assigned
// transaction ids.
func (s *Storage) ApplyReconciliation(result dedup.ReconciliationResult) (*ReconciliationRun, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := &ReconciliationRun{
		Stats:     result.Stats,
		CreatedAt: time.Now().UTC(),
	}

	for _, txn := range result.TransactionsToInsert {
		id, err := insertTransaction(tx, txn, "")
		if err != nil {
			return nil, err
		}
		run.InsertedIDs = append(run.InsertedIDs, id)
	}

	for _, rec := range result.ReconciledTransactions {
		id, err := insertTransaction(tx, rec.Transaction, rec.ReconciledFromID)
		if err != nil {
			return nil, err
		}
		run.InsertedIDs = append(run.InsertedIDs, id)
	}

	for _, pendingID := range result.PendingIDsToDelete {
		if _, err := tx.Exec(`DELETE FROM transactions WHERE id = ?`, pendingID); err != nil {
			return nil, fmt.Errorf("failed to delete pending %s: %w", pendingID, err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO reconciliation_runs
			(total_new, pending_reconciled, exact_duplicates_skipped, new_pending_added, new_posted_added, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.Stats.TotalNew,
		result.Stats.PendingReconciled,
		result.Stats.ExactDuplicatesSkipped,
		result.Stats.NewPendingAdded,
		result.Stats.NewPostedAdded,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record reconciliation run: %w", err)
	}
	run.ID, _ = res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reconciliation: %w", err)
	}
	return run, nil
}

func insertTransaction(tx *sql.Tx, txn dedup.Transaction, reconciledFrom string) (string, error) {
	id := uuid.NewString()

	var backRef interface{}
	if reconciledFrom != "" {
		backRef = reconciledFrom
	}

	_, err := tx.Exec(`
		INSERT INTO transactions (id, date, merchant, amount, category, description, is_pending, reconciled_from)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		txn.Date.UTC().Format(dateFormat),
		txn.Merchant,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.IsPending,
		backRef,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction %q: %w", txn.Merchant, err)
	}
	return id, nil
}

// SaveClassification upserts a merchant's fixed-expense classification.
func (s *Storage) SaveClassification(c *MerchantClassification) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO merchant_classifications (merchant_key, label, confidence, source, score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(merchant_key) DO UPDATE SET
			label = excluded.label,
			confidence = excluded.confidence,
			source = excluded.source,
			score = excluded.score,
			updated_at = excluded.updated_at`,
		c.MerchantKey, c.Label, c.Confidence, c.Source, c.Score,
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save classification for %q: %w", c.MerchantKey, err)
	}
	return nil
}

// ListClassifications returns all stored classifications ordered by merchant
// key.
func (s *Storage) ListClassifications() ([]MerchantClassification, error) {
	rows, err := s.db.Query(`
		SELECT merchant_key, label, confidence, source, score, updated_at
		FROM merchant_classifications ORDER BY merchant_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer rows.Close()

	var classifications []MerchantClassification
	for rows.Next() {
		var c MerchantClassification
		var updatedAt string
		if err := rows.Scan(&c.MerchantKey, &c.Label, &c.Confidence, &c.Source, &c.Score, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			c.UpdatedAt = t
		}
		classifications = append(classifications, c)
	}
	return classifications, rows.Err()
}

// GetStats returns aggregate counters for dashboards and the health
// endpoint.
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}

	row := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_pending THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN reconciled_from IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM transactions`)
	if err := row.Scan(&stats.TotalTransactions, &stats.PendingTransactions, &stats.ReconciledTransactions); err != nil {
		return nil, fmt.Errorf("failed to get transaction stats: %w", err)
	}

	row = s.db.QueryRow(`SELECT COUNT(*) FROM reconciliation_runs`)
	if err := row.Scan(&stats.ReconciliationRuns); err != nil {
		return nil, fmt.Errorf("failed to get run stats: %w", err)
	}

	row = s.db.QueryRow(`SELECT COUNT(*) FROM merchant_classifications`)
	if err := row.Scan(&stats.ClassifiedMerchants); err != nil {
		return nil, fmt.Errorf("failed to get classification stats: %w", err)
	}

	return stats, nil
}
