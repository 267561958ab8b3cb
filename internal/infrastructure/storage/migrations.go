package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up:      migration001InitialSchema,
	},
	{
		Version: 2,
		Name:    "add_classifications_table",
		Up:      migration002AddClassificationsTable,
	},
}

// runMigrations executes all pending migrations
func (s *Storage) runMigrations() error {
	// Ensure migrations table exists
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range allMigrations {
		if applied[migration.Version] {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
			migration.Version, migration.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (s *Storage) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func (s *Storage) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func migration001InitialSchema(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			merchant TEXT NOT NULL,
			amount REAL NOT NULL,
			category TEXT,
			description TEXT,
			is_pending BOOLEAN NOT NULL DEFAULT 0,
			reconciled_from TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX idx_transactions_date ON transactions(date);
		CREATE INDEX idx_transactions_pending ON transactions(is_pending);

		CREATE TABLE reconciliation_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			total_new INTEGER NOT NULL,
			pending_reconciled INTEGER NOT NULL,
			exact_duplicates_skipped INTEGER NOT NULL,
			new_pending_added INTEGER NOT NULL,
			new_posted_added INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);
	`)
	return err
}

func migration002AddClassificationsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE merchant_classifications (
			merchant_key TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			confidence REAL NOT NULL,
			source TEXT NOT NULL,
			score REAL NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}
