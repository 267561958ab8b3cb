package storage

import (
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// ReconciliationRun records one applied reconciliation: the engine's stats
// plus the ids assigned to the inserted transactions.
type ReconciliationRun struct {
	ID          int64                     `json:"id"`
	Stats       dedup.ReconciliationStats `json:"stats"`
	InsertedIDs []string                  `json:"inserted_ids"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// Classification sources.
const (
	SourceRule = "rule"
	SourceLLM  = "llm"
)

// MerchantClassification is a persisted fixed-expense verdict for one
// merchant group.
type MerchantClassification struct {
	MerchantKey string    `json:"merchant_key"`
	Label       string    `json:"label"`
	Confidence  float64   `json:"confidence"`
	Source      string    `json:"source"`
	Score       float64   `json:"score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stats holds aggregate counters for dashboards.
type Stats struct {
	TotalTransactions      int `json:"total_transactions"`
	PendingTransactions    int `json:"pending_transactions"`
	ReconciledTransactions int `json:"reconciled_transactions"`
	ReconciliationRuns     int `json:"reconciliation_runs"`
	ClassifiedMerchants    int `json:"classified_merchants"`
}
