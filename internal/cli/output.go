package cli

import (
	"fmt"
	"strings"

	"github.com/spendlens/spendlens-backend/internal/application/service"
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// PrintDedupPreview prints the outcome of a write-free duplicate check.
func PrintDedupPreview(total int, result *dedup.DedupResult) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Dedup preview: Total=%d Unique=%d Duplicates=%d\n",
		total,
		len(result.UniqueTransactions),
		result.DuplicatesFound)

	if len(result.DuplicateExamples) > 0 {
		fmt.Println("\nDuplicate examples:")
		for _, example := range result.DuplicateExamples {
			fmt.Printf("  - %s\n", example)
		}
	}
}

// PrintReconcileReport prints the outcome of an applied batch.
func PrintReconcileReport(report *service.ReconcileReport) {
	stats := report.Stats
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Reconciled: Total=%d PendingResolved=%d DuplicatesSkipped=%d NewPending=%d NewPosted=%d\n",
		stats.TotalNew,
		stats.PendingReconciled,
		stats.ExactDuplicatesSkipped,
		stats.NewPendingAdded,
		stats.NewPostedAdded)

	if report.Run != nil {
		fmt.Printf("\nRun #%d stored %d transactions.\n", report.Run.ID, len(report.Run.InsertedIDs))
	}
}

// PrintRecurringReport prints per-merchant verdicts from a detection run.
func PrintRecurringReport(report *service.RecurringReport) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Recurring merchants: %d (rule=%d, escalated=%d, llm_errors=%d)\n",
		len(report.Verdicts),
		report.RuleDecided,
		report.Escalated,
		report.LLMErrors)

	if len(report.Verdicts) == 0 {
		return
	}

	fmt.Println()
	for _, v := range report.Verdicts {
		fmt.Printf("  %-30s %-10s score=%.2f confidence=%.2f [%s]\n",
			v.Summary.MerchantKey,
			v.Label,
			v.RuleScore.Score,
			v.Confidence,
			v.Source)
		if v.Reasoning != "" {
			fmt.Printf("      %s\n", v.Reasoning)
		}
	}
}
