package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/classifier"
	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/domain/recurring"
	"github.com/spendlens/spendlens-backend/internal/infrastructure/storage"
)

// RecurringService builds merchant fingerprints from stored history,
// scores them, and escalates ambiguous ones to the LLM classifier.
type RecurringService struct {
	storage    storage.Repository
	classifier classifier.Client // nil disables escalation
	logger     *slog.Logger
}

// NewRecurringService creates a recurring-expense service. A nil client
// disables LLM escalation; ambiguous merchants stay "maybe".
func NewRecurringService(store storage.Repository, client classifier.Client, logger *slog.Logger) *RecurringService {
	return &RecurringService{
		storage:    store,
		classifier: client,
		logger:     logger,
	}
}

// MerchantVerdict is one merchant group's detection outcome.
type MerchantVerdict struct {
	Summary    recurring.MerchantSummary `json:"summary"`
	RuleScore  recurring.RuleScore       `json:"rule_score"`
	Label      classifier.Label          `json:"label"`
	Confidence float64                   `json:"confidence"`
	Source     string                    `json:"source"`
	Reasoning  string                    `json:"reasoning,omitempty"`
}

// RecurringReport is the outcome of one detection run.
type RecurringReport struct {
	Verdicts    []MerchantVerdict `json:"verdicts"`
	RuleDecided int               `json:"rule_decided"`
	Escalated   int               `json:"escalated"`
	LLMErrors   int               `json:"llm_errors"`
}

// DetectRecurring summarizes all stored history, scores each merchant
// group, and persists a classification per group. High-confidence rule
// scores are authoritative; ambiguous groups go to the classifier when
// one is configured, and classifier failures degrade to "maybe".
func (s *RecurringService) DetectRecurring(ctx context.Context) (*RecurringReport, error) {
	existing, err := s.storage.ListTransactions(time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("loading transaction history: %w", err)
	}

	history := make([]dedup.Transaction, len(existing))
	for i, e := range existing {
		history[i] = e.Transaction
	}

	summaries := recurring.Summarize(history)
	report := &RecurringReport{}

	for _, summary := range summaries {
		verdict, llmErr := s.classify(ctx, summary)
		report.Verdicts = append(report.Verdicts, verdict)

		switch verdict.Source {
		case storage.SourceRule:
			report.RuleDecided++
		case storage.SourceLLM:
			report.Escalated++
			if llmErr {
				report.LLMErrors++
			}
		}

		if err := s.saveVerdict(verdict); err != nil {
			return nil, fmt.Errorf("saving verdict for %s: %w", summary.MerchantKey, err)
		}
	}

	s.logger.Info("recurring detection complete",
		"merchants", len(report.Verdicts),
		"rule_decided", report.RuleDecided,
		"escalated", report.Escalated,
		"llm_errors", report.LLMErrors,
	)

	return report, nil
}

func (s *RecurringService) classify(ctx context.Context, summary recurring.MerchantSummary) (MerchantVerdict, bool) {
	score := recurring.ComputeRuleScore(summary)
	verdict := MerchantVerdict{
		Summary:   summary,
		RuleScore: score,
		Source:    storage.SourceRule,
	}

	switch {
	case score.IsHighConfidenceFixed():
		verdict.Label = classifier.LabelFixed
		verdict.Confidence = score.Score
		return verdict, false
	case score.IsHighConfidenceNotFixed():
		verdict.Label = classifier.LabelNotFixed
		verdict.Confidence = 1 - score.Score
		return verdict, false
	}

	if s.classifier == nil {
		verdict.Label = classifier.LabelMaybe
		verdict.Confidence = 0.5
		return verdict, false
	}

	verdict.Source = storage.SourceLLM
	resp, err := s.classifier.ClassifyMerchant(ctx, classifier.BuildPrompt(summary))
	if err != nil {
		s.logger.Warn("classifier call failed, degrading to maybe",
			"merchant", summary.MerchantKey,
			"error", err,
		)
		verdict.Label = classifier.LabelMaybe
		verdict.Confidence = 0.5
		return verdict, true
	}

	verdict.Label = resp.Label
	verdict.Confidence = resp.Confidence
	verdict.Reasoning = resp.Reasoning
	return verdict, false
}

func (s *RecurringService) saveVerdict(v MerchantVerdict) error {
	return s.storage.SaveClassification(&storage.MerchantClassification{
		MerchantKey: v.Summary.MerchantKey,
		Label:       string(v.Label),
		Confidence:  v.Confidence,
		Source:      v.Source,
		Score:       v.RuleScore.Score,
		UpdatedAt:   time.Now().UTC(),
	})
}
