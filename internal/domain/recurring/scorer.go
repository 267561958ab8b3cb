package recurring

import "math"

// Decision thresholds on the final score.
const (
	highConfidenceFixed    = 0.85
	highConfidenceNotFixed = 0.15
)

// Component weights of the base score.
const (
	weightIntervalRegularity = 0.35
	weightDayConcentration   = 0.25
	weightAmountStability    = 0.25
	weightKeywordBonus       = 0.15
)

// ScoreComponents are the four weighted sub-scores behind a RuleScore, kept
// for explainability.
type ScoreComponents struct {
	IntervalRegularity float64 `json:"interval_regularity"`
	DayConcentration   float64 `json:"day_concentration"`
	AmountStability    float64 `json:"amount_stability"`
	KeywordBonus       float64 `json:"keyword_bonus"`
}

// RuleScore is the fixed-expense confidence derived from a merchant
// fingerprint. Score is always in [0,1].
type RuleScore struct {
	Score      float64         `json:"score"`
	Components ScoreComponents `json:"components"`
}

// IsHighConfidenceFixed reports a score the caller can act on without
// further classification.
func (r RuleScore) IsHighConfidenceFixed() bool { return r.Score >= highConfidenceFixed }

// IsHighConfidenceNotFixed reports a score safely below the fixed-expense
// range.
func (r RuleScore) IsHighConfidenceNotFixed() bool { return r.Score <= highConfidenceNotFixed }

// IsAmbiguous reports a score strictly between the two thresholds; only
// these merchants should be escalated to an external classifier.
func (r RuleScore) IsAmbiguous() bool {
	return r.Score > highConfidenceNotFixed && r.Score < highConfidenceFixed
}

// ComputeRuleScore converts a merchant fingerprint into a fixed-expense
// confidence. Four independent components, each clamped to [0,1], are
// weighted into a base score, then scaled by a multiplier keyed on the
// median payment interval (canonical monthly cadence scores full strength,
// weekly cadence is heavily discounted).
func ComputeRuleScore(summary MerchantSummary) RuleScore {
	components := ScoreComponents{
		IntervalRegularity: intervalRegularityScore(summary.Stats.IntervalCV),
		DayConcentration:   dayConcentrationScore(summary.Stats.DayConcentration),
		AmountStability:    amountStabilityScore(summary.Stats.AmountRSTD),
		KeywordBonus:       keywordBonus(summary.Stats),
	}

	base := weightIntervalRegularity*components.IntervalRegularity +
		weightDayConcentration*components.DayConcentration +
		weightAmountStability*components.AmountStability +
		weightKeywordBonus*components.KeywordBonus

	score := clamp01(base * intervalMultiplier(summary.Stats.MedianIntervalDays))

	return RuleScore{Score: score, Components: components}
}

// intervalRegularityScore is piecewise-linear in the interval coefficient of
// variation: 1 below 0.15, 0 above 0.60.
func intervalRegularityScore(cv float64) float64 {
	const lo, hi = 0.15, 0.60
	switch {
	case cv <= lo:
		return 1
	case cv >= hi:
		return 0
	default:
		return clamp01((hi - cv) / (hi - lo))
	}
}

// dayConcentrationScore rescales the concentrated fraction: below 0.6 the
// evidence is too weak to count, 1.0 maps to full strength.
func dayConcentrationScore(dc DayConcentration) float64 {
	const floor = 0.6
	ratio := dc.Ratio()
	if ratio < floor {
		return 0
	}
	return clamp01((ratio - floor) / (1 - floor))
}

// amountStabilityScore is piecewise-linear in the relative stddev of
// amounts: 1 below 0.10, 0 above 0.40.
func amountStabilityScore(rstd float64) float64 {
	const lo, hi = 0.10, 0.40
	switch {
	case rstd <= lo:
		return 1
	case rstd >= hi:
		return 0
	default:
		return clamp01((hi - rstd) / (hi - lo))
	}
}

// keywordBonus is the single highest tier present in the flags, not a sum.
func keywordBonus(stats SummaryStats) float64 {
	switch {
	case stats.HasFlag(FlagLoanMortgage) || stats.HasFlag(FlagUtility) || stats.HasFlag(FlagInsurance):
		return 0.3
	case stats.HasFlag(FlagSubscription) || stats.HasFlag(FlagACHAutopay):
		return 0.2
	case stats.HasFlag(FlagBillKeyword) || stats.HasFlag(FlagAccountNumber):
		return 0.1
	default:
		return 0
	}
}

// intervalMultiplier discounts the base score for cadences that rarely
// correspond to fixed obligations. Tighter monthly bands are checked before
// the loose one.
func intervalMultiplier(medianDays int) float64 {
	switch {
	case medianDays >= 28 && medianDays <= 32:
		return 1.0 // canonical monthly
	case medianDays >= 25 && medianDays <= 35:
		return 0.8
	case medianDays >= 12 && medianDays <= 16:
		return 0.7 // biweekly
	case medianDays >= 85 && medianDays <= 95:
		return 0.6 // quarterly
	case medianDays >= 6 && medianDays <= 8:
		return 0.2 // weekly, usually habit spending
	default:
		return 0.3
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
