// Package recurring detects fixed (must-pay) expenses from transaction
// history. A summarizer condenses each merchant's history into a statistical
// fingerprint; a rule scorer converts the fingerprint into a calibrated
// confidence score and a decision bucket. Only the ambiguous bucket needs an
// external classifier.
package recurring

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

// Eligibility thresholds: merchants with thinner history than this carry
// too little evidence to fingerprint.
const (
	minTransactions = 3
	minUniqueMonths = 3
)

// dayWindow is the +/- day-of-month range counted as "concentrated".
const dayWindow = 3

// DayConcentration measures how tightly a merchant's transactions cluster
// around one day of the month. It is a structured value with a canonical
// display form; the string and the record are two representations of the
// same fact.
type DayConcentration struct {
	Within int `json:"within"`
	Total  int `json:"total"`
	AvgDay int `json:"avg_day"`
}

// Ratio returns the concentrated fraction, 0 when the summary is empty.
func (d DayConcentration) Ratio() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Within) / float64(d.Total)
}

// String renders the canonical display form, e.g.
// "24/24 within ±3 days of day 1".
func (d DayConcentration) String() string {
	return fmt.Sprintf("%d/%d within ±%d days of day %d", d.Within, d.Total, dayWindow, d.AvgDay)
}

var dayConcentrationRe = regexp.MustCompile(`^(\d+)/(\d+) within ±\d+ days of day (\d+)$`)

// ParseDayConcentration parses the display form back into the record. It
// exists for callers that stored the rendered string.
func ParseDayConcentration(s string) (DayConcentration, bool) {
	m := dayConcentrationRe.FindStringSubmatch(s)
	if m == nil {
		return DayConcentration{}, false
	}
	within, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	avgDay, _ := strconv.Atoi(m[3])
	return DayConcentration{Within: within, Total: total, AvgDay: avgDay}, true
}

// SummaryStats is the statistical fingerprint inside a MerchantSummary.
type SummaryStats struct {
	Count              int              `json:"count"`
	MedianIntervalDays int              `json:"median_interval_days"`
	IntervalCV         float64          `json:"interval_cv"`
	DayConcentration   DayConcentration `json:"day_concentration"`
	AmountMean         float64          `json:"amount_mean"`
	AmountRSTD         float64          `json:"amount_rstd"`
	Flags              []string         `json:"flags"`
}

// HasFlag reports whether the fingerprint carries the given keyword flag.
func (s SummaryStats) HasFlag(flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// MerchantSummary is the compact fingerprint of one merchant's history.
// Immutable once built; only merchants with at least three transactions
// across at least three distinct calendar months get one.
type MerchantSummary struct {
	MerchantKey        string              `json:"merchant_key"`
	OriginalName       string              `json:"original_name"`
	SampleTransactions []dedup.Transaction `json:"sample_transactions"`
	Stats              SummaryStats        `json:"stats"`
	FirstDate          time.Time           `json:"first_date"`
	LastDate           time.Time           `json:"last_date"`
	UniqueMonths       int                 `json:"unique_months"`
}

// Keyword flags attached by the summarizer. Detectors are independent; a
// fingerprint can carry any combination.
const (
	FlagBillKeyword   = "contains_bill_keyword"
	FlagUtility       = "utility"
	FlagLoanMortgage  = "loan_mortgage"
	FlagInsurance     = "insurance"
	FlagSubscription  = "subscription"
	FlagACHAutopay    = "ach_autopay"
	FlagAccountNumber = "has_account_number"
)
