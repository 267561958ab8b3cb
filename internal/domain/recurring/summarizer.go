package recurring

import (
	"math"
	"sort"
	"strings"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
	"github.com/spendlens/spendlens-backend/internal/domain/merchant"
)

// rentGroupKey is the collapsed grouping key for rent-like merchants, so
// that differently-worded rent line items ("April rent", "Oakwood Property
// Management") land in one group.
const rentGroupKey = "rent payment"

var rentKeywords = []string{
	"rent", "lease", "rental", "landlord", "property management", "realty", "housing",
}

// rentExclusions keeps bank products and named apartment complexes from
// collapsing into the generic rent group.
var rentExclusions = []string{
	"insurance", "bank", "credit union", "apartment", "apartments", "apt", "complex",
}

// flagDetectors maps each keyword flag to the terms that trigger it, in the
// order flags are emitted.
var flagDetectors = []struct {
	flag  string
	terms []string
}{
	{FlagBillKeyword, []string{"bill", "payment", "pay", "autopay"}},
	{FlagUtility, []string{"electric", "gas", "water", "utility", "power", "energy"}},
	{FlagLoanMortgage, []string{"loan", "mortgage", "servicing", "lending"}},
	{FlagInsurance, []string{"insurance"}},
	{FlagSubscription, []string{"subscription", "monthly", "annual", "membership"}},
	{FlagACHAutopay, []string{"ach", "direct debit", "recurring", "automatic"}},
	{FlagAccountNumber, []string{"acct", "account", "a/c"}},
}

// Summarize groups a transaction history by normalized merchant and computes
// one statistical fingerprint per eligible merchant group. Groups with fewer
// than three transactions or spanning fewer than three distinct UTC calendar
// months are silently excluded. Output is sorted by merchant key.
func Summarize(transactions []dedup.Transaction) []MerchantSummary {
	groups := make(map[string][]dedup.Transaction)
	for _, txn := range transactions {
		key := groupKey(txn.Merchant)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], txn)
	}

	summaries := make([]MerchantSummary, 0, len(groups))
	for key, group := range groups {
		if summary, ok := buildSummary(key, group); ok {
			summaries = append(summaries, summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].MerchantKey < summaries[j].MerchantKey
	})
	return summaries
}

// groupKey normalizes a merchant name into its grouping key, collapsing
// rent-like names into one shared group.
func groupKey(rawMerchant string) string {
	key := merchant.ExtractCoreName(rawMerchant)
	if isRentLike(key) {
		return rentGroupKey
	}
	return key
}

func isRentLike(key string) bool {
	if !containsAny(key, rentKeywords) {
		return false
	}
	return !containsAny(key, rentExclusions)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func buildSummary(key string, group []dedup.Transaction) (MerchantSummary, bool) {
	if len(group) < minTransactions {
		return MerchantSummary{}, false
	}

	months := make(map[string]bool)
	for _, txn := range group {
		months[txn.Date.UTC().Format("2006-01")] = true
	}
	if len(months) < minUniqueMonths {
		return MerchantSummary{}, false
	}

	sorted := make([]dedup.Transaction, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	intervals := intervalDays(sorted)

	return MerchantSummary{
		MerchantKey:        key,
		OriginalName:       sorted[len(sorted)-1].Merchant,
		SampleTransactions: sampleTransactions(sorted),
		Stats: SummaryStats{
			Count:              len(sorted),
			MedianIntervalDays: int(math.Round(median(intervals))),
			IntervalCV:         round2(coefficientOfVariation(intervals)),
			DayConcentration:   dayConcentration(sorted),
			AmountMean:         round2(mean(absAmounts(sorted))),
			AmountRSTD:         round2(coefficientOfVariation(absAmounts(sorted))),
			Flags:              detectFlags(sorted),
		},
		FirstDate:    sorted[0].Date,
		LastDate:     sorted[len(sorted)-1].Date,
		UniqueMonths: len(months),
	}, true
}

// intervalDays returns the gaps in whole days between consecutive
// transactions of a date-sorted group.
func intervalDays(sorted []dedup.Transaction) []float64 {
	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Date.UTC().Sub(sorted[i-1].Date.UTC()).Hours() / 24
		intervals = append(intervals, math.Round(gap))
	}
	return intervals
}

func dayConcentration(sorted []dedup.Transaction) DayConcentration {
	days := make([]float64, len(sorted))
	for i, txn := range sorted {
		days[i] = float64(txn.Date.UTC().Day())
	}

	avgDay := int(math.Round(mean(days)))
	within := 0
	for _, day := range days {
		if math.Abs(day-float64(avgDay)) <= dayWindow {
			within++
		}
	}

	return DayConcentration{Within: within, Total: len(days), AvgDay: avgDay}
}

func detectFlags(group []dedup.Transaction) []string {
	var text strings.Builder
	for _, txn := range group {
		text.WriteString(strings.ToLower(txn.Merchant))
		text.WriteString(" ")
		text.WriteString(strings.ToLower(txn.Description))
		text.WriteString(" ")
	}
	haystack := text.String()

	flags := make([]string, 0, len(flagDetectors))
	for _, detector := range flagDetectors {
		if containsAny(haystack, detector.terms) {
			flags = append(flags, detector.flag)
		}
	}
	return flags
}

// sampleTransactions picks a bounded representative subset: everything for
// small groups, otherwise first, middle, and last by date order.
func sampleTransactions(sorted []dedup.Transaction) []dedup.Transaction {
	if len(sorted) <= 3 {
		return append([]dedup.Transaction(nil), sorted...)
	}
	return []dedup.Transaction{
		sorted[0],
		sorted[len(sorted)/2],
		sorted[len(sorted)-1],
	}
}

func absAmounts(group []dedup.Transaction) []float64 {
	amounts := make([]float64, len(group))
	for i, txn := range group {
		amounts[i] = math.Abs(txn.Amount)
	}
	return amounts
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - m) * (v - m)
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// coefficientOfVariation returns stddev/mean: 0 with fewer than two values,
// and 1 (maximal instability) when the mean is zero.
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	if m == 0 {
		return 1
	}
	return stddev(values) / m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
