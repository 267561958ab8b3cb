package recurring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens-backend/internal/domain/dedup"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(merchant string, amount float64, day time.Time) dedup.Transaction {
	return dedup.Transaction{Date: day, Merchant: merchant, Amount: amount}
}

func TestSummarize_MonthlyMerchant(t *testing.T) {
	// Arrange: six first-of-month payments, stable amount.
	var history []dedup.Transaction
	for m := time.January; m <= time.June; m++ {
		history = append(history, txn("Acme Mortgage Servicing", -1500.00, date(2025, m, 1)))
	}

	// Act
	summaries := Summarize(history)

	// Assert
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, "acme mortgage servicing", s.MerchantKey)
	assert.Equal(t, "Acme Mortgage Servicing", s.OriginalName)
	assert.Equal(t, 6, s.Stats.Count)
	assert.Equal(t, 6, s.UniqueMonths)
	assert.Equal(t, date(2025, 1, 1), s.FirstDate)
	assert.Equal(t, date(2025, 6, 1), s.LastDate)
	assert.Equal(t, 31, s.Stats.MedianIntervalDays)
	assert.InDelta(t, 0.04, s.Stats.IntervalCV, 0.001)
	assert.Equal(t, DayConcentration{Within: 6, Total: 6, AvgDay: 1}, s.Stats.DayConcentration)
	assert.InDelta(t, 1500.00, s.Stats.AmountMean, 0.001)
	assert.InDelta(t, 0.0, s.Stats.AmountRSTD, 0.001)
	assert.Contains(t, s.Stats.Flags, FlagLoanMortgage)
}

func TestSummarize_EligibilityThresholds(t *testing.T) {
	t.Run("two distinct months is not enough", func(t *testing.T) {
		history := []dedup.Transaction{
			txn("Gym", -30, date(2025, 1, 1)),
			txn("Gym", -30, date(2025, 1, 8)),
			txn("Gym", -30, date(2025, 1, 15)),
			txn("Gym", -30, date(2025, 2, 1)),
			txn("Gym", -30, date(2025, 2, 8)),
		}
		assert.Empty(t, Summarize(history))
	})

	t.Run("a third distinct month makes it eligible", func(t *testing.T) {
		history := []dedup.Transaction{
			txn("Gym", -30, date(2025, 1, 1)),
			txn("Gym", -30, date(2025, 1, 8)),
			txn("Gym", -30, date(2025, 1, 15)),
			txn("Gym", -30, date(2025, 2, 1)),
			txn("Gym", -30, date(2025, 2, 8)),
			txn("Gym", -30, date(2025, 3, 1)),
		}
		assert.Len(t, Summarize(history), 1)
	})

	t.Run("two transactions never qualify", func(t *testing.T) {
		history := []dedup.Transaction{
			txn("Gym", -30, date(2025, 1, 1)),
			txn("Gym", -30, date(2025, 3, 1)),
		}
		assert.Empty(t, Summarize(history))
	})
}

func TestSummarize_RentCollapse(t *testing.T) {
	history := []dedup.Transaction{
		txn("April Rent", -2000, date(2025, 4, 1)),
		txn("Oakwood Property Management", -2000, date(2025, 5, 1)),
		txn("June Rent", -2000, date(2025, 6, 1)),
	}

	summaries := Summarize(history)

	require.Len(t, summaries, 1)
	assert.Equal(t, "rent payment", summaries[0].MerchantKey)
	assert.Equal(t, 3, summaries[0].Stats.Count)
}

func TestSummarize_RentExclusions(t *testing.T) {
	// "Renters Insurance" contains a rent keyword but is an insurance
	// product, not rent; it must keep its own group key.
	history := []dedup.Transaction{
		txn("Renters Insurance Co", -20, date(2025, 1, 5)),
		txn("Renters Insurance Co", -20, date(2025, 2, 5)),
		txn("Renters Insurance Co", -20, date(2025, 3, 5)),
	}

	summaries := Summarize(history)

	require.Len(t, summaries, 1)
	assert.NotEqual(t, "rent payment", summaries[0].MerchantKey)
	assert.Contains(t, summaries[0].Stats.Flags, FlagInsurance)
}

func TestSummarize_SampleTransactions(t *testing.T) {
	t.Run("small group keeps every transaction", func(t *testing.T) {
		history := []dedup.Transaction{
			txn("Gym", -30, date(2025, 1, 1)),
			txn("Gym", -30, date(2025, 2, 1)),
			txn("Gym", -30, date(2025, 3, 1)),
		}
		summaries := Summarize(history)
		require.Len(t, summaries, 1)
		assert.Len(t, summaries[0].SampleTransactions, 3)
	})

	t.Run("large group samples first middle last", func(t *testing.T) {
		var history []dedup.Transaction
		for m := time.January; m <= time.July; m++ {
			history = append(history, txn("Gym", -30, date(2025, m, 1)))
		}
		summaries := Summarize(history)
		require.Len(t, summaries, 1)

		samples := summaries[0].SampleTransactions
		require.Len(t, samples, 3)
		assert.Equal(t, date(2025, 1, 1), samples[0].Date)
		assert.Equal(t, date(2025, 4, 1), samples[1].Date)
		assert.Equal(t, date(2025, 7, 1), samples[2].Date)
	})
}

func TestSummarize_FlagsFromDescriptions(t *testing.T) {
	history := []dedup.Transaction{
		{Date: date(2025, 1, 10), Merchant: "City Power & Light", Amount: -80, Description: "autopay acct 4421"},
		{Date: date(2025, 2, 10), Merchant: "City Power & Light", Amount: -82, Description: "autopay acct 4421"},
		{Date: date(2025, 3, 10), Merchant: "City Power & Light", Amount: -79, Description: "autopay acct 4421"},
	}

	summaries := Summarize(history)

	require.Len(t, summaries, 1)
	flags := summaries[0].Stats
	assert.True(t, flags.HasFlag(FlagUtility))
	assert.True(t, flags.HasFlag(FlagBillKeyword))
	assert.True(t, flags.HasFlag(FlagAccountNumber))
	assert.False(t, flags.HasFlag(FlagLoanMortgage))
}

func TestSummarize_OriginalNameIsMostRecent(t *testing.T) {
	history := []dedup.Transaction{
		txn("NETFLIX.COM #001", -15.99, date(2025, 1, 5)),
		txn("NETFLIX.COM #002", -15.99, date(2025, 2, 5)),
		txn("NETFLIX.COM #003", -15.99, date(2025, 3, 5)),
	}

	summaries := Summarize(history)

	require.Len(t, summaries, 1)
	assert.Equal(t, "NETFLIX.COM #003", summaries[0].OriginalName)
}

func TestDayConcentration_StringRoundTrip(t *testing.T) {
	dc := DayConcentration{Within: 24, Total: 24, AvgDay: 1}
	assert.Equal(t, "24/24 within ±3 days of day 1", dc.String())

	parsed, ok := ParseDayConcentration(dc.String())
	require.True(t, ok)
	assert.Equal(t, dc, parsed)

	_, ok = ParseDayConcentration("not a concentration")
	assert.False(t, ok)
}

func TestFormatSummary(t *testing.T) {
	var history []dedup.Transaction
	for m := time.January; m <= time.April; m++ {
		history = append(history, txn("Geico Insurance", -120.00, date(2025, m, 15)))
	}

	summaries := Summarize(history)
	require.Len(t, summaries, 1)

	text := FormatSummary(summaries[0])
	assert.Contains(t, text, "Geico Insurance")
	assert.Contains(t, text, "4 across 4 distinct months")
	assert.Contains(t, text, fmt.Sprintf("Day concentration: %s", summaries[0].Stats.DayConcentration))
	assert.Contains(t, text, "insurance")
}
