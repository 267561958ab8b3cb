package recurring

import (
	"fmt"
	"strings"
)

// FormatSummary renders a merchant fingerprint as compact text for an
// external classifier prompt. Presentation only; every value is available
// structured on the summary itself.
func FormatSummary(s MerchantSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Merchant: %s (grouped as %q)\n", s.OriginalName, s.MerchantKey)
	fmt.Fprintf(&b, "Transactions: %d across %d distinct months (%s to %s)\n",
		s.Stats.Count, s.UniqueMonths,
		s.FirstDate.Format("2006-01-02"), s.LastDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Median interval: %d days (CV %.2f)\n", s.Stats.MedianIntervalDays, s.Stats.IntervalCV)
	fmt.Fprintf(&b, "Day concentration: %s\n", s.Stats.DayConcentration)
	fmt.Fprintf(&b, "Amount: mean $%.2f, relative stddev %.2f\n", s.Stats.AmountMean, s.Stats.AmountRSTD)

	if len(s.Stats.Flags) > 0 {
		fmt.Fprintf(&b, "Keyword flags: %s\n", strings.Join(s.Stats.Flags, ", "))
	}

	if len(s.SampleTransactions) > 0 {
		b.WriteString("Sample transactions:\n")
		for _, txn := range s.SampleTransactions {
			fmt.Fprintf(&b, "  %s %q $%.2f\n", txn.Date.Format("2006-01-02"), txn.Merchant, txn.Amount)
		}
	}

	return b.String()
}
