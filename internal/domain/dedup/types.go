// Package dedup decides whether incoming transactions are duplicates of
// already-stored ones, and resolves pending-vs-posted lifecycle transitions.
//
// Both entry points are pure functions over in-memory slices: they return
// decisions and intentions (ids to delete, transactions to insert) and never
// touch storage themselves.
package dedup

import "time"

// Transaction is an incoming bank transaction, as parsed from a statement
// upload. Only the date (calendar-day granularity), merchant, and amount
// participate in matching; category and description ride along.
type Transaction struct {
	Date        time.Time `json:"date"`
	Merchant    string    `json:"merchant"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	IsPending   bool      `json:"is_pending,omitempty"`
}

// ExistingTransaction is a stored transaction. The id is owned by the
// persistence layer; the engine only reads it.
type ExistingTransaction struct {
	Transaction
	ID string `json:"id"`
}

// Config holds matching tolerances shared by the deduplicator and the
// reconciler.
type Config struct {
	// AmountTolerance is the strict upper bound on amount difference.
	// Two amounts exactly one cent apart are not considered equal.
	AmountTolerance float64

	// DateWindowDays is the inclusive window for pending/posted matching.
	DateWindowDays int
}

// DefaultConfig returns the calibrated production tolerances.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: 0.01,
		DateWindowDays:  5,
	}
}

// amountEpsilon absorbs float64 representation error so that a true
// difference of exactly one cent (which the subtraction may render as
// 0.009999...) stays outside the strict tolerance.
const amountEpsilon = 1e-9

// amountsWithinTolerance reports |a-b| < tolerance, float-safe at the
// one-cent boundary.
func amountsWithinTolerance(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance-amountEpsilon
}

// sameCalendarDay reports whether two dates fall on the same UTC calendar
// day, ignoring any time-of-day component.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// datesWithinWindow reports whether two dates are at most window whole days
// apart, after normalizing both to UTC midnight.
func datesWithinWindow(a, b time.Time, window int) bool {
	diff := toUTCMidnight(a).Sub(toUTCMidnight(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) <= window
}

func toUTCMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
