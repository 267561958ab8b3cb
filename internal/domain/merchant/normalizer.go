// Package merchant provides merchant-name normalization and matching for
// transaction deduplication.
//
// Bank billing descriptors are noisy: the same payee shows up as
// "UBER PENDING", "UBER *TRIP NYC", or "STARBUCKS #1234 SEATTLE WA"
// depending on the card network and the pending/posted lifecycle stage.
// This package reduces a raw descriptor to a comparable "core name" and
// decides whether two descriptors denote the same payee.
package merchant

import (
	"regexp"
	"strings"
)

var (
	// Lifecycle markers banks prepend or append to descriptors.
	statusTokenRe = regexp.MustCompile(`\b(pending|posted|processing|hold|authorization|auth)\b`)

	// "#1234" style store numbers.
	storeNumberRe = regexp.MustCompile(`#\d+`)

	// "store 1234" spelled out.
	storeWordRe = regexp.MustCompile(`\bstore\s+\d+\b`)

	// "*K29XJ" style billing references (Square, Stripe, etc.).
	billingRefRe = regexp.MustCompile(`\*[a-z0-9]+`)

	// Trailing 2-3 letter token, usually a state or city abbreviation.
	// Requires preceding whitespace so a short merchant name ("kfc")
	// is never stripped to nothing.
	trailingCodeRe = regexp.MustCompile(`\s[a-z]{2,3}$`)

	separatorReplacer = strings.NewReplacer("*", " ", "-", " ", "_", " ")

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// ExtractCoreName canonicalizes a raw merchant descriptor into a core name
// suitable for equality and similarity comparisons. The pipeline lowercases,
// strips lifecycle markers, store numbers, billing references, and trailing
// location codes, and collapses separators and whitespace.
//
// The strip rules are re-applied until the name stops changing, so the
// result is a fixpoint: feeding a core name back in returns it unchanged.
// The function is deterministic and never fails; garbage input yields an
// empty string.
func ExtractCoreName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	for name != "" {
		next := stripOnce(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

// stripOnce applies one round of strip rules. Every rule only removes
// characters or turns a separator into a space, so repeated rounds
// terminate. Separator and whitespace collapse run before the trailing-code
// strip so a separator cannot hide a trailing short token from the round.
func stripOnce(name string) string {
	name = statusTokenRe.ReplaceAllString(name, " ")
	name = storeNumberRe.ReplaceAllString(name, " ")
	name = storeWordRe.ReplaceAllString(name, " ")
	name = billingRefRe.ReplaceAllString(name, " ")
	name = separatorReplacer.Replace(name)
	name = multiSpaceRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingCodeRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}
