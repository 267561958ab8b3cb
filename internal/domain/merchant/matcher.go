package merchant

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchType describes which rule decided a match.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

// Minimum core-name lengths for each fuzzy rule. Short cores carry too
// little signal to compare safely.
const (
	minCoreEqualityLen  = 3
	minContainmentLen   = 4
	minPrefixLen        = 5
	prefixOverlapFactor = 0.7
)

// MatchResult is the outcome of comparing two raw merchant strings.
type MatchResult struct {
	IsMatch bool
	Type    MatchType

	// Similarity is a normalized Levenshtein similarity between the two
	// core names, reported for diagnostics only. It never influences the
	// match decision.
	Similarity float64
}

// Match decides whether two raw merchant strings denote the same payee.
//
// Rules are tried in order, first hit wins:
//  1. exact: case-insensitive, whitespace-collapsed equality
//  2. fuzzy: equal core names (>= 3 chars)
//  3. fuzzy: one core name contains the other (both >= 4 chars)
//  4. fuzzy: shared leading run >= 5 chars and >= 70% of the shorter core
//
// The cascade deliberately favors false positives over false negatives:
// billing descriptors for one payee vary unpredictably, so "UBER PENDING"
// must match "UBER *TRIP NYC". The cost is that distinct merchants sharing
// a long prefix ("UBER" vs "UBER EATS") may also match.
func Match(a, b string) MatchResult {
	if collapseWhitespace(strings.ToLower(a)) == collapseWhitespace(strings.ToLower(b)) {
		return MatchResult{IsMatch: true, Type: MatchExact, Similarity: 1}
	}

	coreA := ExtractCoreName(a)
	coreB := ExtractCoreName(b)
	sim := coreSimilarity(coreA, coreB)

	if len(coreA) >= minCoreEqualityLen && coreA == coreB {
		return MatchResult{IsMatch: true, Type: MatchFuzzy, Similarity: sim}
	}

	if len(coreA) >= minContainmentLen && len(coreB) >= minContainmentLen {
		if strings.Contains(coreA, coreB) || strings.Contains(coreB, coreA) {
			return MatchResult{IsMatch: true, Type: MatchFuzzy, Similarity: sim}
		}
	}

	if len(coreA) >= minPrefixLen && len(coreB) >= minPrefixLen {
		run := commonPrefixLen(coreA, coreB)
		shorter := len(coreA)
		if len(coreB) < shorter {
			shorter = len(coreB)
		}
		if run >= minPrefixLen && run >= int(prefixOverlapFactor*float64(shorter)) {
			return MatchResult{IsMatch: true, Type: MatchFuzzy, Similarity: sim}
		}
	}

	return MatchResult{IsMatch: false, Type: MatchNone, Similarity: sim}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// coreSimilarity returns 1 - normalized edit distance between two core
// names, in [0,1]. Both empty counts as fully similar.
func coreSimilarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
