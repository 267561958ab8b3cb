package merchant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCoreName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "lowercases and trims",
			raw:      "  STARBUCKS  ",
			expected: "starbucks",
		},
		{
			name:     "strips pending marker",
			raw:      "UBER PENDING",
			expected: "uber",
		},
		{
			name:     "strips leading status token",
			raw:      "PENDING AMAZON.COM",
			expected: "amazon.com",
		},
		{
			name:     "strips interior status token",
			raw:      "CHASE AUTH PAYMENT",
			expected: "chase payment",
		},
		{
			name:     "strips store number suffix",
			raw:      "STARBUCKS #1234",
			expected: "starbucks",
		},
		{
			name:     "strips spelled out store number",
			raw:      "TARGET STORE 0042",
			expected: "target",
		},
		{
			name:     "strips billing reference",
			raw:      "NETFLIX.COM *X8823",
			expected: "netflix.com",
		},
		{
			name:     "strips billing reference and location",
			raw:      "UBER *TRIP NYC",
			expected: "uber",
		},
		{
			name:     "strips trailing state code",
			raw:      "WHOLE FOODS MARKET WA",
			expected: "whole foods market",
		},
		{
			name:     "keeps short single-token names",
			raw:      "KFC",
			expected: "kfc",
		},
		{
			name:     "collapses separators",
			raw:      "NETFLIX-COM_BILL",
			expected: "netflix com bill",
		},
		{
			name:     "separator exposes trailing code",
			raw:      "NETFLIX-COM",
			expected: "netflix",
		},
		{
			name:     "separator exposes trailing location",
			raw:      "UBER-NYC",
			expected: "uber",
		},
		{
			name:     "stacked trailing codes",
			raw:      "WAL-MART USA CA",
			expected: "wal mart",
		},
		{
			name:     "collapses repeated whitespace",
			raw:      "TRADER   JOES",
			expected: "trader joes",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
		{
			name:     "whitespace only",
			raw:      "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCoreName(tt.raw))
		})
	}
}

func TestExtractCoreName_Idempotent(t *testing.T) {
	samples := []string{
		"UBER PENDING",
		"UBER *TRIP NYC",
		"STARBUCKS #1234 SEATTLE WA",
		"NETFLIX-COM",
		"UBER-NYC",
		"WAL-MART USA CA",
		"Geico Insurance AUTOPAY",
		"KFC",
		"",
		"!!@@##",
	}

	for _, raw := range samples {
		once := ExtractCoreName(raw)
		twice := ExtractCoreName(once)
		assert.Equal(t, once, twice, "not idempotent for %q", raw)
	}
}
