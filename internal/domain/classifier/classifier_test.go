package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens-backend/internal/domain/recurring"
)

func TestBuildPrompt(t *testing.T) {
	summary := recurring.MerchantSummary{
		MerchantKey:  "geico insurance",
		OriginalName: "Geico Insurance",
		UniqueMonths: 6,
		Stats: recurring.SummaryStats{
			Count:              6,
			MedianIntervalDays: 30,
			Flags:              []string{recurring.FlagInsurance},
		},
	}

	prompt := BuildPrompt(summary)

	assert.Contains(t, prompt, "Geico Insurance")
	assert.Contains(t, prompt, `"label"`)
	assert.Contains(t, prompt, "fixed")
}

func TestParseResponse(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		resp, err := ParseResponse(`{"label": "fixed", "confidence": 0.9, "reasoning": "monthly insurance premium"}`)
		require.NoError(t, err)
		assert.Equal(t, LabelFixed, resp.Label)
		assert.Equal(t, 0.9, resp.Confidence)
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		resp, err := ParseResponse("```json\n{\"label\": \"not_fixed\", \"confidence\": 0.8}\n```")
		require.NoError(t, err)
		assert.Equal(t, LabelNotFixed, resp.Label)
	})

	t.Run("unknown label", func(t *testing.T) {
		_, err := ParseResponse(`{"label": "probably", "confidence": 0.5}`)
		assert.Error(t, err)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		_, err := ParseResponse(`{"label": "maybe", "confidence": 1.5}`)
		assert.Error(t, err)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := ParseResponse("I think this is fixed")
		assert.Error(t, err)
	})
}
