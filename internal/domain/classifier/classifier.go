// Package classifier defines the contract for escalating ambiguous
// merchants to an external LLM classifier. The engine never calls the
// classifier itself; it only produces prompts and interprets responses.
// Transport lives in internal/adapters/openai.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spendlens/spendlens-backend/internal/domain/recurring"
)

// Label is the classifier's verdict on a merchant.
type Label string

const (
	LabelFixed    Label = "fixed"
	LabelNotFixed Label = "not_fixed"
	LabelMaybe    Label = "maybe"
)

// Response is a parsed classifier verdict.
type Response struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Client is implemented by transports that can answer a merchant
// classification prompt.
type Client interface {
	ClassifyMerchant(ctx context.Context, prompt string) (*Response, error)
}

// SystemPrompt instructs the model on the task and the response shape.
const SystemPrompt = "You are a personal-finance assistant that decides whether a recurring " +
	"merchant is a fixed (must-pay) expense such as rent, a loan, a utility, insurance, " +
	"or a committed subscription, as opposed to discretionary recurring spending. " +
	"Always respond with valid JSON."

// BuildPrompt renders the user prompt for one merchant fingerprint.
func BuildPrompt(summary recurring.MerchantSummary) string {
	return fmt.Sprintf(`Decide whether the following merchant is a fixed (must-pay) expense.

%s
Rule-based scoring was inconclusive for this merchant, so judge from the
statistical fingerprint and the merchant name.

Return a JSON object with this structure:
{
  "label": "fixed" | "not_fixed" | "maybe",
  "confidence": 0.95,
  "reasoning": "one short sentence"
}`, recurring.FormatSummary(summary))
}

// ParseResponse parses the model's JSON content into a Response. Markdown
// code fences around the JSON are tolerated. Unknown labels are rejected.
func ParseResponse(content string) (*Response, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var resp Response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	switch resp.Label {
	case LabelFixed, LabelNotFixed, LabelMaybe:
	default:
		return nil, fmt.Errorf("unknown classifier label %q", resp.Label)
	}

	if resp.Confidence < 0 || resp.Confidence > 1 {
		return nil, fmt.Errorf("classifier confidence %v out of range", resp.Confidence)
	}

	return &resp, nil
}
