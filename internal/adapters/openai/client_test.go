package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens-backend/internal/domain/classifier"
)

func newTestServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestClassifyMerchant(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"label": "fixed", "confidence": 0.92, "reasoning": "monthly loan payment"}`)
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	resp, err := client.ClassifyMerchant(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, classifier.LabelFixed, resp.Label)
	assert.Equal(t, 0.92, resp.Confidence)
}

func TestClassifyMerchant_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.ClassifyMerchant(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestClassifyMerchant_MalformedVerdict(t *testing.T) {
	server := newTestServer(t, http.StatusOK, "not json at all")
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.ClassifyMerchant(context.Background(), "prompt")
	assert.Error(t, err)
}
