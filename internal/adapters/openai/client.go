// Package openai implements the classifier.Client contract over the OpenAI
// chat-completions HTTP API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spendlens/spendlens-backend/internal/domain/classifier"
)

// Config holds client settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
}

// DefaultConfig returns the production model settings. Low temperature keeps
// classifications consistent across runs.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o",
		Temperature: 0.1,
		BaseURL:     "https://api.openai.com/v1",
	}
}

// Client calls the OpenAI chat-completions endpoint.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a client with the given config. Missing optional fields
// fall back to defaults.
func NewClient(config Config) *Client {
	defaults := DefaultConfig()
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// ClassifyMerchant sends the prompt and parses the model's JSON verdict.
func (c *Client) ClassifyMerchant(ctx context.Context, prompt string) (*classifier.Response, error) {
	request := chatCompletionRequest{
		Model:          c.config.Model,
		Temperature:    c.config.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []message{
			{Role: "system", Content: classifier.SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	response, err := c.createChatCompletion(ctx, request)
	if err != nil {
		return nil, err
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return classifier.ParseResponse(response.Choices[0].Message.Content)
}

func (c *Client) createChatCompletion(ctx context.Context, request chatCompletionRequest) (*chatCompletionResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("OpenAI API error: %s (type: %s)", errorResp.Error.Message, errorResp.Error.Type)
		}
		return nil, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &response, nil
}
