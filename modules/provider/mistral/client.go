package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fbianco/proghelper/internal/provider"
)

// apiRequest is the chat-completions request body.
type apiRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Stream      bool               `json:"stream"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
}

// apiResponse is the non-streaming chat-completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is the error envelope Mistral returns on failures.
type apiError struct {
	Message string `json:"message"`
}

// Invoke sends a chat-completions request and returns the reply text.
func (m *Mistral) Invoke(ctx context.Context, req provider.Request) (string, error) {
	key := m.apiKey()
	if key == "" {
		return "", fmt.Errorf("mistral: %s not set: %w", apiKeyEnv, provider.ErrNotConfigured)
	}

	body, err := json.Marshal(apiRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Stream:      false,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("mistral: marshaling request: %w", err)
	}

	url := m.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("mistral: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("mistral: sending request: %v: %w", err, provider.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp.StatusCode, resp.Body)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("mistral: decoding response: %v: %w", err, provider.ErrUnavailable)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("mistral: empty choices: %w", provider.ErrUnavailable)
	}

	return apiResp.Choices[0].Message.Content, nil
}

// mapHTTPError converts a non-200 status into a provider error.
func mapHTTPError(statusCode int, body io.Reader) error {
	var ae apiError

	data, readErr := io.ReadAll(io.LimitReader(body, 4096))
	if readErr == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &ae)
	}

	msg := ae.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Errorf("mistral: %s: %w", msg, provider.ErrUnavailable)
}
