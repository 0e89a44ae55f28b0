package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fbianco/proghelper/internal/provider"
)

// apiRequest is the OpenAI-compatible chat completion request body. The
// provider block pins the request to the named model.
type apiRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
	Provider    apiProviderPrefs   `json:"provider"`
}

// apiProviderPrefs holds OpenRouter routing preferences.
type apiProviderPrefs struct {
	AllowFallbacks bool `json:"allow_fallbacks"`
}

// apiResponse is the non-streaming chat completion response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"` // Can be string or int depending on upstream.
	} `json:"error"`
}

// Invoke sends a chat completion request and returns the reply text.
func (o *OpenRouter) Invoke(ctx context.Context, req provider.Request) (string, error) {
	key := o.apiKey()
	if key == "" {
		return "", fmt.Errorf("openrouter: %s not set: %w", apiKeyEnv, provider.ErrNotConfigured)
	}

	body, err := json.Marshal(apiRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
		Provider:    apiProviderPrefs{AllowFallbacks: false},
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: marshaling request: %w", err)
	}

	url := o.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)
	if o.config.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", o.config.Referer)
	}
	if o.config.Title != "" {
		httpReq.Header.Set("X-Title", o.config.Title)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter: sending request: %v: %w", err, provider.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp.StatusCode, resp.Body)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("openrouter: decoding response: %v: %w", err, provider.ErrUnavailable)
	}
	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("openrouter: %s: %w", apiResp.Error.Message, provider.ErrUnavailable)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: empty choices: %w", provider.ErrUnavailable)
	}

	return apiResp.Choices[0].Message.Content, nil
}

// mapHTTPError converts a non-200 status into a provider error.
func mapHTTPError(statusCode int, body io.Reader) error {
	var apiResp apiResponse

	data, readErr := io.ReadAll(io.LimitReader(body, 4096))
	if readErr == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &apiResp)
	}

	msg := apiResp.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Errorf("openrouter: %s: %w", msg, provider.ErrUnavailable)
}
