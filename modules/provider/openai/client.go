package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fbianco/proghelper/internal/provider"
)

// apiRequest is the Responses API request body.
type apiRequest struct {
	Model           string             `json:"model"`
	Input           []provider.Message `json:"input"`
	Text            apiText            `json:"text"`
	MaxOutputTokens int                `json:"max_output_tokens"`
	Reasoning       *apiReasoning      `json:"reasoning,omitempty"`
}

// apiText carries the verbosity hint.
type apiText struct {
	Verbosity provider.Verbosity `json:"verbosity"`
}

// apiReasoning carries the reasoning effort for models that accept it.
type apiReasoning struct {
	Effort string `json:"effort"`
}

// apiResponse is the non-streaming Responses API response. The reply is
// the concatenation of output_text parts across message items.
type apiResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// apiError is the error envelope for non-200 responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// reasoningEffort selects the effort for the resolved model. The chat
// model takes no reasoning block at all.
func reasoningEffort(model string) *apiReasoning {
	switch model {
	case modelReasoning:
		return &apiReasoning{Effort: "high"}
	case modelSmall:
		return &apiReasoning{Effort: "minimal"}
	default:
		return nil
	}
}

// Invoke sends a Responses API request and returns the reply text.
func (o *OpenAI) Invoke(ctx context.Context, req provider.Request) (string, error) {
	key := o.apiKey()
	if key == "" {
		return "", fmt.Errorf("openai: %s not set: %w", apiKeyEnv, provider.ErrNotConfigured)
	}

	body, err := json.Marshal(apiRequest{
		Model:           req.Model,
		Input:           req.Messages,
		Text:            apiText{Verbosity: req.Verbosity},
		MaxOutputTokens: req.MaxTokens,
		Reasoning:       reasoningEffort(req.Model),
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshaling request: %w", err)
	}

	url := o.config.BaseURL + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: sending request: %v: %w", err, provider.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp.StatusCode, resp.Body)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("openai: decoding response: %v: %w", err, provider.ErrUnavailable)
	}
	if apiResp.Error != nil && apiResp.Error.Message != "" {
		return "", fmt.Errorf("openai: %s: %w", apiResp.Error.Message, provider.ErrUnavailable)
	}

	return outputText(apiResp), nil
}

// outputText joins the output_text parts of all message items.
func outputText(resp apiResponse) string {
	var sb strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// mapHTTPError converts a non-200 status into a provider error.
func mapHTTPError(statusCode int, body io.Reader) error {
	var ae apiError

	data, readErr := io.ReadAll(io.LimitReader(body, 4096))
	if readErr == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &ae)
	}

	msg := ae.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Errorf("openai: %s: %w", msg, provider.ErrUnavailable)
}
