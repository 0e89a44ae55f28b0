package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fbianco/proghelper/internal/provider"
)

// apiRequest is the /api/generate request body. The prompt is the
// flattened conversation; the system text rides in its own field.
// Thinking output is suppressed so only the final answer comes back.
type apiRequest struct {
	Model        string `json:"model"`
	Prompt       string `json:"prompt"`
	System       string `json:"system"`
	Stream       bool   `json:"stream"`
	Think        bool   `json:"think"`
	HideThinking bool   `json:"hidethinking"`
}

// apiResponse is the non-streaming /api/generate response.
type apiResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Invoke sends a generate request to the daemon and returns the reply.
func (o *Ollama) Invoke(ctx context.Context, req provider.Request) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:        req.Model,
		Prompt:       req.FlatPrompt,
		System:       req.System,
		Stream:       false,
		Think:        false,
		HideThinking: true,
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshaling request: %w", err)
	}

	url := o.config.BaseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama: sending request: %v: %w", err, provider.ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", mapHTTPError(resp.StatusCode, resp.Body)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("ollama: decoding response: %v: %w", err, provider.ErrUnavailable)
	}
	if apiResp.Error != "" {
		return "", fmt.Errorf("ollama: %s: %w", apiResp.Error, provider.ErrUnavailable)
	}

	return apiResp.Response, nil
}

// mapHTTPError converts a non-200 status into a provider error, keeping
// the daemon's message when it sent one.
func mapHTTPError(statusCode int, body io.Reader) error {
	var apiResp apiResponse

	data, readErr := io.ReadAll(io.LimitReader(body, 4096))
	if readErr == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &apiResp)
	}

	msg := apiResp.Error
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", statusCode)
	}
	return fmt.Errorf("ollama: %s: %w", msg, provider.ErrUnavailable)
}
