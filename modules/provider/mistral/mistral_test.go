package mistral

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fbianco/proghelper/internal/provider"
)

func newTestProvider(t *testing.T, srv *httptest.Server) *Mistral {
	t.Helper()
	m := &Mistral{
		config: Config{APIKey: "test-key", BaseURL: srv.URL},
		client: srv.Client(),
	}
	m.config.defaults()
	return m
}

func TestResolveModel(t *testing.T) {
	t.Parallel()

	m := &Mistral{}
	tests := []struct {
		size provider.Size
		want string
	}{
		{provider.SizeSmall, "mistral-small-latest"},
		{provider.SizeMedium, "mistral-medium-latest"},
		{provider.SizeLarge, "mistral-large-latest"},
		{provider.SizeReasoning, "magistral-medium-latest"},
		{provider.Size(""), "mistral-medium-latest"},
	}
	for _, tt := range tests {
		if got := m.ResolveModel(tt.size); got != tt.want {
			t.Errorf("ResolveModel(%q) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	var seen apiRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ciao"}}]}`))
	}))
	t.Cleanup(srv.Close)

	m := newTestProvider(t, srv)
	got, err := m.Invoke(context.Background(), provider.Request{
		Model: "mistral-medium-latest",
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: "be terse"},
			{Role: provider.RoleUser, Content: "hello"},
		},
		MaxTokens: provider.MaxReplyTokens,
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != "ciao" {
		t.Errorf("reply = %q, want %q", got, "ciao")
	}
	if auth != "Bearer test-key" {
		t.Errorf("Authorization = %q", auth)
	}
	if seen.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", seen.Temperature)
	}
	if seen.MaxTokens != provider.MaxReplyTokens {
		t.Errorf("MaxTokens = %d, want %d", seen.MaxTokens, provider.MaxReplyTokens)
	}
	if seen.Stream {
		t.Error("Stream should be false")
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != provider.RoleSystem {
		t.Errorf("Messages = %+v", seen.Messages)
	}
}

func TestInvokeMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request may be sent without a key")
	}))
	t.Cleanup(srv.Close)

	t.Setenv(apiKeyEnv, "")
	m := &Mistral{config: Config{BaseURL: srv.URL}, client: srv.Client()}
	m.config.defaults()

	_, err := m.Invoke(context.Background(), provider.Request{Model: "mistral-small-latest"})
	if !errors.Is(err, provider.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestInvokeUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	t.Cleanup(srv.Close)

	m := newTestProvider(t, srv)
	_, err := m.Invoke(context.Background(), provider.Request{Model: "mistral-small-latest"})
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}
