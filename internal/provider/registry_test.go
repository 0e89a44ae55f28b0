package provider_test

import (
	"errors"
	"testing"

	"github.com/fbianco/proghelper/internal/provider"
	"github.com/fbianco/proghelper/internal/provider/providertest"
)

// Interface guard.
var _ provider.Provider = (*providertest.MockProvider)(nil)

func TestRegistry_GetRegistered(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistry()
	mock := &providertest.MockProvider{NameValue: "ollama"}
	reg.Register(mock)

	p, err := reg.Get("ollama")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("Name() = %q, want %q", p.Name(), "ollama")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistry()
	_, err := reg.Get("claude")
	if !errors.Is(err, provider.ErrUnknown) {
		t.Errorf("err = %v, want ErrUnknown", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistry()
	for _, name := range []string{"openrouter", "mistral", "ollama", "openai"} {
		reg.Register(&providertest.MockProvider{NameValue: name})
	}

	want := []string{"mistral", "ollama", "openai", "openrouter"}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeVerbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want provider.Verbosity
	}{
		{"low", provider.VerbosityLow},
		{"medium", provider.VerbosityMedium},
		{"high", provider.VerbosityHigh},
		{"", provider.VerbosityMedium},
		{"shouty", provider.VerbosityMedium},
	}
	for _, tt := range tests {
		if got := provider.NormalizeVerbosity(tt.in); got != tt.want {
			t.Errorf("NormalizeVerbosity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
