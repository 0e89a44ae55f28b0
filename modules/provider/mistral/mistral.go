// Package mistral implements a provider.Provider backed by the Mistral
// chat-completions API.
package mistral

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fbianco/proghelper/internal/core"
	"github.com/fbianco/proghelper/internal/provider"
)

// Interface guards.
var (
	_ provider.Provider = (*Mistral)(nil)
	_ core.Configurable = (*Mistral)(nil)
	_ core.Provisioner  = (*Mistral)(nil)
	_ core.Validator    = (*Mistral)(nil)
)

func init() {
	core.RegisterModule(&Mistral{})
}

// Mistral is a provider.Provider that communicates with the Mistral API.
type Mistral struct {
	config Config
	client *http.Client
}

// ModuleInfo returns the module metadata for registration.
func (m *Mistral) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.mistral",
		New: func() core.Module { return &Mistral{} },
	}
}

// Configure decodes the YAML configuration and applies defaults.
func (m *Mistral) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("mistral: decoding config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision parses the timeout, creates the HTTP client, and registers
// this provider as a service.
func (m *Mistral) Provision(ctx *core.AppContext) error {
	timeout, err := m.config.parsedTimeout()
	if err != nil {
		return fmt.Errorf("mistral: invalid timeout %q: %w", m.config.Timeout, err)
	}

	m.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout: timeout,
		},
	}

	ctx.RegisterService("provider.mistral", m)
	return nil
}

// Validate checks that the base URL is a usable HTTP endpoint. The API
// key is deliberately not validated here: a gateway without the key must
// still start, and the missing credential surfaces when this provider is
// actually selected.
func (m *Mistral) Validate() error {
	u, err := url.Parse(m.config.BaseURL)
	if err != nil {
		return fmt.Errorf("mistral: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("mistral: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("mistral: base_url must include a host")
	}
	return nil
}

// Name returns the routing name.
func (m *Mistral) Name() string { return "mistral" }

// ResolveModel maps a size tier to a Mistral model. Unknown tiers
// resolve to the medium model.
func (m *Mistral) ResolveModel(size provider.Size) string {
	switch size {
	case provider.SizeSmall:
		return modelSmall
	case provider.SizeMedium:
		return modelMedium
	case provider.SizeLarge:
		return modelLarge
	case provider.SizeReasoning:
		return modelReasoning
	default:
		return modelMedium
	}
}

// apiKey returns the configured key, falling back to the environment.
func (m *Mistral) apiKey() string {
	if m.config.APIKey != "" {
		return m.config.APIKey
	}
	return os.Getenv(apiKeyEnv)
}
