// Package ollama implements a provider.Provider backed by a local Ollama
// daemon. It drives the /api/generate endpoint with a flattened prompt
// instead of a structured message list, which is what that endpoint expects.
package ollama

import (
	"fmt"
	"net"
	"net/http"
	"net/url"

	"gopkg.in/yaml.v3"

	"github.com/fbianco/proghelper/internal/core"
	"github.com/fbianco/proghelper/internal/provider"
)

// Interface guards.
var (
	_ provider.Provider = (*Ollama)(nil)
	_ core.Configurable = (*Ollama)(nil)
	_ core.Provisioner  = (*Ollama)(nil)
	_ core.Validator    = (*Ollama)(nil)
)

func init() {
	core.RegisterModule(&Ollama{})
}

// Ollama is a provider.Provider that talks to a local Ollama daemon.
type Ollama struct {
	config Config
	client *http.Client
}

// ModuleInfo returns the module metadata for registration.
func (o *Ollama) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.ollama",
		New: func() core.Module { return &Ollama{} },
	}
}

// Configure decodes the YAML configuration and applies defaults.
func (o *Ollama) Configure(node *yaml.Node) error {
	if err := node.Decode(&o.config); err != nil {
		return fmt.Errorf("ollama: decoding config: %w", err)
	}
	o.config.defaults()
	return nil
}

// Provision parses the timeout, creates the HTTP client, and registers
// this provider as a service.
func (o *Ollama) Provision(ctx *core.AppContext) error {
	timeout, err := o.config.parsedTimeout()
	if err != nil {
		return fmt.Errorf("ollama: invalid timeout %q: %w", o.config.Timeout, err)
	}

	o.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout: timeout,
		},
	}

	ctx.RegisterService("provider.ollama", o)
	return nil
}

// Validate checks that the base URL is a usable HTTP endpoint.
func (o *Ollama) Validate() error {
	u, err := url.Parse(o.config.BaseURL)
	if err != nil {
		return fmt.Errorf("ollama: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ollama: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("ollama: base_url must include a host")
	}
	return nil
}

// Name returns the routing name.
func (o *Ollama) Name() string { return "ollama" }

// ResolveModel maps a size tier to a local model tag. Unknown tiers
// resolve to the 14b model.
func (o *Ollama) ResolveModel(size provider.Size) string {
	switch size {
	case provider.SizeSmall:
		return o.config.ModelSmall
	case provider.SizeMedium:
		return o.config.ModelMedium
	case provider.SizeLarge, provider.SizeReasoning:
		return o.config.ModelLarge
	default:
		return o.config.ModelLarge
	}
}
