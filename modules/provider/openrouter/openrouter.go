// Package openrouter implements a provider.Provider backed by the
// OpenRouter API, an OpenAI-compatible aggregation endpoint. Routing
// fallbacks are disabled so the selected model is the one that answers.
package openrouter

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
	_ provider.Provider = (*OpenRouter)(nil)
	_ core.Configurable = (*OpenRouter)(nil)
	_ core.Provisioner  = (*OpenRouter)(nil)
	_ core.Validator    = (*OpenRouter)(nil)
)

func init() {
	core.RegisterModule(&OpenRouter{})
}

// OpenRouter is a provider.Provider that communicates with the OpenRouter API.
type OpenRouter struct {
	config Config
	client *http.Client
}

// ModuleInfo returns the module metadata for registration.
func (o *OpenRouter) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openrouter",
		New: func() core.Module { return &OpenRouter{} },
	}
}

// Configure decodes the YAML configuration and applies defaults.
func (o *OpenRouter) Configure(node *yaml.Node) error {
	if err := node.Decode(&o.config); err != nil {
		return fmt.Errorf("openrouter: decoding config: %w", err)
	}
	o.config.defaults()
	return nil
}

// Provision parses the timeout, creates the HTTP client, and registers
// this provider as a service.
func (o *OpenRouter) Provision(ctx *core.AppContext) error {
	timeout, err := o.config.parsedTimeout()
	if err != nil {
		return fmt.Errorf("openrouter: invalid timeout %q: %w", o.config.Timeout, err)
	}

	o.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout: timeout,
		},
	}

	ctx.RegisterService("provider.openrouter", o)
	return nil
}

// Validate checks that the base URL is a usable HTTP endpoint. The API
// key is checked at invoke time so the gateway starts without it.
func (o *OpenRouter) Validate() error {
	u, err := url.Parse(o.config.BaseURL)
	if err != nil {
		return fmt.Errorf("openrouter: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("openrouter: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("openrouter: base_url must include a host")
	}
	return nil
}

// Name returns the routing name.
func (o *OpenRouter) Name() string { return "openrouter" }

// ResolveModel maps a size tier to an OpenRouter model slug. Unknown
// tiers resolve to the small model.
func (o *OpenRouter) ResolveModel(size provider.Size) string {
	switch size {
	case provider.SizeSmall:
		return modelSmall
	case provider.SizeMedium:
		return modelMedium
	case provider.SizeLarge, provider.SizeReasoning:
		return modelLarge
	default:
		return modelSmall
	}
}

// apiKey returns the configured key, falling back to the environment.
func (o *OpenRouter) apiKey() string {
	if o.config.APIKey != "" {
		return o.config.APIKey
	}
	return os.Getenv(apiKeyEnv)
}
