// Package openai implements a provider.Provider backed by the OpenAI
// Responses API. Reasoning effort and reply verbosity are passed through
// for the models that accept them.
package openai

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
	_ provider.Provider = (*OpenAI)(nil)
	_ core.Configurable = (*OpenAI)(nil)
	_ core.Provisioner  = (*OpenAI)(nil)
	_ core.Validator    = (*OpenAI)(nil)
)

func init() {
	core.RegisterModule(&OpenAI{})
}

// OpenAI is a provider.Provider that communicates with the OpenAI API.
type OpenAI struct {
	config Config
	client *http.Client
}

// ModuleInfo returns the module metadata for registration.
func (o *OpenAI) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai",
		New: func() core.Module { return &OpenAI{} },
	}
}

// Configure decodes the YAML configuration and applies defaults.
func (o *OpenAI) Configure(node *yaml.Node) error {
	if err := node.Decode(&o.config); err != nil {
		return fmt.Errorf("openai: decoding config: %w", err)
	}
	o.config.defaults()
	return nil
}

// Provision parses the timeout, creates the HTTP client, and registers
// this provider as a service.
func (o *OpenAI) Provision(ctx *core.AppContext) error {
	timeout, err := o.config.parsedTimeout()
	if err != nil {
		return fmt.Errorf("openai: invalid timeout %q: %w", o.config.Timeout, err)
	}

	o.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout: timeout,
		},
	}

	ctx.RegisterService("provider.openai", o)
	return nil
}

// Validate checks that the base URL is a usable HTTP endpoint. The API
// key is checked at invoke time, not here, so the gateway starts without
// the credential.
func (o *OpenAI) Validate() error {
	u, err := url.Parse(o.config.BaseURL)
	if err != nil {
		return fmt.Errorf("openai: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("openai: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("openai: base_url must include a host")
	}
	return nil
}

// Name returns the routing name.
func (o *OpenAI) Name() string { return "openai" }

// ResolveModel maps a size tier to an OpenAI model. Both the medium and
// large tiers use the chat-tuned model; unknown tiers resolve to it too.
func (o *OpenAI) ResolveModel(size provider.Size) string {
	switch size {
	case provider.SizeSmall:
		return modelSmall
	case provider.SizeReasoning:
		return modelReasoning
	default:
		return modelChat
	}
}

// apiKey returns the configured key, falling back to the environment.
func (o *OpenAI) apiKey() string {
	if o.config.APIKey != "" {
		return o.config.APIKey
	}
	return os.Getenv(apiKeyEnv)
}
