package openrouter

import "time"

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultTimeout = "45s"

	apiKeyEnv = "OPENROUTER_API_KEY"

	modelSmall  = "mistralai/mistral-small-3.2-24b-instruct"
	modelMedium = "thedrummer/anubis-70b-v1.1"
	modelLarge  = "deepseek/deepseek-chat-v3-0324"

	temperature = 0.3
)

// Config holds the YAML configuration for the OpenRouter provider module.
type Config struct {
	// APIKey is the OpenRouter API key. Falls back to
	// $OPENROUTER_API_KEY when empty. Typically sk-or-v1-...
	APIKey string `yaml:"api_key"`

	// BaseURL is the API base URL.
	// Default: "https://openrouter.ai/api/v1"
	BaseURL string `yaml:"base_url"`

	// Referer is sent as the HTTP-Referer header (optional).
	Referer string `yaml:"referer"`

	// Title is sent as the X-Title header (optional).
	Title string `yaml:"title"`

	// Timeout is the HTTP request timeout as a duration string.
	// Default: "45s"
	Timeout string `yaml:"timeout"`
}

// defaults fills in zero-value fields.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
}

// parsedTimeout parses Timeout as a time.Duration.
func (c *Config) parsedTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Timeout)
}
