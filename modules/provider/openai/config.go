package openai

import "time"

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = "45s"

	apiKeyEnv = "OPENAI_API_KEY"

	modelSmall     = "gpt-5-mini"
	modelChat      = "gpt-5-chat-latest"
	modelReasoning = "gpt-5"
)

// Config holds the YAML configuration for the OpenAI provider module.
type Config struct {
	// APIKey is the OpenAI API key. Falls back to $OPENAI_API_KEY
	// when empty.
	APIKey string `yaml:"api_key"`

	// BaseURL is the API base URL. Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

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
