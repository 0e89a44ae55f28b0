package mistral

import "time"

const (
	defaultBaseURL = "https://api.mistral.ai/v1"
	defaultTimeout = "45s"

	apiKeyEnv = "MISTRAL_API_KEY"

	modelSmall     = "mistral-small-latest"
	modelMedium    = "mistral-medium-latest"
	modelLarge     = "mistral-large-latest"
	modelReasoning = "magistral-medium-latest"

	// temperature keeps code-centric answers close to deterministic.
	temperature = 0.2
)

// Config holds the YAML configuration for the Mistral provider module.
type Config struct {
	// APIKey is the Mistral API key. Falls back to $MISTRAL_API_KEY
	// when empty.
	APIKey string `yaml:"api_key"`

	// BaseURL is the API base URL. Default: "https://api.mistral.ai/v1"
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
