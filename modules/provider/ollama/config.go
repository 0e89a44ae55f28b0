package ollama

import "time"

const (
	defaultBaseURL = "http://localhost:11434"
	defaultTimeout = "45s"

	defaultModelSmall  = "qwen3:8b"
	defaultModelMedium = "mistral"
	defaultModelLarge  = "huihui_ai/qwen2.5-abliterate:14b"
)

// Config holds the YAML configuration for the Ollama provider module.
type Config struct {
	// BaseURL is the daemon address. Default: "http://localhost:11434"
	BaseURL string `yaml:"base_url"`

	// Timeout is the HTTP request timeout as a duration string.
	// Default: "45s"
	Timeout string `yaml:"timeout"`

	// ModelSmall..ModelLarge override the size tier mapping. The large
	// model also serves the reasoning tier.
	ModelSmall  string `yaml:"model_small"`
	ModelMedium string `yaml:"model_medium"`
	ModelLarge  string `yaml:"model_large"`
}

// defaults fills in zero-value fields.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	if c.ModelSmall == "" {
		c.ModelSmall = defaultModelSmall
	}
	if c.ModelMedium == "" {
		c.ModelMedium = defaultModelMedium
	}
	if c.ModelLarge == "" {
		c.ModelLarge = defaultModelLarge
	}
}

// parsedTimeout parses Timeout as a time.Duration.
func (c *Config) parsedTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Timeout)
}
