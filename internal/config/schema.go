// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for proghelper.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "provider.ollama",
	// "gateway.http").
	Modules map[string]yaml.Node `yaml:"modules"`

	// DataDir is the root directory for persistent data (persona database).
	// Defaults to a platform-appropriate location when empty.
	DataDir string `yaml:"data_dir,omitempty"`

	// Telemetry holds optional trace export settings.
	Telemetry *TelemetryConfig `yaml:"telemetry,omitempty"`
}

// TelemetryConfig configures OTLP trace export. Tracing is disabled when
// Endpoint is empty.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the exporter connection.
	Insecure bool `yaml:"insecure,omitempty"`

	// ServiceName overrides the reported service.name resource attribute.
	ServiceName string `yaml:"service_name,omitempty"`
}
