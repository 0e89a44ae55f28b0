package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envExpr matches ${VAR} and ${VAR:-default} placeholders.
var envExpr = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads the YAML configuration at path, substitutes environment
// placeholders and decodes the result.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, missing := substituteEnv(raw)
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: %s: unresolved variables: %s",
			path, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// substituteEnv expands ${VAR} and ${VAR:-default} placeholders in raw.
// Placeholders naming an unset variable with no default are left intact
// and reported in missing.
func substituteEnv(raw []byte) (out []byte, missing []string) {
	out = envExpr.ReplaceAllFunc(raw, func(match []byte) []byte {
		parts := envExpr.FindSubmatch(match)
		name := string(parts[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if parts[2] != nil {
			return parts[2]
		}

		missing = append(missing, name)
		return match
	})
	return out, missing
}
