package config

import (
	"maps"
	"slices"
)

// Resolve returns the configured module IDs in lexicographic order. The
// deterministic order keeps loading reproducible; the gateway binds its
// dependencies lazily at Start, so no topological ordering is needed.
func Resolve(cfg *Config) []string {
	return slices.Sorted(maps.Keys(cfg.Modules))
}
