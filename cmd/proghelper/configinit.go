package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fbianco/proghelper/internal/config"
)

// configInitCmd interactively generates a starter configuration file.
func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Interactively generate a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "proghelper.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			}

			bind := "127.0.0.1:8080"
			providers := []string{"ollama"}
			usePersonas := true

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Gateway bind address").
						Value(&bind),
					huh.NewMultiSelect[string]().
						Title("Providers to enable").
						Options(huh.NewOptions("ollama", "mistral", "openai", "openrouter")...).
						Value(&providers),
					huh.NewConfirm().
						Title("Enable the SQLite persona store?").
						Value(&usePersonas),
				),
			)
			if err := form.Run(); err != nil {
				return fmt.Errorf("config init aborted: %w", err)
			}
			if len(providers) == 0 {
				return fmt.Errorf("at least one provider must be enabled")
			}

			data, err := renderConfig(bind, providers, usePersonas)
			if err != nil {
				return err
			}

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return fmt.Errorf("creating %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Printf("Wrote %s\n", path)
			fmt.Println("API keys are read from the environment: MISTRAL_API_KEY, OPENAI_API_KEY, OPENROUTER_API_KEY.")
			return nil
		},
	}
	return cmd
}

// renderConfig builds the YAML document for the selected modules.
func renderConfig(bind string, providers []string, usePersonas bool) ([]byte, error) {
	modules := map[string]any{
		"gateway.http": map[string]any{"bind": bind},
	}
	for _, p := range providers {
		modules["provider."+p] = map[string]any{}
	}
	if usePersonas {
		modules["persona.sqlite"] = map[string]any{}
	}

	doc := map[string]any{
		"version": "1",
		"modules": modules,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	// Sanity check: the generated file must pass our own validation.
	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("re-reading generated config: %w", err)
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("generated config is invalid: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# Generated by proghelper config init.\n")
	sb.WriteString("# Module IDs enabled: " + strings.Join(sortedKeys(modules), ", ") + "\n")
	sb.Write(data)
	return []byte(sb.String()), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
