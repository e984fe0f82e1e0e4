// Package config loads and resolves the generation parameters for a request.
//
// Parameters are merged from multiple sources with the following precedence:
// flags > environment variables > config file > compiled defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is one layer of generation parameters. Load returns the compiled
// defaults overlaid by the optional config file; Resolve layers the
// environment and command-line values on top.
type Config struct {
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	System          string  `yaml:"system"`
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
}

// Default returns the compiled-in configuration. BaseURL is left empty, which
// selects the public Gemini endpoint.
func Default() Config {
	return Config{
		Model:           "gemini-1.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 2048,
		System: "You are a helpful terminal assistant. " +
			"Answer as concisely and informatively as possible. " +
			"Do not use markdown.",
	}
}

// Load reads the config file and overlays it on the defaults.
// A missing or unreadable file silently yields the defaults.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// configPath returns the path to the config file.
func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gem", "config.yaml"), nil
}
