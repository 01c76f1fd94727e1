package config

import (
	"fmt"
	"io"
	"os"

	"drawbridge/internal/cli"

	"gopkg.in/yaml.v3"
)

// ExportConfig renders cfg as YAML to w. The output can be fed back
// through the import command unchanged.
func ExportConfig(w io.Writer, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return nil
}

// ImportConfig reads a YAML configuration file, applies defaults, and
// validates the result. Invalid input yields a ConfigError naming the
// file so the reporter prints it as a user mistake.
func ImportConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &cli.ConfigError{Source: path, Reason: err}
	}
	ApplyProfile(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, &cli.ConfigError{Source: path, Reason: err}
	}
	return cfg, nil
}
