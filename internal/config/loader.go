package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"drawbridge/pkg/logging"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "drawbridge.yaml"
	dataDirName    = "data"

	// envPrefix is the prefix for environment overrides of individual
	// configuration fields, e.g. DRAWBRIDGE_GATEWAY_PORT.
	envPrefix = "drawbridge"
)

// DataDir returns the directory holding build artifacts such as the
// persisted configuration snapshot.
func DataDir(home string) string {
	return filepath.Join(home, dataDirName)
}

// ConfigFilePath returns the path of the main configuration file.
func ConfigFilePath(home string) string {
	return filepath.Join(home, configFileName)
}

// LoadConfig loads configuration for the given home directory. Values are
// resolved in order: built-in defaults, then drawbridge.yaml, then
// DRAWBRIDGE_* environment overrides. A missing file is not an error.
func LoadConfig(home string) (Config, error) {
	return LoadConfigWithProfile(home, "")
}

// LoadConfigWithProfile is LoadConfig with a profile forced by the
// invocation, as start-dev does. The forced profile wins over both the
// file and the environment, and profile-dependent defaults follow it.
func LoadConfigWithProfile(home string, profile string) (Config, error) {
	configFilePath := ConfigFilePath(home)
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "Error loading %s from %s: %s", configFileName, configFilePath, err)
			return Config{}, err
		}
		logging.Info("ConfigLoader", "No %s found at %s, using defaults", configFileName, configFilePath)
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			// config malformed
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("error applying environment overrides: %w", err)
	}

	if profile != "" {
		cfg.Profile = profile
	}

	ApplyProfile(&cfg)
	return cfg, nil
}

// MergePluginOptions folds command-line plugin options into the
// configuration. Command-line values win over file values.
func MergePluginOptions(cfg *Config, opts map[string]string) {
	if len(opts) == 0 {
		return
	}
	if cfg.Plugins == nil {
		cfg.Plugins = make(map[string]string, len(opts))
	}
	for key, value := range opts {
		cfg.Plugins[key] = value
	}
}

// WriteConfigFile renders cfg as YAML at the home's drawbridge.yaml,
// creating the home directory if needed. Used by the import command.
func WriteConfigFile(home string, cfg Config) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("creating home directory %s: %w", home, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	path := ConfigFilePath(home)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logging.Info("ConfigLoader", "Wrote configuration to %s", path)
	return nil
}
