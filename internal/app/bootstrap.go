package app

import (
	"fmt"
	"os"

	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"
	"drawbridge/internal/server"
	"drawbridge/pkg/logging"

	"github.com/google/uuid"
)

// Application is the bootstrapped gateway: effective configuration
// resolved, logging re-initialized from it, and the server constructed
// but not yet serving.
//
// The bootstrap follows a two-phase pattern:
//  1. NewApplication: resolve configuration, validate, prepare the server
//  2. Start (via the runtime): bind listeners and serve
type Application struct {
	config  *Config
	cfg     config.Config
	home    string
	runID   string
	server  *server.Server
	serving bool
}

// NewApplication performs the bootstrap sequence for the given launch
// configuration:
//
//  1. Resolves the drawbridge home directory
//  2. Resolves the effective configuration for the launch kind:
//     full starts read defaults, drawbridge.yaml and the environment;
//     optimized starts read only the persisted snapshot; dry-run starts
//     read only the dry-run snapshot
//  3. Validates the effective configuration
//  4. Re-initializes logging with the configured level and format
//  5. Constructs the gateway server around the runtime's phase tracker
//
// Configuration problems are returned as cli errors so the launch can
// report them as expected failures rather than stack dumps.
func NewApplication(cfg *Config, tracker *runtime.Tracker) (*Application, error) {
	home := cfg.Home
	if home == "" {
		var err error
		home, err = runtime.HomeDir()
		if err != nil {
			return nil, err
		}
	}

	effective, source, err := resolveConfig(home, cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to resolve configuration")
		return nil, err
	}

	if !cfg.Optimized && !cfg.DryRun {
		config.MergePluginOptions(&effective, cfg.PluginOptions)
	}

	if err := config.Validate(effective); err != nil {
		return nil, &cli.ConfigError{Source: source, Reason: err}
	}

	// Replace the bootstrap logger with the configured one.
	logging.Init(logging.ParseLevel(effective.Log.Level), logging.Format(effective.Log.Format), os.Stdout)

	runID := uuid.New().String()
	logging.Debug("Bootstrap", "Effective configuration from %s, run %s", source, runID)

	// A full server start re-persists the snapshot, so a later
	// optimized start boots exactly what ran last.
	if cfg.Task == nil && !cfg.Optimized && !cfg.DryRun {
		persisted := config.NewPersistedSource(home)
		if err := persisted.Write(effective); err != nil {
			return nil, fmt.Errorf("persisting configuration snapshot: %w", err)
		}
		logging.Debug("Bootstrap", "Configuration snapshot persisted to %s", persisted.Path())
	}

	return &Application{
		config: cfg,
		cfg:    effective,
		home:   home,
		runID:  runID,
		server: server.New(effective, runID, tracker),
	}, nil
}

// resolveConfig picks the configuration source for the launch kind and
// loads it. It returns the effective configuration and a description of
// the source for error reporting.
func resolveConfig(home string, cfg *Config) (config.Config, string, error) {
	switch {
	case cfg.DryRun:
		persisted := config.NewPersistedSource(home)
		persisted.UseDryRunProperties()
		effective, err := persisted.LoadConfig()
		if err != nil {
			return config.Config{}, "", err
		}
		logging.Info("Bootstrap", "Loaded dry-run snapshot from %s", persisted.Path())
		return effective, persisted.Path(), nil

	case cfg.Optimized:
		persisted := config.NewPersistedSource(home)
		effective, err := persisted.LoadConfig()
		if err != nil {
			return config.Config{}, "", err
		}
		logging.Info("Bootstrap", "Loaded configuration snapshot from %s", persisted.Path())
		return effective, persisted.Path(), nil

	default:
		effective, err := config.LoadConfigWithProfile(home, cfg.Profile)
		if err != nil {
			return config.Config{}, "", fmt.Errorf("loading configuration: %w", err)
		}
		return effective, config.ConfigFilePath(home), nil
	}
}

// Config returns the effective configuration of this launch.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Home returns the resolved drawbridge home directory.
func (a *Application) Home() string {
	return a.home
}

// RunID identifies this launch in logs and on the management endpoints.
func (a *Application) RunID() string {
	return a.runID
}

// Server returns the gateway server.
func (a *Application) Server() *server.Server {
	return a.server
}
