package app

import "context"

// TaskFunc is a one-shot unit of work run through the managed runtime
// instead of serving, such as a configuration export. The runtime exits
// with code 0 when the task returns nil and treats an error as a failed
// start.
type TaskFunc func(ctx context.Context, app *Application) error

// Config holds the launch configuration the command line resolved.
type Config struct {
	// Home is the drawbridge home directory. Empty means resolve it
	// from DRAWBRIDGE_HOME or the user's config directory.
	Home string

	// Profile forces a configuration profile for this launch.
	// start-dev sets it to dev; empty leaves the profile to the
	// configuration.
	Profile string

	// Optimized skips configuration augmentation and starts from the
	// persisted snapshot alone.
	Optimized bool

	// DryRun starts from the dry-run snapshot and completes the
	// bootstrap without serving.
	DryRun bool

	// Verbose switches fatal reporting to full cause chains.
	Verbose bool

	// Task, when set, runs instead of the listeners. Commands that need
	// a bootstrapped application without a serving gateway use it
	// together with the non-server launch mode.
	Task TaskFunc

	// PluginOptions carries --plugin-* arguments from the command line
	// into the effective configuration.
	PluginOptions map[string]string
}

// NewConfig creates a launch configuration.
func NewConfig(profile string, optimized, dryRun bool) *Config {
	return &Config{
		Profile:   profile,
		Optimized: optimized,
		DryRun:    dryRun,
	}
}
