package cmd

import (
	"fmt"
	"time"

	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var buildDryRun bool

// buildCmd resolves configuration and persists the launch snapshot.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve configuration and persist the launch snapshot",
	Long: `Resolve the effective configuration and persist it as the launch
snapshot.

The snapshot captures defaults, drawbridge.yaml, environment overrides
and plugin options in one file. 'drawbridge start --optimized' boots
from it without resolving anything, which keeps production restarts
fast and reproducible.

With --dry-run the snapshot is written to a separate file consumed by
'drawbridge start --dry-run', so a pipeline can validate the exact
configuration that would boot without touching the real snapshot.

Examples:
  drawbridge build
  drawbridge build --plugin-geoip-db=/var/lib/geo.mmdb`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Write the dry-run snapshot instead of the launch snapshot")
}

func runBuild(cmd *cobra.Command, args []string) error {
	home, err := runtime.HomeDir()
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Resolving configuration..."
	s.Start()

	cfg, err := config.LoadConfigWithProfile(home, "")
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("Failed to resolve configuration") + "\n"
		s.Stop()
		return &cli.ConfigError{Source: config.ConfigFilePath(home), Reason: err}
	}

	// Plugin options from the command line become part of the snapshot,
	// the same way a full start folds them into its effective
	// configuration.
	config.MergePluginOptions(&cfg, pluginOptions)

	if err := config.Validate(cfg); err != nil {
		s.FinalMSG = text.FgRed.Sprint("Configuration is invalid") + "\n"
		s.Stop()
		return &cli.ConfigError{Source: config.ConfigFilePath(home), Reason: err}
	}

	persisted := config.NewPersistedSource(home)
	if buildDryRun {
		persisted.UseDryRunProperties()
	}
	if err := persisted.Write(cfg); err != nil {
		s.FinalMSG = text.FgRed.Sprint("Failed to persist the snapshot") + "\n"
		s.Stop()
		return err
	}

	s.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration persisted to %s\n", persisted.Path())
	if buildDryRun {
		fmt.Fprintf(out, "Validate the launch sequence with:\n\n  drawbridge start --dry-run\n")
		return nil
	}
	fmt.Fprintf(out, "The next start can skip resolution:\n\n  drawbridge start --optimized\n")
	return nil
}
