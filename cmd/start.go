package cmd

import (
	"drawbridge/internal/app"
	"drawbridge/internal/cli"
	"drawbridge/internal/launch"

	"github.com/spf13/cobra"
)

var (
	startOptimized bool
	startDryRun    bool
	startVerbose   bool
)

// startCmd starts the gateway in production mode.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway in production mode",
	Long: `Start the gateway in production mode.

A plain start resolves configuration from defaults, drawbridge.yaml and
the environment, persists the result as the launch snapshot, and serves.
With --optimized the resolution is skipped and the gateway boots from
the snapshot alone, which is the fast path for production restarts.

Examples:
  drawbridge start
  drawbridge start --optimized`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVar(&startOptimized, "optimized", false, "Boot from the persisted snapshot without resolving configuration")
	startCmd.Flags().BoolVar(&startDryRun, "dry-run", false, "Run the launch sequence without binding listeners")
	startCmd.Flags().BoolVar(&startVerbose, "verbose", false, "Print full error cause chains")
	// Not advertised; used by build pipelines of dry-run capable builds.
	_ = startCmd.Flags().MarkHidden("dry-run")
}

func runStart(cmd *cobra.Command, args []string) error {
	launchCfg := app.NewConfig("", startOptimized, launch.ResolveDryRun(startDryRun))
	launchCfg.Verbose = startVerbose
	launchCfg.PluginOptions = pluginOptions

	return exitOn(launch.RunServer(launchCfg))
}

// exitOn converts a non-zero launch code into the carried-code error the
// dispatcher exits with silently. The launch already reported the
// failure; wrapping it again would print it twice.
func exitOn(code int) error {
	if code == cli.ExitCodeOK {
		return nil
	}
	return &cli.ExitCodeError{Code: code}
}
