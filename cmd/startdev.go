package cmd

import (
	"drawbridge/internal/app"
	"drawbridge/internal/config"
	"drawbridge/internal/launch"

	"github.com/spf13/cobra"
)

var startDevVerbose bool

// startDevCmd starts the gateway with development defaults.
var startDevCmd = &cobra.Command{
	Use:   "start-dev",
	Short: "Start the gateway in development mode",
	Long: `Start the gateway in development mode.

The dev profile is forced regardless of configuration: text log records,
a plaintext listener on a high port. Configuration is always resolved
fresh, so edits to drawbridge.yaml are picked up on every start; there
is no --optimized and no snapshot involved.`,
	Args: cobra.NoArgs,
	RunE: runStartDev,
}

func init() {
	rootCmd.AddCommand(startDevCmd)

	startDevCmd.Flags().BoolVar(&startDevVerbose, "verbose", false, "Print full error cause chains")
}

func runStartDev(cmd *cobra.Command, args []string) error {
	launchCfg := app.NewConfig(config.ProfileDev, false, false)
	launchCfg.Verbose = startDevVerbose
	launchCfg.PluginOptions = pluginOptions

	return exitOn(launch.RunServer(launchCfg))
}
