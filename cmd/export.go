package cmd

import (
	"context"
	"fmt"
	"os"

	"drawbridge/internal/app"
	"drawbridge/internal/config"
	"drawbridge/internal/launch"

	"github.com/spf13/cobra"
)

var (
	exportFile    string
	exportVerbose bool
)

// exportCmd writes the effective configuration as YAML.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the effective configuration as YAML",
	Long: `Export the effective configuration as YAML.

The configuration goes through the same bootstrap a full start uses:
defaults, drawbridge.yaml, environment overrides and plugin options are
resolved and validated before anything is written. The output contains
unmasked values so it can be fed to 'drawbridge import' on another
host; use 'drawbridge show-config' for a masked view.

Examples:
  drawbridge export
  drawbridge export --file /tmp/gateway.yaml`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFile, "file", "", "Write to a file instead of standard output")
	exportCmd.Flags().BoolVar(&exportVerbose, "verbose", false, "Print full error cause chains")
}

func runExport(cmd *cobra.Command, args []string) error {
	launchCfg := app.NewConfig("", false, false)
	launchCfg.Verbose = exportVerbose
	launchCfg.PluginOptions = pluginOptions
	launchCfg.Task = func(ctx context.Context, application *app.Application) error {
		if exportFile == "" {
			return config.ExportConfig(cmd.OutOrStdout(), application.Config())
		}

		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportFile, err)
		}
		defer f.Close()
		if err := config.ExportConfig(f, application.Config()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration exported to %s\n", exportFile)
		return nil
	}

	return exitOn(launch.RunServer(launchCfg))
}
