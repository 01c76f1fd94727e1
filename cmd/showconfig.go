package cmd

import (
	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/formatting"
	"drawbridge/internal/runtime"

	"github.com/spf13/cobra"
)

var showConfigOutput string

// showConfigCmd displays the resolved configuration.
var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Show the effective configuration",
	Long: `Show the configuration the next full start would run with:
defaults, drawbridge.yaml, environment overrides and plugin options,
resolved the same way 'drawbridge start' resolves them.

Sensitive plugin values are masked in every output format. Use
'drawbridge export' for an unmasked copy.

Examples:
  drawbridge show-config
  drawbridge show-config --output yaml`,
	Args: cobra.NoArgs,
	RunE: runShowConfig,
}

func init() {
	rootCmd.AddCommand(showConfigCmd)

	showConfigCmd.Flags().StringVarP(&showConfigOutput, "output", "o", "table", "Output format (table, json, yaml)")
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	format, err := formatting.ValidateOutputFormat(showConfigOutput)
	if err != nil {
		return &cli.UsageError{Reason: err}
	}

	home, err := runtime.HomeDir()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigWithProfile(home, "")
	if err != nil {
		return &cli.ConfigError{Source: config.ConfigFilePath(home), Reason: err}
	}
	config.MergePluginOptions(&cfg, pluginOptions)

	return formatting.NewRenderer(format).Render(cmd.OutOrStdout(), cfg)
}
