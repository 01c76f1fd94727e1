package cmd

import (
	"fmt"

	"drawbridge/internal/config"
	"drawbridge/internal/runtime"

	"github.com/spf13/cobra"
)

var importFile string

// importCmd installs an exported configuration file.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a configuration file and rebuild the snapshot",
	Long: `Import a configuration file, install it as this home's
drawbridge.yaml, and rebuild the launch snapshot from it.

The file is validated before anything is written, so a failed import
leaves the existing configuration and snapshot untouched. Environment
overrides are not baked in; the next full start applies them on top of
the imported file as usual.

Examples:
  drawbridge import --file /tmp/gateway.yaml`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFile, "file", "", "Configuration file to import (required)")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	home, err := runtime.HomeDir()
	if err != nil {
		return err
	}

	imported, err := config.ImportConfig(importFile)
	if err != nil {
		return err
	}

	if err := config.WriteConfigFile(home, imported); err != nil {
		return err
	}
	persisted := config.NewPersistedSource(home)
	if err := persisted.Write(imported); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration imported from %s\n", importFile)
	fmt.Fprintf(out, "Snapshot rebuilt at %s\n", persisted.Path())
	return nil
}
