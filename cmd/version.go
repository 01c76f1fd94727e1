package cmd

import (
	"fmt"

	"drawbridge/internal/buildinfo"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
// The version itself is injected by the main package; build metadata comes from
// the buildinfo package.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of drawbridge",
		Long:  `Print the version, the commit and date it was built from, and the build capabilities.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "drawbridge version %s\n", rootCmd.Version)
			fmt.Fprintf(out, "commit: %s\n", buildinfo.Commit)
			fmt.Fprintf(out, "built: %s\n", buildinfo.Date)
			fmt.Fprintf(out, "dry-run capability: %s\n", buildinfo.DryRunCapability)
		},
	}
}
