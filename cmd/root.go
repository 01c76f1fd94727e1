// Package cmd holds the drawbridge command tree. The launch dispatcher
// decides whether an invocation reaches it at all: "start --optimized"
// boots straight from the snapshot, everything else is routed here.
package cmd

import (
	"errors"
	"strings"

	"drawbridge/internal/cli"

	"github.com/spf13/cobra"
)

// pluginOptions carries the --plugin-* pass-through options the
// dispatcher stripped from the command line. They are not declared as
// flags on any command; start hands them to the bootstrap.
var pluginOptions map[string]string

// rootCmd represents the base command for the drawbridge application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "drawbridge",
	Short: "Edge gateway for routing HTTP traffic to internal services",
	Long: `drawbridge is a reverse proxy edge gateway. It routes HTTP traffic
to internal upstreams by path prefix, with per-route rate limiting,
TLS termination, and a management endpoint for health and readiness.

Configuration is resolved once by 'drawbridge build' and persisted as
a snapshot; 'drawbridge start --optimized' then boots straight from
the snapshot without resolving anything again.`,
	// The dispatcher owns failure reporting. Cobra printing errors or
	// usage on its own would duplicate every message.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
// This can be used by other commands to access the build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the command tree over the given arguments and returns
// the process exit code. Failures a command has already reported to the
// user come back as ExitCodeError so the dispatcher stays silent;
// everything else is returned for the dispatcher to report.
func Execute(args []string, plugins map[string]string) (int, error) {
	pluginOptions = plugins

	// SetVersionTemplate defines a custom template for displaying the version.
	// This is used when the --version flag is invoked.
	rootCmd.SetVersionTemplate(`{{printf "drawbridge version %s\n" .Version}}`)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &cli.UsageError{Reason: err}
	})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitCodeOK, nil
	}
	err = classifyCommandError(err)
	return getExitCode(err), err
}

// classifyCommandError folds cobra's own complaints into the usage
// error family. Flag parse errors arrive wrapped already; unrecognized
// commands and missing required flags come back as plain errors with
// known prefixes.
func classifyCommandError(err error) error {
	if errors.Is(err, &cli.UsageError{}) {
		return err
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "required flag") {
		return &cli.UsageError{Reason: err}
	}
	return err
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var exitErr *cli.ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, &cli.UsageError{}) || errors.Is(err, &cli.PropertyError{}) {
		return cli.ExitCodeUsage
	}

	// Configuration and snapshot problems, and anything unclassified.
	return cli.ExitCodeFailure
}

// init is a special Go function that is executed when the package is initialized.
// It is used here to add subcommands to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())
}
