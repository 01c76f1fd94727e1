package launch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"drawbridge/internal/app"
	"drawbridge/internal/buildinfo"
	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"
)

// DispatchFunc runs the command tree over an argument list and the
// plugin pass-through options extracted from it, returning the process
// exit code. Injected by main so this package never depends on the
// command tree.
type DispatchFunc func(args []string, plugins map[string]string) (int, error)

// osExit is the only way launch terminates the process. Tests swap it
// to observe forced exits without dying.
var osExit = os.Exit

// Run takes the process arguments (without the program name) through
// parse, dry-run resolution and classification, launches the selected
// shape, and returns the exit code for main to exit with.
//
// A panic anywhere below is reported as an unexpected startup failure
// and terminates with the failure code, so a bug in the launch path can
// never print a bare Go stack trace at a user.
func Run(args []string, dispatch DispatchFunc) (code int) {
	buildinfo.StampVersion()

	handler := cli.NewErrorHandler(os.Stderr, cli.HasOption(args, cli.VerboseOption))
	defer func() {
		if r := recover(); r != nil {
			handler.Fatal(fmt.Sprintf("Unexpected error when starting the server in (%s) mode", modeLabel("")), fmt.Errorf("%v", r))
			code = cli.ExitCodeFailure
			osExit(code)
		}
	}()

	parsed, err := cli.ParseArgs(args)
	if err != nil {
		handler.Usage("Unable to parse the command line", err)
		return cli.ExitCodeUsage
	}

	// Resolved before classification: the fast path never parses flags,
	// so a dry-run request must be read off the raw invocation or the
	// environment.
	dryRun := ResolveDryRun(cli.HasOption(parsed, cli.DryRunOption))

	mode, launchArgs := Classify(parsed)
	if mode == ModeFastStart {
		return startFast(dryRun)
	}

	plugins := cli.PluginOptions(launchArgs)
	code, err = dispatch(cli.StripPluginOptions(launchArgs), plugins)
	if err != nil {
		reportDispatchError(handler, err)
	}
	return code
}

// reportDispatchError prints a failure the command tree returned.
// Failures the server launch already reported carry an ExitCodeError
// and stay silent here; rejected command lines get the help hint; the
// rest go through fatal reporting.
func reportDispatchError(handler *cli.ErrorHandler, err error) {
	var exitErr *cli.ExitCodeError
	switch {
	case errors.As(err, &exitErr):
	case errors.Is(err, &cli.UsageError{}) || errors.Is(err, &cli.PropertyError{}):
		handler.Usage("", err)
	default:
		handler.Fatal("", err)
	}
}

// ResolveDryRun decides whether this launch runs dry. Builds without
// the dry-run capability ignore both the flag and the environment; for
// capable builds the flag and DRAWBRIDGE_DRY_RUN are equivalent, so a
// container entrypoint can request it without editing arguments.
func ResolveDryRun(flagPresent bool) bool {
	if !buildinfo.DryRunCapable() {
		return false
	}
	return flagPresent || runtime.DryRunFromEnv()
}

// startFast boots the gateway from the persisted snapshot without
// touching the command tree.
func startFast(dryRun bool) int {
	return RunServer(app.NewConfig("", true, dryRun))
}

// RunServer bootstraps an application from launchCfg and hands it to
// the managed runtime, returning the exit code once the launch
// completes. Failures are reported here, at the only place that knows
// the launch mode; in a packaged distribution they also terminate the
// process directly so an embedding caller cannot lose them.
func RunServer(launchCfg *app.Config) int {
	handler := cli.NewErrorHandler(os.Stderr, launchCfg.Verbose)
	mode := modeLabel(launchCfg.Profile)

	// Dry runs and one-shot tasks complete without serving; the runtime
	// exits as soon as startup finishes instead of waiting for signals.
	if launchCfg.DryRun || launchCfg.Task != nil {
		runtime.ForceNonServerMode()
	}

	rt := runtime.New()
	application, err := app.NewApplication(launchCfg, rt.Tracker())
	if err != nil {
		handler.Fatal(fmt.Sprintf("Failed to start server in (%s) mode", mode), err)
		if runtime.IsDistribution() {
			osExit(cli.ExitCodeFailure)
		}
		return cli.ExitCodeFailure
	}

	code := cli.ExitCodeOK
	rt.Run(context.Background(), application, func(exitCode int, cause error) {
		code = exitCode
		if cause == nil {
			return
		}
		handler.Fatal(fmt.Sprintf("Failed to start server in (%s) mode", mode), cause)
		if runtime.IsDistribution() {
			osExit(exitCode)
		}
	})
	return code
}

// modeLabel renders the mode for failure messages. An empty profile
// falls back to the environment so fast starts and panics report the
// mode the launch would actually have run in.
func modeLabel(profile string) string {
	if profile == "" {
		profile = runtime.ProfileFromEnv()
	}
	return config.ModeLabel(profile)
}
