package cli

import (
	"strings"
)

const (
	// CommandStart boots the gateway from the persisted snapshot.
	CommandStart = "start"
	// CommandStartDev boots the gateway in development mode.
	CommandStartDev = "start-dev"
	// CommandBuild resolves and persists the configuration snapshot.
	CommandBuild = "build"

	// OptimizedOption makes start trust the persisted snapshot instead of
	// rebuilding configuration. Exactly "start --optimized" takes the fast
	// launch path that skips the command tree entirely.
	OptimizedOption = "--optimized"
	// DryRunOption makes start validate the launch sequence without
	// binding listeners. Honored only by dry-run capable builds.
	DryRunOption = "--dry-run"
	// HelpOption is what an empty invocation is rewritten to.
	HelpOption = "-h"
	// VerboseOption switches fatal reporting to full cause chains.
	VerboseOption = "--verbose"

	// PluginOptionPrefix marks pass-through options for route plugins.
	// They are not declared on any command; ParseArgs normalizes them and
	// PluginOptions extracts them.
	PluginOptionPrefix = "--plugin-"
)

// ParseArgs normalizes raw command-line arguments. Plugin options may be
// written as --plugin-key=value or as --plugin-key value; the two-token form
// is folded into the inline form so later stages see a single shape. A
// value-carrying plugin option with no value yields a PropertyError.
func ParseArgs(rawArgs []string) ([]string, error) {
	args := make([]string, 0, len(rawArgs))
	for i := 0; i < len(rawArgs); i++ {
		arg := rawArgs[i]
		if !strings.HasPrefix(arg, PluginOptionPrefix) {
			args = append(args, arg)
			continue
		}
		if strings.Contains(arg, "=") {
			args = append(args, arg)
			continue
		}
		if i+1 >= len(rawArgs) {
			return nil, &PropertyError{Option: arg}
		}
		// The next token is the value, whatever it looks like.
		i++
		args = append(args, arg+"="+rawArgs[i])
	}
	return args, nil
}

// PluginOptions extracts plugin pass-through options from normalized
// arguments, keyed without the leading dashes.
func PluginOptions(args []string) map[string]string {
	opts := make(map[string]string)
	for _, arg := range args {
		if !strings.HasPrefix(arg, PluginOptionPrefix) {
			continue
		}
		key, value, found := strings.Cut(arg, "=")
		if !found {
			continue
		}
		opts[strings.TrimPrefix(key, "--")] = value
	}
	return opts
}

// HasOption reports whether args contains the exact option token.
func HasOption(args []string, option string) bool {
	for _, arg := range args {
		if arg == option {
			return true
		}
	}
	return false
}

// StripPluginOptions returns args without plugin pass-through options.
// The command tree declares no plugin flags, so they must be removed
// before dispatch; extract them with PluginOptions first.
func StripPluginOptions(args []string) []string {
	stripped := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, PluginOptionPrefix) {
			continue
		}
		stripped = append(stripped, arg)
	}
	return stripped
}
