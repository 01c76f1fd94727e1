package launch

import "drawbridge/internal/cli"

// Mode is the launch shape the classifier assigned to an invocation.
type Mode string

const (
	// ModeHelp is an empty invocation rewritten to show usage.
	ModeHelp Mode = "help"

	// ModeFastStart is exactly "start --optimized": boot from the
	// persisted snapshot without building the command tree.
	ModeFastStart Mode = "fast-start"

	// ModeFullDispatch is every other invocation, routed through the
	// command tree.
	ModeFullDispatch Mode = "full-dispatch"
)

// Classify decides how an invocation launches and returns the argument
// list to launch with. An empty list becomes a fresh ["-h"] slice, so
// the caller's slice is never written to. The fast path requires the
// two tokens in exactly that order and nothing else: any extra option
// means the command tree has flags to parse, and "--optimized start"
// is not a command at all.
func Classify(args []string) (Mode, []string) {
	if len(args) == 0 {
		return ModeHelp, []string{cli.HelpOption}
	}
	if len(args) == 2 && args[0] == cli.CommandStart && args[1] == cli.OptimizedOption {
		return ModeFastStart, args
	}
	return ModeFullDispatch, args
}
