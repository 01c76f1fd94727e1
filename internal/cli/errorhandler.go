package cli

import (
	"errors"
	"fmt"
	"io"
)

// ErrorHandler formats fatal launch failures for the terminal.
//
// Expected failures (PropertyError, ConfigError, SnapshotError) are the
// user's to fix and print as single lines. Anything else is unexpected;
// in verbose mode the full cause chain is printed, otherwise a hint
// points at --verbose.
type ErrorHandler struct {
	out     io.Writer
	verbose bool
}

// NewErrorHandler creates a handler writing to out.
func NewErrorHandler(out io.Writer, verbose bool) *ErrorHandler {
	return &ErrorHandler{out: out, verbose: verbose}
}

// Fatal reports a fatal failure. The message describes what was being
// attempted; cause may be nil.
func (h *ErrorHandler) Fatal(message string, cause error) {
	if message != "" {
		fmt.Fprintf(h.out, "ERROR: %s\n", message)
	}
	if cause == nil {
		return
	}

	if isExpected(cause) {
		fmt.Fprintf(h.out, "ERROR: %s\n", cause.Error())
		return
	}

	if h.verbose {
		for err := cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(h.out, "ERROR: %s\n", err.Error())
		}
		return
	}

	fmt.Fprintf(h.out, "ERROR: %s\n", cause.Error())
	fmt.Fprintln(h.out, "For more details run the same command passing the '--verbose' option. Also you can use '--help' to see the details about the usage of the particular command.")
}

// Usage reports a rejected command line: the message, the cause when
// present, and a pointer at --help. It never terminates anything; the
// caller returns cleanly afterwards.
func (h *ErrorHandler) Usage(message string, cause error) {
	if message != "" {
		fmt.Fprintf(h.out, "ERROR: %s\n", message)
	}
	if cause != nil {
		fmt.Fprintf(h.out, "ERROR: %s\n", cause.Error())
	}
	fmt.Fprintln(h.out, "Try 'drawbridge --help' to see the available commands and options.")
}

func isExpected(err error) bool {
	return errors.Is(err, &PropertyError{}) ||
		errors.Is(err, &UsageError{}) ||
		errors.Is(err, &ConfigError{}) ||
		errors.Is(err, &SnapshotError{})
}
