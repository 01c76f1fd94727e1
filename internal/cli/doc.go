// Package cli provides the command-line plumbing shared by the launch
// path and the cobra command tree: raw argument handling, the error
// taxonomy, and the error reporter that turns failures into the
// messages users see on stderr.
//
// # Argument Handling
//
// ParseArgs normalizes a raw invocation before any command runs. It
// folds the two-token spelling of plugin options ("--plugin-x y") into
// the single-token form ("--plugin-x=y") and rejects plugin options
// with no value. Plugin options are never declared as cobra flags;
// PluginOptions extracts them into a map and StripPluginOptions
// removes them so the remaining tokens parse cleanly.
//
// # Error Taxonomy
//
// Errors carry their reporting contract in their type:
//
//   - UsageError and PropertyError mean the user asked for something
//     malformed. They exit with ExitCodeUsage and the report points at
//     --help.
//   - ConfigError and SnapshotError mean the environment is wrong in a
//     way the message itself explains. They exit with ExitCodeFailure
//     and no help hint.
//   - ExitCodeError carries an exit code from a site that has already
//     reported. It is never printed again.
//
// All five support errors.Is against their zero value, so callers can
// classify wrapped errors without unwrapping by hand.
//
// # Reporting
//
// ErrorHandler owns the output format: "ERROR: " lines on stderr,
// a --verbose hint for unexpected failures, and a --help hint for
// rejected command lines. Verbose mode prints the whole cause chain
// of an unexpected failure, one line per wrapped error.
package cli
