package cli

import (
	"fmt"
)

// Process exit codes. The dispatcher maps command errors onto these;
// anything it cannot classify exits with ExitCodeFailure.
const (
	// ExitCodeOK means a clean run.
	ExitCodeOK = 0
	// ExitCodeFailure covers runtime and configuration failures.
	ExitCodeFailure = 1
	// ExitCodeUsage covers malformed command lines.
	ExitCodeUsage = 2
)

// PropertyError indicates a malformed pass-through plugin option on the
// command line, such as a value-carrying option with no value.
type PropertyError struct {
	// Option is the option that was rejected.
	Option string
}

// Error returns the message shown to the user.
func (e *PropertyError) Error() string {
	return fmt.Sprintf("plugin argument %s requires a value", e.Option)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *PropertyError) Is(target error) bool {
	_, ok := target.(*PropertyError)
	return ok
}

// UsageError indicates a command line the grammar rejected: an unknown
// command, an unknown flag, or a malformed flag value. The dispatcher
// reports it with a help hint and returns cleanly.
type UsageError struct {
	// Reason is the parser's error.
	Reason error
}

// Error returns the parser's message unchanged.
func (e *UsageError) Error() string {
	return e.Reason.Error()
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *UsageError) Is(target error) bool {
	_, ok := target.(*UsageError)
	return ok
}

// ExitCodeError carries an exit code for a failure that has already
// been reported to the user. The dispatcher unwraps the code and prints
// nothing further.
type ExitCodeError struct {
	// Code is the process exit code to use.
	Code int
}

// Error describes the carried code.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ExitCodeError) Is(target error) bool {
	_, ok := target.(*ExitCodeError)
	return ok
}

// ConfigError indicates the effective configuration is invalid. It is an
// expected failure: the reporter prints its message without a cause chain.
type ConfigError struct {
	// Source describes where the configuration came from, such as the
	// file path or "environment".
	Source string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message.
func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Reason)
	}
	return fmt.Sprintf("invalid configuration from %s: %v", e.Source, e.Reason)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// SnapshotError indicates the persisted configuration snapshot is missing,
// unreadable, or was produced by a different version of the binary.
type SnapshotError struct {
	// Path is the snapshot file involved.
	Path string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *SnapshotError) Error() string {
	return fmt.Sprintf(`cannot use persisted configuration %s: %v

To rebuild the snapshot, run:
  drawbridge build`, e.Path, e.Reason)
}

// Unwrap returns the underlying error.
func (e *SnapshotError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *SnapshotError) Is(target error) bool {
	_, ok := target.(*SnapshotError)
	return ok
}
