// Package launch is the first code that runs in a drawbridge process.
//
// It owns the path from raw process arguments to a running gateway or a
// final exit code:
//
//	guard (main) → parse → dry-run resolution → classify → dispatch
//
// The classifier sorts an invocation into one of three shapes. An empty
// invocation shows usage. Exactly "start --optimized" takes the fast
// path: the server boots straight from the persisted configuration
// snapshot without the command tree ever being built, which is what a
// production restart wants. Everything else goes through the full
// command tree.
//
// Failure reporting is centralized here. Usage errors are printed with
// a help hint and the process returns cleanly. Startup and runtime
// failures are printed through the fatal reporter; when the process is
// a packaged distribution (DRAWBRIDGE_HOME set) it is terminated from
// inside the completion callback so an embedding caller can never
// swallow the failure.
package launch
