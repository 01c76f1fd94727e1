// Package runtime sequences the process lifecycle: it boots the
// application, reports readiness to the service manager, waits for an
// exit request from a signal or an explicit AsyncExit call, drains the
// application, and delivers the final exit code to a completion handler
// exactly once.
//
// The package also owns the process-level environment: the home
// directory resolution, the distribution check, and the launch modes
// that make a bootstrap cycle exit as soon as it completes.
package runtime
