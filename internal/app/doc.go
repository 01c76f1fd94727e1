// Package app provides application bootstrap and lifecycle integration
// for drawbridge.
//
// The package turns a launch configuration into a running gateway in two
// phases:
//
//  1. Bootstrap (NewApplication): resolve the effective configuration
//     for the launch kind, validate it, re-initialize logging from it,
//     and construct the server.
//  2. Execution (Start/Stop): the runtime drives these through its
//     lifecycle sequencing.
//
// # Configuration Sources
//
// The launch kind selects where the effective configuration comes from:
//
//   - Full start: built-in defaults, then drawbridge.yaml, then
//     DRAWBRIDGE_* environment overrides
//   - Optimized start: the persisted snapshot only; the configuration
//     was resolved when the snapshot was built
//   - Dry-run start: the dry-run snapshot only, and the bootstrap
//     completes without binding listeners
//
// A snapshot written by a different version is refused so an optimized
// start never runs with configuration resolved by other code.
package app
