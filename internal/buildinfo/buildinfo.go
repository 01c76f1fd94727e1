// Package buildinfo carries values stamped into the binary at build time.
package buildinfo

import (
	"fmt"
	"os"
)

// These are set via -ldflags "-X drawbridge/internal/buildinfo.Version=...".
var (
	// Version is the release version of this binary.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
	// DryRunCapability marks binaries whose build pipeline includes the
	// dry-run machinery. Only "enabled" builds honor --dry-run.
	DryRunCapability = "disabled"
)

// EnvVersion overrides the reported version when set. Test harnesses use
// it to simulate version skew against a persisted snapshot.
const EnvVersion = "DRAWBRIDGE_VERSION"

// EffectiveVersion returns the version the process reports and records
// in snapshots: the DRAWBRIDGE_VERSION environment variable when set,
// otherwise the stamped Version.
func EffectiveVersion() string {
	if v := os.Getenv(EnvVersion); v != "" {
		return v
	}
	return Version
}

// StampVersion publishes the stamped version into the process
// environment under EnvVersion, so that subprocesses and the snapshot
// layer observe the same value the binary reports. An override already
// present in the environment is left alone.
func StampVersion() {
	if os.Getenv(EnvVersion) == "" {
		os.Setenv(EnvVersion, Version)
	}
}

// DryRunCapable reports whether this build honors --dry-run.
func DryRunCapable() bool {
	return DryRunCapability == "enabled"
}

// Short returns a one-line human-readable description of the build.
func Short() string {
	return fmt.Sprintf("drawbridge %s (commit %s, built %s)", EffectiveVersion(), Commit, Date)
}
