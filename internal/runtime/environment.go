package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
)

// Process-level environment variables examined before configuration is
// loaded.
const (
	// EnvHome points at the drawbridge home directory. Packaged
	// distributions set it to the unpacked installation directory, which
	// is how a packaged launch is recognized.
	EnvHome = "DRAWBRIDGE_HOME"
	// EnvProfile selects the configuration profile before the file is
	// read, e.g. for the fast launch path.
	EnvProfile = "DRAWBRIDGE_PROFILE"
	// EnvLaunchMode selects a non-default launch mode.
	EnvLaunchMode = "DRAWBRIDGE_LAUNCH_MODE"
	// EnvDryRun requests a dry-run launch, equivalent to --dry-run.
	EnvDryRun = "DRAWBRIDGE_DRY_RUN"
)

// Launch modes selected through DRAWBRIDGE_LAUNCH_MODE.
const (
	// LaunchModeTest binds listeners, then exits as soon as startup
	// completes. Used by harnesses that only assert the process boots.
	LaunchModeTest = "test"
	// LaunchModeNonServer runs the full bootstrap without binding
	// listeners and exits when it completes. Dry-run launches force it.
	LaunchModeNonServer = "nonserver"
)

const userConfigDir = ".config/drawbridge"

// Seams for tests.
var (
	osGetenv      = os.Getenv
	osUserHomeDir = os.UserHomeDir
)

// nonServerForced is set when a dry-run launch forces non-server mode
// regardless of the environment.
var nonServerForced atomic.Bool

// HomeDir returns the drawbridge home directory: DRAWBRIDGE_HOME when set,
// otherwise ~/.config/drawbridge.
func HomeDir() (string, error) {
	if home := osGetenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// IsDistribution reports whether this process runs from a packaged
// distribution, recognized by DRAWBRIDGE_HOME being set. A packaged
// launch owns its process and is exited explicitly once the runtime
// completes; embedded launches (tests) leave the process alive.
func IsDistribution() bool {
	return osGetenv(EnvHome) != ""
}

// ProfileFromEnv returns the profile requested through the environment,
// or "" when unset.
func ProfileFromEnv() string {
	return osGetenv(EnvProfile)
}

// IsTestLaunchMode reports whether the process runs under a test harness.
func IsTestLaunchMode() bool {
	return osGetenv(EnvLaunchMode) == LaunchModeTest
}

// IsNonServerMode reports whether the bootstrap should complete without
// binding listeners.
func IsNonServerMode() bool {
	return nonServerForced.Load() || osGetenv(EnvLaunchMode) == LaunchModeNonServer
}

// ForceNonServerMode switches the process into non-server mode. Dry-run
// launches call it so the bootstrap is exercised without serving.
func ForceNonServerMode() {
	nonServerForced.Store(true)
}

// DryRunFromEnv reports whether DRAWBRIDGE_DRY_RUN requests a dry-run
// launch. Unparseable values count as false.
func DryRunFromEnv() bool {
	v := osGetenv(EnvDryRun)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
