package cmd

import (
	"errors"
	"testing"

	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"
)

// prepareHome writes a valid drawbridge.yaml into a fresh home and
// points DRAWBRIDGE_HOME at it for the duration of the test.
func prepareHome(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	home := t.TempDir()

	cfg := config.GetDefaultConfig()
	cfg.Gateway.Host = "127.0.0.1"
	cfg.Management.Host = "127.0.0.1"
	cfg.Routes = []config.RouteConfig{
		{Name: "api", PathPrefix: "/api", Upstream: "http://api.internal:8080"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	if err := config.WriteConfigFile(home, cfg); err != nil {
		t.Fatalf("writing home config: %v", err)
	}

	t.Setenv(runtime.EnvHome, home)
	return home
}

func TestBuildPersistsSnapshot(t *testing.T) {
	home := prepareHome(t, nil)
	buildDryRun = false
	captureOutput(t)

	code, err := Execute([]string{"build"}, map[string]string{"plugin-geoip-db": "/var/lib/geo.mmdb"})

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if code != cli.ExitCodeOK {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeOK)
	}

	persisted := config.NewPersistedSource(home)
	if !persisted.Exists() {
		t.Fatal("expected the snapshot to be written")
	}
	snapshot, err := persisted.LoadConfig()
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if len(snapshot.Routes) != 1 || snapshot.Routes[0].Name != "api" {
		t.Errorf("snapshot lost the route table: %+v", snapshot.Routes)
	}
	if snapshot.Plugins["plugin-geoip-db"] != "/var/lib/geo.mmdb" {
		t.Errorf("snapshot missing the plugin option: %v", snapshot.Plugins)
	}
}

func TestBuildDryRunWritesSeparateSnapshot(t *testing.T) {
	home := prepareHome(t, nil)
	buildDryRun = false
	captureOutput(t)

	code, err := Execute([]string{"build", "--dry-run"}, nil)

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if code != cli.ExitCodeOK {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeOK)
	}

	dryRun := config.NewPersistedSource(home)
	dryRun.UseDryRunProperties()
	if !dryRun.Exists() {
		t.Error("expected the dry-run snapshot to be written")
	}
	if config.NewPersistedSource(home).Exists() {
		t.Error("a dry-run build must not touch the real snapshot")
	}
}

func TestBuildInvalidConfigFails(t *testing.T) {
	prepareHome(t, func(cfg *config.Config) {
		cfg.Routes = []config.RouteConfig{
			{Name: "broken", PathPrefix: "no-slash", Upstream: "ftp://wrong"},
		}
	})
	buildDryRun = false
	captureOutput(t)

	code, err := Execute([]string{"build"}, nil)

	if code != cli.ExitCodeFailure {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeFailure)
	}
	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}
