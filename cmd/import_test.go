package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"drawbridge/internal/cli"
	"drawbridge/internal/config"
	"drawbridge/internal/runtime"

	"gopkg.in/yaml.v3"
)

// resetImportFlag clears the flag state Execute leaves behind, so each
// test decides on its own whether --file is present.
func resetImportFlag() {
	importFile = ""
	if f := importCmd.Flags().Lookup("file"); f != nil {
		f.Changed = false
	}
}

func writeImportSource(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	cfg := config.GetDefaultConfig()
	cfg.Gateway.Host = "127.0.0.1"
	cfg.Management.Host = "127.0.0.1"
	cfg.Routes = []config.RouteConfig{
		{Name: "api", PathPrefix: "/api", Upstream: "http://api.internal:8080"},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("rendering source config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing source config: %v", err)
	}
	return path
}

func TestImportMissingFileFlag(t *testing.T) {
	resetImportFlag()
	t.Setenv(runtime.EnvHome, t.TempDir())
	captureOutput(t)

	code, err := Execute([]string{"import"}, nil)

	if code != cli.ExitCodeUsage {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeUsage)
	}
	if !errors.Is(err, &cli.UsageError{}) {
		t.Errorf("expected a UsageError, got %T: %v", err, err)
	}
}

func TestImportInstallsConfigAndSnapshot(t *testing.T) {
	resetImportFlag()
	home := t.TempDir()
	t.Setenv(runtime.EnvHome, home)
	captureOutput(t)
	src := writeImportSource(t, nil)

	code, err := Execute([]string{"import", "--file", src}, nil)

	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if code != cli.ExitCodeOK {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeOK)
	}

	if _, err := os.Stat(config.ConfigFilePath(home)); err != nil {
		t.Errorf("expected drawbridge.yaml to be installed: %v", err)
	}

	persisted := config.NewPersistedSource(home)
	if !persisted.Exists() {
		t.Fatal("expected the snapshot to be rebuilt")
	}
	snapshot, err := persisted.LoadConfig()
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if len(snapshot.Routes) != 1 || snapshot.Routes[0].Name != "api" {
		t.Errorf("snapshot lost the imported routes: %+v", snapshot.Routes)
	}
}

func TestImportInvalidConfigFails(t *testing.T) {
	resetImportFlag()
	home := t.TempDir()
	t.Setenv(runtime.EnvHome, home)
	captureOutput(t)
	src := writeImportSource(t, func(cfg *config.Config) {
		cfg.Routes = []config.RouteConfig{
			{Name: "broken", PathPrefix: "no-slash", Upstream: "ftp://wrong"},
		}
	})

	code, err := Execute([]string{"import", "--file", src}, nil)

	if code != cli.ExitCodeFailure {
		t.Errorf("code = %d, want %d", code, cli.ExitCodeFailure)
	}
	var configErr *cli.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}

	// A rejected import must leave the home untouched.
	if _, err := os.Stat(config.ConfigFilePath(home)); !errors.Is(err, os.ErrNotExist) {
		t.Error("a failed import must not install a configuration")
	}
}
