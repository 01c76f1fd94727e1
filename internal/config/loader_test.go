package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, configFileName)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	loadedConfig, err := LoadConfig(tempDir)
	assert.NoError(t, err)

	assert.Equal(t, ProfileProd, loadedConfig.Profile)
	assert.Equal(t, DefaultGatewayPort, loadedConfig.Gateway.Port)
	assert.Equal(t, DefaultManagementPort, loadedConfig.Management.Port)
	assert.Equal(t, "json", loadedConfig.Log.Format, "prod profile should default to JSON records")
}

func TestLoadConfig_FileOverride(t *testing.T) {
	tempDir := t.TempDir()

	override := GetDefaultConfig()
	override.Profile = ProfileDev
	override.Gateway.Port = 9000
	override.Routes = []RouteConfig{
		{Name: "app", PathPrefix: "/app", Upstream: "http://app.internal:8080"},
	}
	createTempConfigFile(t, tempDir, override)

	loadedConfig, err := LoadConfig(tempDir)
	assert.NoError(t, err)

	assert.Equal(t, ProfileDev, loadedConfig.Profile)
	assert.Equal(t, 9000, loadedConfig.Gateway.Port)
	assert.Equal(t, "text", loadedConfig.Log.Format, "dev profile should default to text records")
	require.Len(t, loadedConfig.Routes, 1)
	assert.Equal(t, "app", loadedConfig.Routes[0].Name)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()

	override := GetDefaultConfig()
	override.Gateway.Port = 9000
	createTempConfigFile(t, tempDir, override)

	t.Setenv("DRAWBRIDGE_GATEWAY_PORT", "7443")
	t.Setenv("DRAWBRIDGE_LOG_LEVEL", "debug")

	loadedConfig, err := LoadConfig(tempDir)
	assert.NoError(t, err)

	assert.Equal(t, 7443, loadedConfig.Gateway.Port, "environment should win over the file")
	assert.Equal(t, "debug", loadedConfig.Log.Level)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, configFileName), []byte("gateway: [not a mapping"), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(tempDir)
	assert.Error(t, err)
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	home := filepath.Join(tempDir, "home")

	cfg := GetDefaultConfig()
	cfg.Gateway.Port = 9443
	cfg.Routes = []RouteConfig{
		{Name: "api", PathPrefix: "/api", Upstream: "https://api.internal:8443", StripPrefix: true},
	}

	require.NoError(t, WriteConfigFile(home, cfg))

	loadedConfig, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, 9443, loadedConfig.Gateway.Port)
	require.Len(t, loadedConfig.Routes, 1)
	assert.True(t, loadedConfig.Routes[0].StripPrefix)
}
