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
func createTempConfigFile(t *testing.T, path string, content Config) {
	t.Helper()
	data, err := yaml.Marshal(&content)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// mockConfigPaths redirects both config lookups into tempDir for the
// duration of a test.
func mockConfigPaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t,
		filepath.Join(tempDir, "no-user-config.yaml"),
		filepath.Join(tempDir, "no-project-config.yaml"))
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvEnvironment, "")

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loaded)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, userConfigDir, configFileName)
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "no-project-config.yaml"))
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvEnvironment, "")

	createTempConfigFile(t, userPath, Config{
		Server:       ServerConfig{Port: 9000},
		SingleTenant: SingleTenantConfig{Environment: "preprod"},
	})

	loaded, err := LoadConfig()
	require.NoError(t, err)

	// Overridden fields change, the rest keeps defaults.
	assert.Equal(t, 9000, loaded.Server.Port)
	assert.Equal(t, "localhost", loaded.Server.Host)
	assert.Equal(t, "preprod", loaded.SingleTenant.Environment)
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, userConfigDir, configFileName)
	projectPath := filepath.Join(tempDir, projectConfigDir, configFileName)
	mockConfigPaths(t, userPath, projectPath)
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvEnvironment, "")

	createTempConfigFile(t, userPath, Config{
		Server: ServerConfig{Host: "user-host", Port: 9000},
	})
	createTempConfigFile(t, projectPath, Config{
		Server: ServerConfig{Port: 9100},
	})

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "user-host", loaded.Server.Host)
	assert.Equal(t, 9100, loaded.Server.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := filepath.Join(tempDir, projectConfigDir, configFileName)
	mockConfigPaths(t, filepath.Join(tempDir, "no-user-config.yaml"), projectPath)

	createTempConfigFile(t, projectPath, Config{
		SingleTenant: SingleTenantConfig{Environment: "mainnet", APIKey: "from-file"},
	})

	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvEnvironment, "preprod")

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", loaded.SingleTenant.APIKey)
	assert.Equal(t, "preprod", loaded.SingleTenant.Environment)
}

func TestLoadConfig_MalformedFileFails(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := filepath.Join(tempDir, projectConfigDir, configFileName)
	mockConfigPaths(t, filepath.Join(tempDir, "no-user-config.yaml"), projectPath)

	require.NoError(t, os.MkdirAll(filepath.Dir(projectPath), 0755))
	require.NoError(t, os.WriteFile(projectPath, []byte("server: [not a mapping"), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)
}
