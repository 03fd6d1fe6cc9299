// Package config loads the server configuration by layering defaults,
// a user-level config file, a project-level config file, and finally
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/sokosumi-mcp"
	projectConfigDir = ".sokosumi"
	configFileName   = "config.yaml"

	// EnvAPIKey overrides the single-tenant API key.
	EnvAPIKey = "SOKOSUMI_API_KEY"
	// EnvEnvironment overrides the single-tenant target environment.
	EnvEnvironment = "SOKOSUMI_ENVIRONMENT"
)

// LoadConfig loads the configuration by layering default, user, and
// project settings, then applying environment variable overrides.
func LoadConfig() (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional; warn and continue.
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	applyEnvOverrides(&config)

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Only fields
// explicitly set in the overlay replace base values.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Server.Host != "" {
		merged.Server.Host = overlay.Server.Host
	}
	if overlay.Server.Port != 0 {
		merged.Server.Port = overlay.Server.Port
	}
	if overlay.SingleTenant.Environment != "" {
		merged.SingleTenant.Environment = overlay.SingleTenant.Environment
	}
	if overlay.SingleTenant.APIKey != "" {
		merged.SingleTenant.APIKey = overlay.SingleTenant.APIKey
	}

	return merged
}

// applyEnvOverrides applies environment variable overrides, which take
// precedence over every config file.
func applyEnvOverrides(config *Config) {
	if key, ok := os.LookupEnv(EnvAPIKey); ok && key != "" {
		config.SingleTenant.APIKey = key
	}
	if env, ok := os.LookupEnv(EnvEnvironment); ok && env != "" {
		config.SingleTenant.Environment = env
	}
}
