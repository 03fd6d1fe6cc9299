package config

// Config is the top-level configuration structure.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	SingleTenant SingleTenantConfig `yaml:"singleTenant"`
}

// ServerConfig configures the multi-tenant HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
	Port int    `yaml:"port,omitempty"` // Port for the MCP endpoint (default: 8000)
}

// SingleTenantConfig configures the single-tenant stdio mode.
type SingleTenantConfig struct {
	// Environment is the fixed target environment, "preprod" or
	// "mainnet". Validated at startup; the process refuses to start on
	// any other value.
	Environment string `yaml:"environment,omitempty"`
	// APIKey is the process-wide API key. Usually left empty here and
	// supplied via SOKOSUMI_API_KEY or the configure tool instead.
	APIKey string `yaml:"apiKey,omitempty"`
}

// GetDefaultConfig returns the built-in defaults.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8000,
		},
		SingleTenant: SingleTenantConfig{
			Environment: "mainnet",
		},
	}
}
