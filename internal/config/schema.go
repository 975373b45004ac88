package config

// Config holds kelly configuration.
// Stored at: ~/.kelly/config.yaml
type Config struct {
	Backends map[string]BackendCfg `mapstructure:"backends" yaml:"backends"`
	Defaults DefaultsCfg           `mapstructure:"defaults" yaml:"defaults"`
	Engine   EngineCfg             `mapstructure:"engine" yaml:"engine"`
}

// BackendCfg configures a generation backend.
type BackendCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`         // "openai", "ollama"
	Model   string `mapstructure:"model" yaml:"model"`       // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`   // API key (supports ${ENV_VAR} syntax)
	BaseURL string `mapstructure:"base_url" yaml:"base_url"` // Override API base URL
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies backend selection behavior.
type DefaultsCfg struct {
	PreferHosted  bool   `mapstructure:"prefer_hosted" yaml:"prefer_hosted"`   // Use the hosted backend when credentialed
	HostedBackend string `mapstructure:"hosted_backend" yaml:"hosted_backend"` // Name of the hosted backend
	LocalBackend  string `mapstructure:"local_backend" yaml:"local_backend"`   // Name of the local backend
}

// EngineCfg holds local engine container configuration.
type EngineCfg struct {
	// ContainerName is the Docker container name (default: derived from home path)
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	// Image is the Docker image to use (default: ollama/ollama:latest)
	Image string `mapstructure:"image" yaml:"image"`
	// Port is the host port to bind (default: 11434)
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backends: map[string]BackendCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"ollama": {
				Type:    "ollama",
				Model:   "tinyllama",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			PreferHosted:  true,
			HostedBackend: "openai",
			LocalBackend:  "ollama",
		},
		Engine: EngineCfg{
			Image: "ollama/ollama:latest",
			Port:  "11434",
		},
	}
}

// GetBackend returns a backend config by name.
func (c *Config) GetBackend(name string) (BackendCfg, bool) {
	cfg, ok := c.Backends[name]
	return cfg, ok
}

// EnabledBackends returns all enabled backends.
func (c *Config) EnabledBackends() map[string]BackendCfg {
	result := make(map[string]BackendCfg)
	for name, cfg := range c.Backends {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
