package providers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds references to generation backends. It supports config-driven
// instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	generators map[string]Generator
	engine     Engine
	logger     *slog.Logger
}

// NewRegistry creates a new empty backend registry. The engine is handed to
// local generators created from config; it may be nil when local generation
// targets an externally managed server.
func NewRegistry(engine Engine) *Registry {
	return &Registry{
		generators: make(map[string]Generator),
		engine:     engine,
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register registers a generator by name.
func (r *Registry) Register(name string, gen Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = gen
	if r.logger != nil {
		r.logger.Info("registered generation backend", "name", name)
	}
}

// Unregister removes a generator by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.generators, name)
	if r.logger != nil {
		r.logger.Info("unregistered generation backend", "name", name)
	}
}

// Get returns a generator by name.
func (r *Registry) Get(name string) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("generation backend not found: %s", name)
	}
	return gen, nil
}

// Has checks if a generator is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[name]
	return ok
}

// List returns all registered backend names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	return names
}

// BackendConfig configures one generation backend.
type BackendConfig struct {
	Type    string // "openai", "ollama"
	Model   string // Model name
	APIKey  string // Resolved API key (hosted backends)
	BaseURL string // Server URL (local backends, tests)
	Enabled bool
}

// RegistryConfig defines the backends to instantiate from config.
type RegistryConfig struct {
	Backends map[string]BackendConfig
}

// NewRegistryFromConfig creates a registry with backends based on
// configuration. Hosted backends without a resolved credential are skipped:
// credential absence forces local routing rather than failing startup.
func NewRegistryFromConfig(cfg RegistryConfig, engine Engine) *Registry {
	r := NewRegistry(engine)
	for name, beCfg := range cfg.Backends {
		if gen := r.createGenerator(beCfg); gen != nil {
			r.generators[name] = gen
		}
	}
	return r
}

// Reload updates the registry based on new configuration. Backends that are
// no longer configured are unregistered; changed backends are recreated.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, beCfg := range cfg.Backends {
		if !usable(beCfg) {
			continue
		}
		want[name] = true

		existing, hasExisting := r.generators[name]
		if !hasExisting || needsUpdate(existing, beCfg) {
			gen := r.createGenerator(beCfg)
			if gen == nil {
				continue
			}
			r.generators[name] = gen
			if r.logger != nil {
				if hasExisting {
					r.logger.Info("updated generation backend", "name", name, "type", beCfg.Type)
				} else {
					r.logger.Info("registered generation backend", "name", name, "type", beCfg.Type)
				}
			}
		}
	}

	for name := range r.generators {
		if !want[name] {
			delete(r.generators, name)
			if r.logger != nil {
				r.logger.Info("unregistered generation backend", "name", name)
			}
		}
	}
}

// usable reports whether a backend config can produce a generator.
func usable(cfg BackendConfig) bool {
	switch {
	case !cfg.Enabled:
		return false
	case cfg.Type == "openai" && cfg.APIKey == "":
		return false
	default:
		return cfg.Type == "openai" || cfg.Type == "ollama"
	}
}

// createGenerator creates a generator based on backend type, or nil when the
// backend is disabled or unusable.
func (r *Registry) createGenerator(cfg BackendConfig) Generator {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Type {
	case "openai":
		if cfg.APIKey == "" {
			return nil
		}
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "ollama":
		return NewOllamaGenerator(OllamaConfig{
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Engine:  r.engine,
		})
	default:
		return nil
	}
}

// needsUpdate checks if a generator needs to be recreated for new config.
func needsUpdate(gen Generator, cfg BackendConfig) bool {
	switch g := gen.(type) {
	case *OpenAIGenerator:
		return g.apiKey != cfg.APIKey || g.model != cfg.Model
	case *OllamaGenerator:
		return g.model != cfg.Model ||
			(cfg.BaseURL != "" && g.baseURL != cfg.BaseURL)
	default:
		return true
	}
}
