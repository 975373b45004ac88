package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sruthykbenni/kelly/internal/config"
	"github.com/sruthykbenni/kelly/internal/engine"
	"github.com/sruthykbenni/kelly/internal/home"
	"github.com/sruthykbenni/kelly/internal/providers"
	"github.com/sruthykbenni/kelly/internal/router"
	"github.com/sruthykbenni/kelly/version"
)

var (
	cfgFile string
	homeDir string
	apiKey  string
	verbose bool
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kelly",
	Short: "Kelly, the AI scientist who answers only in poems",
	Long: `Kelly is a chatbot with the persona of a witty, skeptical AI scientist
who answers every question as a short poem of 3-8 lines.

Questions route to a hosted model when an API key is configured, and
otherwise to a local model served from a Docker container. Whatever the
model returns, Kelly's reply is always a well-formed poem.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.kelly/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "kelly home directory (default: ~/.kelly)",
	)
	rootCmd.PersistentFlags().StringVar(
		&apiKey, "api-key", "", "hosted backend API key (overrides config and environment)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	rootCmd.AddCommand(versionCmd)
}

// getHome returns the home directory manager.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// getConfigManager loads configuration, preferring the explicit --config flag,
// then the home config file, then viper's search path.
func getConfigManager(h *home.Dir) (*config.Manager, error) {
	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	return config.NewManager(path)
}

// getDockerManager creates the engine container manager from config.
func getDockerManager(h *home.Dir, cfg *config.Config) (*engine.DockerManager, error) {
	return engine.NewDockerManager(engine.DockerConfig{
		ContainerName: cfg.Engine.ContainerName,
		Image:         cfg.Engine.Image,
		HomePath:      h.Path(),
		ModelsPath:    h.ModelsPath(),
		HostPort:      cfg.Engine.Port,
	})
}

// session wires config, backends and routing together for the chat-facing
// commands.
type session struct {
	home     *home.Dir
	manager  *config.Manager
	registry *providers.Registry
	engine   *engine.Engine
	docker   *engine.DockerManager
}

// newSession builds the full generation stack.
func newSession() (*session, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}

	cm, err := getConfigManager(h)
	if err != nil {
		return nil, err
	}
	cfg := cm.Get()

	mgr, err := getDockerManager(h, cfg)
	if err != nil {
		return nil, err
	}

	localModel := ""
	if be, ok := cfg.GetBackend(cfg.Defaults.LocalBackend); ok {
		localModel = be.Model
	}
	eng := engine.New(mgr, localModel, engine.WithLogger(logger))

	reg := providers.NewRegistryFromConfig(registryConfig(cfg), eng)
	reg.SetLogger(logger)

	// Config edits take effect live: the registry reconciles on every change.
	cm.OnChange(func(cfg *config.Config) {
		reg.Reload(registryConfig(cfg))
	})

	return &session{
		home:     h,
		manager:  cm,
		registry: reg,
		engine:   eng,
		docker:   mgr,
	}, nil
}

// Close releases the session's Docker client.
func (s *session) Close() {
	_ = s.docker.Close()
}

// Answer routes one question through the current configuration.
func (s *session) Answer(ctx context.Context, question string) router.Answer {
	return s.answerWith(ctx, question, s.manager.Get().Defaults.PreferHosted)
}

// answerWith routes a question with an explicit hosted/local preference.
func (s *session) answerWith(ctx context.Context, question string, preferHosted bool) router.Answer {
	cfg := s.manager.Get()

	hosted, _ := s.registry.Get(cfg.Defaults.HostedBackend)
	local, _ := s.registry.Get(cfg.Defaults.LocalBackend)

	r := router.New(hosted, local, router.WithLogger(logger))
	return r.Route(ctx, question, preferHosted, credentialPresent(cfg))
}

// registryConfig resolves the registry view of cfg, applying the --api-key
// flag to the hosted backend.
func registryConfig(cfg *config.Config) providers.RegistryConfig {
	rc := cfg.ToRegistryConfig()
	if apiKey != "" {
		if be, ok := rc.Backends[cfg.Defaults.HostedBackend]; ok {
			be.APIKey = apiKey
			rc.Backends[cfg.Defaults.HostedBackend] = be
		}
	}
	return rc
}

// credentialPresent reports whether the hosted backend has a usable key from
// the flag, the config file, or the environment.
func credentialPresent(cfg *config.Config) bool {
	if apiKey != "" {
		return true
	}
	return cfg.HostedCredentialPresent()
}
