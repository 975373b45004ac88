package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Engine provisions the local generation server on first use and hands out
// its base URL. Initialization runs at most once per process; the outcome,
// success or failure, is cached and returned to every subsequent caller.
type Engine struct {
	mu     sync.Mutex
	booted bool
	url    string
	err    error

	mgr    *DockerManager
	model  string
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used during bootstrap.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine backed by the given Docker manager. The model is
// pulled during bootstrap if the server does not already have it.
func New(mgr *DockerManager, model string, opts ...Option) *Engine {
	e := &Engine{
		mgr:    mgr,
		model:  model,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ensure makes sure the local server is up and the model is available,
// returning the server base URL. The first call does the work; later calls
// return the cached result without touching Docker again.
func (e *Engine) Ensure(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.booted {
		return e.url, e.err
	}
	e.booted = true
	e.url, e.err = e.bootstrap(ctx)
	return e.url, e.err
}

func (e *Engine) bootstrap(ctx context.Context) (string, error) {
	url := e.mgr.URL()

	// A host-level server already listening on the port wins over the
	// container. This covers developers running ollama natively.
	if serverAlive(ctx, url) {
		e.logger.Debug("reusing running generation server", "url", url)
		return url, e.ensureModel(ctx, url)
	}

	e.logger.Info("starting local generation server", "url", url)
	if err := e.mgr.Start(ctx); err != nil {
		return "", fmt.Errorf("failed to start engine container: %w", err)
	}

	if err := e.ensureModel(ctx, url); err != nil {
		return "", err
	}

	return url, nil
}

func (e *Engine) ensureModel(ctx context.Context, url string) error {
	if e.model == "" {
		return nil
	}
	e.logger.Debug("ensuring model is available", "model", e.model)
	if err := PullModel(ctx, url, e.model); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", e.model, err)
	}
	return nil
}

// serverAlive reports whether an engine server is already answering at url.
func serverAlive(ctx context.Context, url string) bool {
	httpClient := &http.Client{Timeout: 2 * time.Second}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
