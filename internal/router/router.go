// Package router decides which backend answers a question and normalizes the
// backend's completion into a presentable poem. Hosted output is trusted to
// already be verse and only sanitized; local output goes through full
// extraction and repair.
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sruthykbenni/kelly/internal/persona"
	"github.com/sruthykbenni/kelly/internal/poem"
	"github.com/sruthykbenni/kelly/internal/providers"
)

// Answer is the outcome of routing one question.
type Answer struct {
	// Text is either a poem or a human-readable error message.
	Text string
	// IsError reports whether Text is an error message rather than a poem.
	IsError bool
	// ErrorType classifies the failure when IsError is set.
	ErrorType string
	// Provider names the backend that produced the answer.
	Provider string
	// ModelUsed is the model identifier the backend reported.
	ModelUsed string
	// RequestID ties the answer back to logs.
	RequestID string
	// ExecutionTime is the end-to-end routing duration.
	ExecutionTime time.Duration
}

// Router selects between a hosted and a local generator.
type Router struct {
	hosted    providers.Generator
	local     providers.Generator
	extractor *poem.Extractor
	logger    *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// WithExtractor overrides the default poem extractor.
func WithExtractor(e *poem.Extractor) Option {
	return func(r *Router) { r.extractor = e }
}

// New creates a Router. Either generator may be nil; routing then falls
// through to the one that exists.
func New(hosted, local providers.Generator, opts ...Option) *Router {
	r := &Router{
		hosted:    hosted,
		local:     local,
		extractor: poem.NewExtractor(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route answers a question. The hosted backend is used only when the caller
// prefers it AND a credential is present; every other combination goes local.
// Failures come back as an error-shaped Answer, never as a Go error.
func (r *Router) Route(ctx context.Context, question string, preferHosted, credentialPresent bool) Answer {
	start := time.Now()
	requestID := uuid.New().String()

	prompt := persona.Compose(question)
	useHosted := preferHosted && credentialPresent && r.hosted != nil

	gen := r.local
	if useHosted {
		gen = r.hosted
	}
	if gen == nil {
		return Answer{
			Text:          "No generation backend is configured.",
			IsError:       true,
			ErrorType:     "no_backend",
			RequestID:     requestID,
			ExecutionTime: time.Since(start),
		}
	}

	r.logger.Debug("routing question",
		"request_id", requestID,
		"backend", gen.Name(),
		"prefer_hosted", preferHosted,
		"credential_present", credentialPresent)

	result := gen.Generate(ctx, &providers.GenerationRequest{
		Question:  question,
		Prompt:    prompt,
		RequestID: requestID,
	})

	answer := Answer{
		IsError:       result.IsError,
		ErrorType:     result.ErrorType,
		Provider:      result.Provider,
		ModelUsed:     result.ModelUsed,
		RequestID:     requestID,
		ExecutionTime: time.Since(start),
	}

	if result.IsError {
		answer.Text = result.Text
		r.logger.Warn("generation failed",
			"request_id", requestID,
			"backend", gen.Name(),
			"error_type", result.ErrorType)
		return answer
	}

	if useHosted {
		answer.Text = poem.Sanitize(result.Text)
	} else {
		answer.Text = r.extractor.Normalize(result.Text, persona.Marker)
	}

	r.logger.Debug("generation complete",
		"request_id", requestID,
		"backend", gen.Name(),
		"duration", answer.ExecutionTime)
	return answer
}
