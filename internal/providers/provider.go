package providers

import (
	"context"
	"time"

	"github.com/sruthykbenni/kelly/internal/persona"
)

// Generator is the interface for poem generation backends.
//
// Generate never returns a Go error: the boundary contract is "never throw
// across this interface". Failures come back as error-tagged results that are
// rendered to the user like any other reply.
type Generator interface {
	// Generate produces raw text for the composed prompt.
	Generate(ctx context.Context, req *GenerationRequest) *GenerationResult

	// Name returns the backend identifier (e.g., "openai", "ollama").
	Name() string
}

// GenerationRequest is one generation call. Transient; constructed per call.
type GenerationRequest struct {
	// Question is the user's original question.
	Question string

	// Prompt carries both prompt representations; each backend picks the
	// form it can consume.
	Prompt persona.Context

	// Model overrides the backend's default model when non-empty.
	Model string

	// RequestID for correlation (auto-generated if empty).
	RequestID string
}

// GenerationResult is the complete response from a generation call.
type GenerationResult struct {
	// Text is the generated text on success, or a human-readable diagnostic
	// when IsError is set. Either way it is renderable conversation content.
	Text string

	// IsError marks Text as a diagnostic rather than a poem.
	IsError   bool
	ErrorType string

	// Provider info
	Provider  string
	ModelUsed string

	// Request tracking
	RequestID     string
	ExecutionTime time.Duration
}
