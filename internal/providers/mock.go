package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockGenerator is a Generator for testing.
type MockGenerator struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
	lastRequest  atomic.Pointer[GenerationRequest]
}

// NewMockGenerator creates a new mock generator with sensible defaults.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Latency:      time.Millisecond,
		ResponseText: "a mock verse about careful claims,\na mock verse about hidden bias,\na mock verse that asks for evidence",
	}
}

// Name returns the backend identifier.
func (g *MockGenerator) Name() string {
	return MockName
}

// RequestCount returns the number of Generate calls so far.
func (g *MockGenerator) RequestCount() int {
	return int(g.requestCount.Load())
}

// LastRequest returns the most recent request, or nil.
func (g *MockGenerator) LastRequest() *GenerationRequest {
	return g.lastRequest.Load()
}

// Generate returns the configured response, simulating latency and failures.
func (g *MockGenerator) Generate(ctx context.Context, req *GenerationRequest) *GenerationResult {
	start := time.Now()
	count := g.requestCount.Add(1)
	g.lastRequest.Store(req)

	result := &GenerationResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockName,
		ModelUsed: req.Model,
	}

	if g.ShouldFail {
		result.IsError = true
		result.ErrorType = "mock_failure"
		result.Text = "mock generator configured to fail"
		result.ExecutionTime = time.Since(start)
		return result
	}
	if g.FailAfter > 0 && int(count) > g.FailAfter {
		result.IsError = true
		result.ErrorType = "mock_failure"
		result.Text = fmt.Sprintf("mock generator failed after %d requests", g.FailAfter)
		result.ExecutionTime = time.Since(start)
		return result
	}

	// Simulate latency
	select {
	case <-time.After(g.Latency):
	case <-ctx.Done():
		result.IsError = true
		result.ErrorType = "context_cancelled"
		result.Text = "mock generation cancelled: " + ctx.Err().Error()
		result.ExecutionTime = time.Since(start)
		return result
	}

	result.Text = g.ResponseText
	result.ExecutionTime = time.Since(start)
	return result
}

// Verify interface
var _ Generator = (*MockGenerator)(nil)
