package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OllamaName         = "ollama"
	OllamaBaseURL      = "http://localhost:11434"
	ollamaDefaultModel = "tinyllama"

	// Fixed sampling parameters. The seed pins generation for reproducibility
	// across calls within one process lifetime.
	ollamaSeed        = 42
	ollamaTemperature = 0.8
	ollamaTopP        = 0.9

	// Continuation budget added on top of the prompt's word count when
	// computing the generation length cap.
	ollamaContinuationTokens = 120
)

// Engine lazily provisions the local generation server. Ensure blocks until
// the server is reachable and returns its base URL, or an error when the
// engine cannot be brought up.
type Engine interface {
	Ensure(ctx context.Context) (string, error)
}

// OllamaConfig holds configuration for the local generator.
type OllamaConfig struct {
	Model      string        // "tinyllama" (default)
	BaseURL    string        // Used when no Engine is set (default: localhost:11434)
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // Optional (tests)
	Engine     Engine        // Optional lazy engine manager
}

// OllamaGenerator implements Generator against a local ollama server.
// It sends the flattened continuation prompt and returns the raw completion;
// extraction is the caller's responsibility.
type OllamaGenerator struct {
	model   string
	baseURL string
	client  *http.Client
	engine  Engine
}

// NewOllamaGenerator creates a new local generator.
func NewOllamaGenerator(cfg OllamaConfig) *OllamaGenerator {
	if cfg.Model == "" {
		cfg.Model = ollamaDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = OllamaBaseURL
	}
	if cfg.Timeout == 0 {
		// Local inference on CPU can be slow; leave generous headroom.
		cfg.Timeout = 300 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &OllamaGenerator{
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  client,
		engine:  cfg.Engine,
	}
}

// Name returns the backend identifier.
func (g *OllamaGenerator) Name() string {
	return OllamaName
}

// Model returns the configured default model.
func (g *OllamaGenerator) Model() string {
	return g.model
}

// Generate runs one completion on the local engine. Fails softly: an
// unavailable or failed engine produces an error-tagged result, never a panic
// or a returned Go error.
func (g *OllamaGenerator) Generate(ctx context.Context, req *GenerationRequest) *GenerationResult {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = g.model
	}

	result := &GenerationResult{
		RequestID: requestID,
		Provider:  OllamaName,
		ModelUsed: model,
	}

	base := g.baseURL
	if g.engine != nil {
		url, err := g.engine.Ensure(ctx)
		if err != nil {
			result.IsError = true
			result.ErrorType = "engine_unavailable"
			result.Text = "Local engine unavailable: " + err.Error()
			result.ExecutionTime = time.Since(start)
			return result
		}
		base = url
	}

	prompt := req.Prompt.Flat
	genReq := ollamaGenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Seed:        ollamaSeed,
			Temperature: ollamaTemperature,
			TopP:        ollamaTopP,
			NumPredict:  len(strings.Fields(prompt)) + ollamaContinuationTokens,
		},
	}

	genResp, err := g.doGenerate(ctx, base, &genReq)
	if err != nil {
		result.IsError = true
		result.ErrorType = "engine_error"
		result.Text = "Local generation error: " + err.Error()
		result.ExecutionTime = time.Since(start)
		return result
	}

	// Raw completion, deliberately un-extracted.
	result.Text = genResp.Response
	result.ExecutionTime = time.Since(start)
	return result
}

func (g *OllamaGenerator) doGenerate(ctx context.Context, base string, body *ollamaGenerateRequest) (*ollamaGenerateResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", base+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &genResp, nil
}

// Ollama API types

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Seed        int     `json:"seed"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Verify interface
var _ Generator = (*OllamaGenerator)(nil)
