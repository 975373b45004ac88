package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"

	// Fixed sampling parameters for poem generation.
	openAITemperature = 0.7
	openAIMaxTokens   = 250
)

// OpenAIConfig holds configuration for the hosted OpenAI generator.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "gpt-4o-mini" (default)
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIGenerator implements Generator using the official OpenAI SDK.
// It sends the structured prompt form (system directive + user question).
type OpenAIGenerator struct {
	apiKey string
	model  string
	client openai.Client
}

// NewOpenAIGenerator creates a new hosted generator.
func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIGenerator{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the backend identifier.
func (g *OpenAIGenerator) Name() string {
	return OpenAIName
}

// Model returns the configured default model.
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// Generate sends the structured prompt to the chat completions endpoint.
// Hosted output follows the persona instructions, so the text is returned
// trimmed but otherwise untouched.
func (g *OpenAIGenerator) Generate(ctx context.Context, req *GenerationRequest) *GenerationResult {
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
		Provider:  OpenAIName,
		ModelUsed: model,
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Prompt.System),
			openai.UserMessage(req.Prompt.User),
		},
		Temperature: openai.Float(openAITemperature),
		MaxTokens:   openai.Int(openAIMaxTokens),
	})
	if err != nil {
		result.IsError = true
		result.ErrorType = classifyOpenAIError(err)
		result.Text = "OpenAI API error: " + openAICause(err)
		result.ExecutionTime = time.Since(start)
		return result
	}

	if len(resp.Choices) == 0 {
		result.IsError = true
		result.ErrorType = "empty_response"
		result.Text = "OpenAI API error: no choices in response"
		result.ExecutionTime = time.Since(start)
		return result
	}

	result.Text = strings.TrimSpace(resp.Choices[0].Message.Content)
	result.ModelUsed = resp.Model
	result.ExecutionTime = time.Since(start)
	return result
}

// classifyOpenAIError buckets SDK errors for logging.
func classifyOpenAIError(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "auth_error"
		case http.StatusTooManyRequests:
			return "quota_error"
		default:
			return fmt.Sprintf("api_error_%d", apiErr.StatusCode)
		}
	}
	return "transport_error"
}

// openAICause extracts a compact human-readable cause from an SDK error.
func openAICause(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Sprintf("%s (status %d)", apiErr.Message, apiErr.StatusCode)
	}
	return err.Error()
}

// Verify interface
var _ Generator = (*OpenAIGenerator)(nil)
