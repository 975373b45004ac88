package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticEngine struct {
	url string
	err error
}

func (e *staticEngine) Ensure(_ context.Context) (string, error) {
	return e.url, e.err
}

func TestOllamaGenerateSuccess(t *testing.T) {
	var payload ollamaGenerateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "tinyllama", "response": "User: echo\nraw verse one\nraw verse two", "done": true}`))
	}))
	defer server.Close()

	gen := NewOllamaGenerator(OllamaConfig{BaseURL: server.URL})
	req := poemRequest("Can AI dream?")
	result := gen.Generate(context.Background(), req)

	if result.IsError {
		t.Fatalf("unexpected error result: %s", result.Text)
	}
	// Raw passthrough: no extraction, no trimming at this layer.
	if result.Text != "User: echo\nraw verse one\nraw verse two" {
		t.Errorf("expected the raw completion, got %q", result.Text)
	}
	if result.Provider != OllamaName {
		t.Errorf("Provider = %q, want %q", result.Provider, OllamaName)
	}

	t.Run("request shape", func(t *testing.T) {
		if payload.Model != "tinyllama" {
			t.Errorf("model = %q, want tinyllama", payload.Model)
		}
		if payload.Stream {
			t.Error("streaming must be disabled")
		}
		if payload.Prompt != req.Prompt.Flat {
			t.Errorf("prompt must be the flattened form, got %q", payload.Prompt)
		}
		if !strings.HasSuffix(payload.Prompt, "Kelly:") {
			t.Errorf("flat prompt must end with the marker, got %q", payload.Prompt)
		}
	})

	t.Run("sampling options", func(t *testing.T) {
		if payload.Options.Seed != 42 {
			t.Errorf("seed = %d, want 42", payload.Options.Seed)
		}
		if payload.Options.Temperature != 0.8 {
			t.Errorf("temperature = %v, want 0.8", payload.Options.Temperature)
		}
		if payload.Options.TopP != 0.9 {
			t.Errorf("top_p = %v, want 0.9", payload.Options.TopP)
		}
		wantPredict := len(strings.Fields(req.Prompt.Flat)) + ollamaContinuationTokens
		if payload.Options.NumPredict != wantPredict {
			t.Errorf("num_predict = %d, want %d", payload.Options.NumPredict, wantPredict)
		}
	})
}

func TestOllamaGenerateErrors(t *testing.T) {
	t.Run("engine unavailable fails softly", func(t *testing.T) {
		gen := NewOllamaGenerator(OllamaConfig{
			Engine: &staticEngine{err: errors.New("docker is not running")},
		})
		result := gen.Generate(context.Background(), poemRequest("hello"))

		if !result.IsError {
			t.Fatal("expected error result")
		}
		if result.ErrorType != "engine_unavailable" {
			t.Errorf("ErrorType = %q, want engine_unavailable", result.ErrorType)
		}
		if !strings.Contains(result.Text, "docker is not running") {
			t.Errorf("diagnostic should describe the cause, got %q", result.Text)
		}
	})

	t.Run("server error fails softly", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "model 'tinyllama' not found"}`))
		}))
		defer server.Close()

		gen := NewOllamaGenerator(OllamaConfig{BaseURL: server.URL})
		result := gen.Generate(context.Background(), poemRequest("hello"))

		if !result.IsError || result.ErrorType != "engine_error" {
			t.Fatalf("expected engine_error result, got %+v", result)
		}
		if !strings.Contains(result.Text, "status 404") {
			t.Errorf("diagnostic should carry the status, got %q", result.Text)
		}
	})

	t.Run("engine URL wins over default", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"model": "tinyllama", "response": "ok", "done": true}`))
		}))
		defer server.Close()

		gen := NewOllamaGenerator(OllamaConfig{
			BaseURL: "http://127.0.0.1:1", // must not be used
			Engine:  &staticEngine{url: server.URL},
		})
		result := gen.Generate(context.Background(), poemRequest("hello"))
		if result.IsError {
			t.Fatalf("expected engine-provided URL to be used: %s", result.Text)
		}
	})
}
