package router

import (
	"context"
	"strings"
	"testing"

	"github.com/sruthykbenni/kelly/internal/persona"
	"github.com/sruthykbenni/kelly/internal/poem"
	"github.com/sruthykbenni/kelly/internal/providers"
)

func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func TestRouter_BackendSelection(t *testing.T) {
	tests := []struct {
		name              string
		preferHosted      bool
		credentialPresent bool
		wantHosted        bool
	}{
		{
			name:              "hosted preferred with credential",
			preferHosted:      true,
			credentialPresent: true,
			wantHosted:        true,
		},
		{
			name:              "hosted preferred without credential falls back local",
			preferHosted:      true,
			credentialPresent: false,
			wantHosted:        false,
		},
		{
			name:              "local preferred ignores credential",
			preferHosted:      false,
			credentialPresent: true,
			wantHosted:        false,
		},
		{
			name:              "local preferred without credential",
			preferHosted:      false,
			credentialPresent: false,
			wantHosted:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosted := providers.NewMockGenerator()
			local := providers.NewMockGenerator()
			r := New(hosted, local)

			r.Route(context.Background(), "why is the sky blue?", tt.preferHosted, tt.credentialPresent)

			hostedCalls := hosted.RequestCount()
			localCalls := local.RequestCount()
			if tt.wantHosted {
				if hostedCalls != 1 || localCalls != 0 {
					t.Errorf("expected hosted route, got hosted=%d local=%d", hostedCalls, localCalls)
				}
			} else {
				if hostedCalls != 0 || localCalls != 1 {
					t.Errorf("expected local route, got hosted=%d local=%d", hostedCalls, localCalls)
				}
			}
		})
	}
}

func TestRouter_NilHostedFallsBackLocal(t *testing.T) {
	local := providers.NewMockGenerator()
	r := New(nil, local)

	answer := r.Route(context.Background(), "what is entropy?", true, true)

	if answer.IsError {
		t.Fatalf("unexpected error answer: %s", answer.Text)
	}
	if local.RequestCount() != 1 {
		t.Errorf("expected local generator to serve the request, got %d calls", local.RequestCount())
	}
}

func TestRouter_NoBackends(t *testing.T) {
	r := New(nil, nil)

	answer := r.Route(context.Background(), "anything", false, false)

	if !answer.IsError {
		t.Fatal("expected error answer with no backends")
	}
	if answer.ErrorType != "no_backend" {
		t.Errorf("ErrorType = %q, want no_backend", answer.ErrorType)
	}
}

func TestRouter_ComposesPersonaPrompt(t *testing.T) {
	local := providers.NewMockGenerator()
	r := New(nil, local)

	question := "do neutrinos have mass?"
	r.Route(context.Background(), question, false, false)

	req := local.LastRequest()
	if req == nil {
		t.Fatal("generator saw no request")
	}
	if req.Question != question {
		t.Errorf("Question = %q, want %q", req.Question, question)
	}
	if req.Prompt.User != question {
		t.Errorf("Prompt.User = %q, want %q", req.Prompt.User, question)
	}
	if !strings.Contains(req.Prompt.System, "skeptical") {
		t.Errorf("Prompt.System missing persona directive: %q", req.Prompt.System)
	}
	if !strings.HasSuffix(req.Prompt.Flat, persona.Marker) {
		t.Errorf("Prompt.Flat should end with %q: %q", persona.Marker, req.Prompt.Flat)
	}
}

func TestRouter_LocalOutputIsNormalized(t *testing.T) {
	local := providers.NewMockGenerator()
	// Raw local output: prompt echo plus marker plus noisy verse.
	local.ResponseText = "You are Kelly.\nUser: hm?\nKelly: the stars are data points to me,\neach photon logged without romance,\nyet even graphs can hint at awe,\nwhen plotted late at night alone"
	r := New(nil, local)

	answer := r.Route(context.Background(), "hm?", false, false)

	if answer.IsError {
		t.Fatalf("unexpected error: %s", answer.Text)
	}
	if strings.Contains(answer.Text, "Kelly:") {
		t.Errorf("marker echo survived normalization: %q", answer.Text)
	}
	if strings.Contains(answer.Text, "You are Kelly") {
		t.Errorf("prompt echo survived normalization: %q", answer.Text)
	}
	if n := countLines(answer.Text); n < 3 || n > 8 {
		t.Errorf("normalized poem has %d lines, want 3..8", n)
	}
}

func TestRouter_LocalGarbageStillYieldsPoem(t *testing.T) {
	local := providers.NewMockGenerator()
	local.ResponseText = "ah"
	r := New(nil, local)

	answer := r.Route(context.Background(), "?", false, false)

	if answer.IsError {
		t.Fatalf("unexpected error: %s", answer.Text)
	}
	if answer.Text != poem.FallbackPoem {
		t.Errorf("degenerate output should yield the fallback poem, got %q", answer.Text)
	}
}

func TestRouter_HostedOutputOnlySanitized(t *testing.T) {
	hosted := providers.NewMockGenerator()
	// Nine lines with CRLF endings: sanitization must not reshape them.
	lines := make([]string, 9)
	for i := range lines {
		lines[i] = "a hosted line of reasonable length here"
	}
	hosted.ResponseText = "  " + strings.Join(lines, "\r\n") + "  "
	r := New(hosted, providers.NewMockGenerator())

	answer := r.Route(context.Background(), "?", true, true)

	if answer.IsError {
		t.Fatalf("unexpected error: %s", answer.Text)
	}
	if strings.Contains(answer.Text, "\r") {
		t.Error("carriage returns should be normalized away")
	}
	if n := countLines(answer.Text); n != 9 {
		t.Errorf("hosted output reshaped: got %d lines, want 9 untouched", n)
	}
	if answer.Text != strings.TrimSpace(answer.Text) {
		t.Error("outer whitespace should be trimmed")
	}
}

func TestRouter_ErrorResultPassesThrough(t *testing.T) {
	local := providers.NewMockGenerator()
	local.ShouldFail = true
	r := New(nil, local)

	answer := r.Route(context.Background(), "?", false, false)

	if !answer.IsError {
		t.Fatal("expected error answer")
	}
	if answer.ErrorType != "mock_failure" {
		t.Errorf("ErrorType = %q, want mock_failure", answer.ErrorType)
	}
	if answer.Text != "mock generator configured to fail" {
		t.Errorf("error text should pass through untouched: %q", answer.Text)
	}
	if countLines(answer.Text) >= 3 {
		t.Error("error messages must not be reshaped into poems")
	}
}

func TestRouter_AnswerMetadata(t *testing.T) {
	local := providers.NewMockGenerator()
	r := New(nil, local)

	answer := r.Route(context.Background(), "?", false, false)

	if answer.RequestID == "" {
		t.Error("expected a request ID")
	}
	if answer.Provider != providers.MockName {
		t.Errorf("Provider = %q, want %q", answer.Provider, providers.MockName)
	}
	if answer.ExecutionTime <= 0 {
		t.Error("expected a positive execution time")
	}
}
