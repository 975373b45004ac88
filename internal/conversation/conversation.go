// Package conversation keeps the chat history for one session. The log is
// append-only: regeneration adds a fresh answer rather than replacing the old
// one, so every poem the session produced stays visible.
package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the conversation log.
type Turn struct {
	Role Role
	Text string
}

// Answerer produces an answer for a question. It is the seam between the
// conversation log and the routing layer.
type Answerer func(ctx context.Context, question string) string

// Log is a thread-safe append-only conversation history.
type Log struct {
	mu        sync.Mutex
	sessionID string
	turns     []Turn
}

// NewLog creates an empty conversation log with a fresh session ID.
func NewLog() *Log {
	return &Log{sessionID: uuid.New().String()}
}

// SessionID returns the log's session identifier.
func (l *Log) SessionID() string {
	return l.sessionID
}

// Ask records the question and the generated answer as two new turns.
// A blank question is a no-op and returns the empty string.
func (l *Log) Ask(ctx context.Context, question string, answer Answerer) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return ""
	}

	text := answer(ctx, question)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleUser, Text: question})
	l.turns = append(l.turns, Turn{Role: RoleAssistant, Text: text})
	return text
}

// Regenerate re-answers the most recent question and appends exactly one new
// assistant turn. With no prior question it is a no-op and returns the empty
// string.
func (l *Log) Regenerate(ctx context.Context, answer Answerer) string {
	question := l.LastQuestion()
	if question == "" {
		return ""
	}

	text := answer(ctx, question)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, Turn{Role: RoleAssistant, Text: text})
	return text
}

// LastQuestion returns the text of the most recent user turn, or the empty
// string when no question has been asked yet.
func (l *Log) LastQuestion() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.turns) - 1; i >= 0; i-- {
		if l.turns[i].Role == RoleUser {
			return l.turns[i].Text
		}
	}
	return ""
}

// Turns returns a snapshot copy of the log.
func (l *Log) Turns() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns recorded so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
