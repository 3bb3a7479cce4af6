package llm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

type fakeCompleter struct {
	text string
	err  error

	gotSystem string
	gotTurns  []chat.Turn
}

func (f *fakeCompleter) Complete(_ context.Context, system string, turns []chat.Turn, _ int) (string, error) {
	f.gotSystem = system
	f.gotTurns = turns
	return f.text, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReply_AppendsUserTurn(t *testing.T) {
	fake := &fakeCompleter{text: "sure, happy to help"}
	g := NewGenerator(fake, SystemPrompt, 300, discardLogger())

	history := []chat.Turn{
		{Role: "user", Content: "where is my order?"},
		{Role: "assistant", Content: "let me check"},
	}
	got := g.Reply(context.Background(), history, "any update?")
	if got != "sure, happy to help" {
		t.Errorf("expected completion text, got %q", got)
	}
	if fake.gotSystem != SystemPrompt {
		t.Errorf("system prompt not forwarded")
	}
	if len(fake.gotTurns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(fake.gotTurns))
	}
	last := fake.gotTurns[2]
	if last.Role != chat.RoleUser || last.Content != "any update?" {
		t.Errorf("expected trailing user turn, got %+v", last)
	}
}

func TestReply_NotConfigured(t *testing.T) {
	g := NewGenerator(nil, SystemPrompt, 300, discardLogger())

	got := g.Reply(context.Background(), nil, "hello")
	if got != FallbackNotConfigured {
		t.Errorf("expected not-configured fallback, got %q", got)
	}
}

func TestReply_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"auth", &ProviderError{Status: http.StatusUnauthorized}, FallbackBadKey},
		{"forbidden", &ProviderError{Status: http.StatusForbidden}, FallbackBadKey},
		{"rate limited", &ProviderError{Status: http.StatusTooManyRequests}, FallbackOverloaded},
		{"overloaded", &ProviderError{Status: 529}, FallbackOverloaded},
		{"server error", &ProviderError{Status: http.StatusInternalServerError}, FallbackUnavailable},
		{"no text", ErrNoTextContent, FallbackNoText},
		{"network", context.DeadlineExceeded, FallbackUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGenerator(&fakeCompleter{err: tc.err}, "", 300, discardLogger())
			got := g.Reply(context.Background(), nil, "hello")
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
