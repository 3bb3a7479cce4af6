package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

// SystemPrompt primes the assistant with the store knowledge it answers from.
const SystemPrompt = `You are a helpful support agent for a small e-commerce store.
Store specific knowledge:
- Shipping: Worldwide shipping, 5–10 business days.
- Returns: 30-day return policy, unused items only.
- Support hours: Mon–Fri, 9am–6pm IST.`

// Every failure path of Reply terminates in one of these user-visible strings.
const (
	FallbackNotConfigured = "AI replies aren't configured yet. Set an API key to enable them."
	FallbackNoText        = "I couldn't generate a text response."
	FallbackBadKey        = "Configuration Error: Invalid API Key."
	FallbackOverloaded    = "I'm currently overloaded. Please try again in a moment."
	FallbackUnavailable   = "I'm having trouble connecting right now. Please try again."
)

// Generator turns a history window plus a new user message into assistant
// text. It never returns an error: provider failures degrade to fixed
// user-visible strings so the conversation thread always receives a bot turn.
type Generator struct {
	completer Completer
	system    string
	maxTokens int
	logger    *slog.Logger
}

// NewGenerator builds a Generator. A nil completer means no provider
// credential was configured; Reply then short-circuits without network I/O.
func NewGenerator(completer Completer, system string, maxTokens int, logger *slog.Logger) *Generator {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Generator{
		completer: completer,
		system:    system,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Reply appends the user message to the history and asks the provider for a
// completion.
func (g *Generator) Reply(ctx context.Context, history []chat.Turn, userMessage string) string {
	if g.completer == nil {
		return FallbackNotConfigured
	}

	turns := make([]chat.Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, chat.Turn{Role: chat.RoleUser, Content: userMessage})

	text, err := g.completer.Complete(ctx, g.system, turns, g.maxTokens)
	if err == nil {
		return text
	}

	g.logger.Warn("completion failed", "error", err)

	if errors.Is(err, ErrNoTextContent) {
		return FallbackNoText
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		switch perr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return FallbackBadKey
		case http.StatusTooManyRequests, 529:
			return FallbackOverloaded
		}
	}
	return FallbackUnavailable
}
