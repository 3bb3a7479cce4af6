// Package llm wraps the external completion providers behind a single
// Completer contract and converts every provider failure into displayable
// fallback text via the Generator.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

// Completer submits a system prompt plus an ordered role-tagged context to a
// completion provider and returns the first text block of its response.
type Completer interface {
	Complete(ctx context.Context, system string, turns []chat.Turn, maxTokens int) (string, error)
}

// ErrNoTextContent is returned when a provider call succeeds but the
// response carries no text-typed content block.
var ErrNoTextContent = errors.New("response contains no text content")

// ProviderError is a failure reported by the provider itself, carrying the
// HTTP status so callers can distinguish credential problems from overload.
type ProviderError struct {
	Status  int
	Type    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s — %s", e.Status, e.Type, e.Message)
}
