package chat

import (
	"context"
	"fmt"
)

// BuildContext selects the last windowSize messages of a conversation with
// id strictly below beforeID and reshapes them into the role-tagged sequence
// the completion provider expects, restored to chronological order (oldest
// first). Fewer prior messages than windowSize returns all of them; none
// returns an empty slice.
func BuildContext(ctx context.Context, store Store, conversationID, beforeID int64, windowSize int) ([]Turn, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, windowSize)
	}

	recent, err := store.ListRecentBefore(ctx, conversationID, beforeID, windowSize)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}

	// recent is newest-first; walk it backwards to get chronological order.
	turns := make([]Turn, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		turns = append(turns, Turn{
			Role:    RoleFor(recent[i].Sender),
			Content: recent[i].Text,
		})
	}
	return turns, nil
}
