package chat

import "context"

// Store is the durable, strictly ordered append log of messages keyed by
// conversation. Implementations must assign message ids atomically with
// respect to concurrent appends: ids are strictly increasing per store,
// never reused, with no gap-free guarantee.
type Store interface {
	CreateConversation(ctx context.Context) (Conversation, error)

	ConversationExists(ctx context.Context, id int64) (bool, error)

	// AppendMessage persists a new message with the next id and the current
	// timestamp. Returns ErrConversationNotFound for an unknown conversation.
	AppendMessage(ctx context.Context, conversationID int64, sender Sender, text string) (Message, error)

	// ListMessages returns every message of the conversation in ascending id
	// order. An empty conversation yields an empty slice, not an error.
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)

	// ListRecentBefore returns up to limit messages with id < beforeID,
	// most recent first.
	ListRecentBefore(ctx context.Context, conversationID, beforeID int64, limit int) ([]Message, error)
}
