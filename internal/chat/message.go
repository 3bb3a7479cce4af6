package chat

import (
	"errors"
	"time"
)

// Sender identifies which party authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// LLM role vocabulary. Every sender maps onto exactly one of these.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidWindow        = errors.New("window size must be positive")
)

// Conversation is an identity-only thread of messages. Created once, never
// deleted; all state lives in its messages.
type Conversation struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one immutable turn in a conversation. IDs are assigned in
// creation order and never reused, so id order equals chronological order
// within a conversation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Turn is a single role-tagged entry in the context sent to the completion
// provider.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RoleFor maps a stored sender onto the provider's two-party role vocabulary.
// The mapping is total: anything that is not the user speaks as the assistant.
func RoleFor(s Sender) string {
	if s == SenderUser {
		return RoleUser
	}
	return RoleAssistant
}
