// Package memory holds an in-process chat.Store used by tests and by the
// SUPPORTCHAT_DB=memory dev mode. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

type Store struct {
	mu            sync.Mutex
	nextConvID    int64
	nextMessageID int64
	conversations map[int64]chat.Conversation
	messages      map[int64][]chat.Message // keyed by conversation id, append order
}

func New() *Store {
	return &Store{
		nextConvID:    1,
		nextMessageID: 1,
		conversations: make(map[int64]chat.Conversation),
		messages:      make(map[int64][]chat.Message),
	}
}

func (s *Store) CreateConversation(_ context.Context) (chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := chat.Conversation{
		ID:        s.nextConvID,
		CreatedAt: time.Now().UTC(),
	}
	s.nextConvID++
	s.conversations[conv.ID] = conv
	return conv, nil
}

func (s *Store) ConversationExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.conversations[id]
	return ok, nil
}

func (s *Store) AppendMessage(_ context.Context, conversationID int64, sender chat.Sender, text string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return chat.Message{}, chat.ErrConversationNotFound
	}

	msg := chat.Message{
		ID:             s.nextMessageID,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	s.nextMessageID++
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return msg, nil
}

func (s *Store) ListMessages(_ context.Context, conversationID int64) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[conversationID]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) ListRecentBefore(_ context.Context, conversationID, beforeID int64, limit int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[conversationID]
	out := make([]chat.Message, 0, limit)
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if msgs[i].ID < beforeID {
			out = append(out, msgs[i])
		}
	}
	return out, nil
}
