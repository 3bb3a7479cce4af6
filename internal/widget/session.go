package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

// ErrSendFailedText is shown in place of a reply when the send itself fails;
// the attempt is never silently dropped.
const ErrSendFailedText = "Something went wrong. Please try again."

type State int

const (
	StateClosed State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

var (
	ErrNotReady     = errors.New("session is not ready")
	ErrSendInFlight = errors.New("a send is already in flight")
)

// Entry is one displayed message. A pending entry is an optimistic message
// awaiting server confirmation; it carries a temporary LocalID and is
// reconciled by replacement, never merged, when the response arrives.
// Locally synthesized error entries stay in the transcript permanently and
// are not pending.
type Entry struct {
	LocalID uuid.UUID
	Pending bool
	Message chat.Message
}

// Session maintains one canonical conversation per widget instance across
// open/close cycles, resuming the locally persisted conversation id when one
// exists.
type Session struct {
	client    *Client
	statePath string
	logger    *slog.Logger

	mu             sync.Mutex
	state          State
	conversationID int64
	entries        []Entry
	inFlight       bool
}

func NewSession(client *Client, statePath string, logger *slog.Logger) *Session {
	if statePath == "" {
		statePath = expandHome(defaultStatePath)
	}
	return &Session{
		client:    client,
		statePath: statePath,
		logger:    logger,
		state:     StateClosed,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ConversationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Entries returns a snapshot of the displayed message sequence.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Open transitions Closed → Initializing → Ready. A persisted conversation
// id is resumed with its history; an absent id or a failed fetch falls back
// to a fresh conversation whose id is persisted for the next open.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateClosed {
		s.mu.Unlock()
		return fmt.Errorf("open from state %s", s.state)
	}
	s.state = StateInitializing
	s.mu.Unlock()

	st, err := loadState(s.statePath)
	if err != nil {
		s.logger.Warn("failed to load widget state", "error", err)
	}

	if st.ConversationID != 0 {
		msgs, err := s.client.Messages(ctx, st.ConversationID)
		if err == nil {
			entries := make([]Entry, len(msgs))
			for i, m := range msgs {
				entries[i] = Entry{Message: m}
			}
			s.mu.Lock()
			s.conversationID = st.ConversationID
			s.entries = entries
			s.state = StateReady
			s.mu.Unlock()
			s.logger.Info("conversation resumed", "conversation_id", st.ConversationID, "messages", len(msgs))
			return nil
		}
		s.logger.Warn("failed to resume conversation, starting fresh", "conversation_id", st.ConversationID, "error", err)
	}

	conv, err := s.client.CreateConversation(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		return fmt.Errorf("start conversation: %w", err)
	}
	if err := saveState(s.statePath, persistedState{ConversationID: conv.ID}); err != nil {
		s.logger.Warn("failed to persist conversation id", "error", err)
	}

	s.mu.Lock()
	s.conversationID = conv.ID
	s.entries = nil
	s.state = StateReady
	s.mu.Unlock()
	s.logger.Info("conversation started", "conversation_id", conv.ID)
	return nil
}

// Send submits one user message. The user text is shown optimistically
// before the network call resolves; at most one send may be in flight.
// The returned entry is the assistant turn — server-confirmed on success,
// locally synthesized with an error string on failure.
func (s *Session) Send(ctx context.Context, text string) (Entry, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return Entry{}, ErrNotReady
	}
	if s.inFlight {
		s.mu.Unlock()
		return Entry{}, ErrSendInFlight
	}
	s.inFlight = true

	pending := Entry{
		LocalID: uuid.New(),
		Pending: true,
		Message: chat.Message{
			ConversationID: s.conversationID,
			Sender:         chat.SenderUser,
			Text:           text,
			CreatedAt:      time.Now().UTC(),
		},
	}
	s.entries = append(s.entries, pending)
	conversationID := s.conversationID
	s.mu.Unlock()

	result, err := s.client.Send(ctx, conversationID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.logger.Warn("send failed", "conversation_id", conversationID, "error", err)
		fallback := Entry{
			LocalID: uuid.New(),
			Message: chat.Message{
				ConversationID: conversationID,
				Sender:         chat.SenderAI,
				Text:           ErrSendFailedText,
				CreatedAt:      time.Now().UTC(),
			},
		}
		s.entries = append(s.entries, fallback)
		return fallback, err
	}

	// Replace the optimistic entry with the confirmed message.
	for i := range s.entries {
		if s.entries[i].LocalID == pending.LocalID {
			s.entries[i] = Entry{Message: result.UserMessage}
			break
		}
	}
	confirmed := Entry{Message: result.AIMessage}
	s.entries = append(s.entries, confirmed)
	return confirmed, nil
}

// Close returns the session to Closed. The persisted conversation id
// survives, so the next Open resumes the same conversation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
	s.entries = nil
	s.conversationID = 0
	s.inFlight = false
}
