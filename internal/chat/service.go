package chat

import (
	"context"
	"fmt"
	"log/slog"
)

// ReplyGenerator produces assistant text for a history window plus a new user
// message. Implementations never fail past their own boundary: every provider
// failure is converted into displayable fallback text.
type ReplyGenerator interface {
	Reply(ctx context.Context, history []Turn, userMessage string) string
}

// Announcer receives fire-and-forget notifications about persisted state.
// A nil Announcer on the Service disables announcements entirely.
type Announcer interface {
	ConversationCreated(c Conversation)
	MessageStored(m Message)
}

// Service sequences a chat turn: persist the user message, window the
// history, obtain a reply, persist it, return both. It only ever appends to
// the store, never mutates or reorders.
type Service struct {
	store      Store
	generator  ReplyGenerator
	announcer  Announcer
	windowSize int
	logger     *slog.Logger
}

func NewService(store Store, generator ReplyGenerator, announcer Announcer, windowSize int, logger *slog.Logger) *Service {
	if windowSize <= 0 {
		windowSize = 10
	}
	return &Service{
		store:      store,
		generator:  generator,
		announcer:  announcer,
		windowSize: windowSize,
		logger:     logger,
	}
}

// TurnResult is the outcome of one processed chat turn. ConversationID echoes
// the conversation used, including one minted on demand, so a stateless
// client can persist it.
type TurnResult struct {
	UserMessage    Message `json:"userMessage"`
	AIMessage      Message `json:"aiMessage"`
	ConversationID int64   `json:"conversationId"`
}

// CreateConversation allocates a fresh conversation.
func (s *Service) CreateConversation(ctx context.Context) (Conversation, error) {
	conv, err := s.store.CreateConversation(ctx)
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	s.logger.Info("conversation created", "conversation_id", conv.ID)
	if s.announcer != nil {
		s.announcer.ConversationCreated(conv)
	}
	return conv, nil
}

// History returns the full ordered message log of a conversation, or
// ErrConversationNotFound for an unknown id.
func (s *Service) History(ctx context.Context, conversationID int64) ([]Message, error) {
	exists, err := s.store.ConversationExists(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("check conversation: %w", err)
	}
	if !exists {
		return nil, ErrConversationNotFound
	}
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// ProcessMessage runs one chat turn. A conversationID of zero mints a new
// conversation first. A store failure while persisting the user message
// aborts the turn with no reply attempted; a store failure while persisting
// the reply surfaces an error but leaves the user message in place — there
// is no compensating rollback.
func (s *Service) ProcessMessage(ctx context.Context, conversationID int64, text string) (TurnResult, error) {
	if conversationID == 0 {
		conv, err := s.CreateConversation(ctx)
		if err != nil {
			return TurnResult{}, err
		}
		conversationID = conv.ID
	}

	userMsg, err := s.store.AppendMessage(ctx, conversationID, SenderUser, text)
	if err != nil {
		return TurnResult{}, fmt.Errorf("append user message: %w", err)
	}
	if s.announcer != nil {
		s.announcer.MessageStored(userMsg)
	}

	history, err := BuildContext(ctx, s.store, conversationID, userMsg.ID, s.windowSize)
	if err != nil {
		return TurnResult{}, fmt.Errorf("build context: %w", err)
	}

	replyText := s.generator.Reply(ctx, history, text)

	aiMsg, err := s.store.AppendMessage(ctx, conversationID, SenderAI, replyText)
	if err != nil {
		return TurnResult{}, fmt.Errorf("append ai message: %w", err)
	}
	if s.announcer != nil {
		s.announcer.MessageStored(aiMsg)
	}

	s.logger.Info("chat turn processed",
		"conversation_id", conversationID,
		"user_message_id", userMsg.ID,
		"ai_message_id", aiMsg.ID,
		"history_len", len(history),
	)

	return TurnResult{
		UserMessage:    userMsg,
		AIMessage:      aiMsg,
		ConversationID: conversationID,
	}, nil
}
