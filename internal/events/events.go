// Package events publishes conversation lifecycle events over NATS. The
// announcer is optional: the server runs without it when no NATS URL is
// configured, and publishing is fire-and-forget — a failed publish is logged
// and never surfaced to the request that triggered it.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

const (
	SubjectConversationCreated = "supportchat.conversation.created"
	SubjectMessageStored       = "supportchat.message.stored"
)

type conversationCreatedEvent struct {
	ConversationID int64     `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type messageStoredEvent struct {
	EventID        string    `json:"eventId"`
	ConversationID int64     `json:"conversationId"`
	MessageID      int64     `json:"messageId"`
	Sender         string    `json:"sender"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Announcer struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewAnnouncer(url, token string, logger *slog.Logger) (*Announcer, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Announcer{conn: nc, logger: logger}, nil
}

func (a *Announcer) Close() {
	a.conn.Close()
}

func (a *Announcer) ConversationCreated(c chat.Conversation) {
	a.publish(SubjectConversationCreated, conversationCreatedEvent{
		ConversationID: c.ID,
		CreatedAt:      c.CreatedAt,
	})
}

func (a *Announcer) MessageStored(m chat.Message) {
	a.publish(SubjectMessageStored, messageStoredEvent{
		EventID:        uuid.New().String(),
		ConversationID: m.ConversationID,
		MessageID:      m.ID,
		Sender:         string(m.Sender),
		CreatedAt:      m.CreatedAt,
	})
}

func (a *Announcer) publish(subject string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		a.logger.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := a.conn.Publish(subject, payload); err != nil {
		a.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
