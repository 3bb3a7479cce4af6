// Package postgres is the pgx-backed chat.Store used in production.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

// foreign_key_violation
const pgFKViolation = "23503"

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the conversations and messages tables if missing.
// bigserial ids give the strictly-increasing assignment the windower relies
// on; the (conversation_id, id) index serves both the ascending listing and
// the "most recent before id N" window query.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS messages (
	id bigserial PRIMARY KEY,
	conversation_id bigint NOT NULL REFERENCES conversations(id),
	sender text NOT NULL CHECK (sender IN ('user', 'ai')),
	text text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages (conversation_id, id);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) CreateConversation(ctx context.Context) (chat.Conversation, error) {
	var conv chat.Conversation
	err := s.pool.QueryRow(ctx,
		`INSERT INTO conversations DEFAULT VALUES RETURNING id, created_at`,
	).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

func (s *Store) ConversationExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM conversations WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check conversation: %w", err)
	}
	return exists, nil
}

func (s *Store) AppendMessage(ctx context.Context, conversationID int64, sender chat.Sender, text string) (chat.Message, error) {
	msg := chat.Message{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, sender, text)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		conversationID, string(sender), text,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return chat.Message{}, chat.ErrConversationNotFound
		}
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY id ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (s *Store) ListRecentBefore(ctx context.Context, conversationID, beforeID int64, limit int) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, sender, text, created_at
		 FROM messages WHERE conversation_id = $1 AND id < $2
		 ORDER BY id DESC LIMIT $3`,
		conversationID, beforeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]chat.Message, error) {
	msgs := []chat.Message{}
	for rows.Next() {
		var m chat.Message
		var sender string
		if err := rows.Scan(&m.ID, &m.ConversationID, &sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = chat.Sender(sender)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
