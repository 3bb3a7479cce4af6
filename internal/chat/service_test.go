package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
	"github.com/shivamsharmxa/AI-support-agent/internal/llm"
	"github.com/shivamsharmxa/AI-support-agent/internal/store/memory"
)

// recordingGenerator captures the history it was handed and echoes fixed text.
type recordingGenerator struct {
	reply      string
	gotHistory []chat.Turn
	gotMessage string
}

func (g *recordingGenerator) Reply(_ context.Context, history []chat.Turn, userMessage string) string {
	g.gotHistory = history
	g.gotMessage = userMessage
	return g.reply
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessMessage_PersistsBothTurns(t *testing.T) {
	store := memory.New()
	gen := &recordingGenerator{reply: "happy to help"}
	svc := chat.NewService(store, gen, nil, 10, discardLogger())
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx)
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	result, err := svc.ProcessMessage(ctx, conv.ID, "Hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}

	if result.UserMessage.Text != "Hello" || result.UserMessage.Sender != chat.SenderUser {
		t.Errorf("unexpected user message: %+v", result.UserMessage)
	}
	if result.AIMessage.Sender != chat.SenderAI || result.AIMessage.Text == "" {
		t.Errorf("unexpected ai message: %+v", result.AIMessage)
	}
	if result.AIMessage.ID <= result.UserMessage.ID {
		t.Errorf("ai message id %d not after user message id %d", result.AIMessage.ID, result.UserMessage.ID)
	}
	if result.ConversationID != conv.ID {
		t.Errorf("expected conversation id %d, got %d", conv.ID, result.ConversationID)
	}

	msgs, err := svc.History(ctx, conv.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", len(msgs))
	}
}

func TestProcessMessage_AutoCreatesConversation(t *testing.T) {
	store := memory.New()
	svc := chat.NewService(store, &recordingGenerator{reply: "hi"}, nil, 10, discardLogger())
	ctx := context.Background()

	result, err := svc.ProcessMessage(ctx, 0, "Hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if result.ConversationID == 0 {
		t.Fatal("expected a newly minted conversation id")
	}

	msgs, err := svc.History(ctx, result.ConversationID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected exactly the two messages from that turn, got %d", len(msgs))
	}
	if msgs[0].ID != result.UserMessage.ID || msgs[1].ID != result.AIMessage.ID {
		t.Errorf("history does not match returned messages: %+v", msgs)
	}
}

func TestProcessMessage_UnknownConversation(t *testing.T) {
	store := memory.New()
	svc := chat.NewService(store, &recordingGenerator{reply: "hi"}, nil, 10, discardLogger())

	_, err := svc.ProcessMessage(context.Background(), 42, "Hello")
	if !errors.Is(err, chat.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestProcessMessage_WindowsHistoryToTen(t *testing.T) {
	store := memory.New()
	gen := &recordingGenerator{reply: "noted"}
	svc := chat.NewService(store, gen, nil, 10, discardLogger())
	ctx := context.Background()

	conv, _ := svc.CreateConversation(ctx)

	// Ten prior messages appended directly to the store.
	var prior []chat.Message
	for i := 0; i < 10; i++ {
		sender := chat.SenderUser
		if i%2 == 1 {
			sender = chat.SenderAI
		}
		m, err := store.AppendMessage(ctx, conv.ID, sender, "prior")
		if err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
		prior = append(prior, m)
	}

	if _, err := svc.ProcessMessage(ctx, conv.ID, "the eleventh"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}

	if len(gen.gotHistory) != 10 {
		t.Fatalf("expected exactly 10 history turns, got %d", len(gen.gotHistory))
	}
	for i, turn := range gen.gotHistory {
		want := chat.RoleFor(prior[i].Sender)
		if turn.Role != want {
			t.Errorf("turn %d: expected role %q, got %q", i, want, turn.Role)
		}
	}
	if gen.gotMessage != "the eleventh" {
		t.Errorf("expected original text forwarded, got %q", gen.gotMessage)
	}
}

func TestProcessMessage_ProviderAuthFailureStillPersists(t *testing.T) {
	store := memory.New()
	failing := llm.NewGenerator(stubCompleter{err: &llm.ProviderError{Status: http.StatusUnauthorized}}, "", 300, discardLogger())
	svc := chat.NewService(store, failing, nil, 10, discardLogger())
	ctx := context.Background()

	conv, _ := svc.CreateConversation(ctx)
	result, err := svc.ProcessMessage(ctx, conv.ID, "Hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if result.AIMessage.Text != llm.FallbackBadKey {
		t.Errorf("expected configuration-error fallback, got %q", result.AIMessage.Text)
	}

	msgs, _ := svc.History(ctx, conv.ID)
	if len(msgs) != 2 || msgs[0].Text != "Hello" {
		t.Errorf("user message not persisted alongside fallback: %+v", msgs)
	}
}

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string, []chat.Turn, int) (string, error) {
	return s.text, s.err
}

func TestHistory_UnknownConversation(t *testing.T) {
	store := memory.New()
	svc := chat.NewService(store, &recordingGenerator{}, nil, 10, discardLogger())

	_, err := svc.History(context.Background(), 7)
	if !errors.Is(err, chat.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}
