package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx)
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	if _, err := s.AppendMessage(ctx, conv.ID, chat.SenderUser, "hello"); err != nil {
		t.Fatalf("append user failed: %v", err)
	}
	if _, err := s.AppendMessage(ctx, conv.ID, chat.SenderAI, "hi there"); err != nil {
		t.Fatalf("append ai failed: %v", err)
	}

	msgs, err := s.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != chat.SenderUser || msgs[1].Sender != chat.SenderAI {
		t.Errorf("unexpected sender order: %v, %v", msgs[0].Sender, msgs[1].Sender)
	}
	if msgs[0].ID >= msgs[1].ID {
		t.Errorf("ids not increasing: %d then %d", msgs[0].ID, msgs[1].ID)
	}
}

func TestListMessages_EmptyConversation(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx)
	msgs, err := s.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected empty slice, got %d messages", len(msgs))
	}
}

func TestListMessages_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx)
	s.AppendMessage(ctx, conv.ID, chat.SenderUser, "one")
	s.AppendMessage(ctx, conv.ID, chat.SenderAI, "two")

	first, _ := s.ListMessages(ctx, conv.ID)
	second, _ := s.ListMessages(ctx, conv.ID)
	if len(first) != len(second) {
		t.Fatalf("read results differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("read results differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestAppendMessage_UnknownConversation(t *testing.T) {
	s := New()

	_, err := s.AppendMessage(context.Background(), 999, chat.SenderUser, "hello")
	if !errors.Is(err, chat.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationExists(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx)

	ok, _ := s.ConversationExists(ctx, conv.ID)
	if !ok {
		t.Error("expected conversation to exist")
	}
	ok, _ = s.ConversationExists(ctx, conv.ID+1)
	if ok {
		t.Error("expected conversation to not exist")
	}
}

func TestConcurrentAppends_DistinctIncreasingIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AppendMessage(ctx, conv.ID, chat.SenderUser, "ping"); err != nil {
				t.Errorf("append failed: %v", err)
			}
		}()
	}
	wg.Wait()

	msgs, err := s.ListMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("expected %d messages, got %d", n, len(msgs))
	}

	seen := make(map[int64]bool, n)
	for i, m := range msgs {
		if seen[m.ID] {
			t.Fatalf("duplicate id %d", m.ID)
		}
		seen[m.ID] = true
		if i > 0 && msgs[i-1].ID >= m.ID {
			t.Fatalf("ids not strictly increasing at index %d: %d then %d", i, msgs[i-1].ID, m.ID)
		}
	}
}

func TestListRecentBefore(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx)
	var ids []int64
	for i := 0; i < 5; i++ {
		m, _ := s.AppendMessage(ctx, conv.ID, chat.SenderUser, "msg")
		ids = append(ids, m.ID)
	}

	recent, err := s.ListRecentBefore(ctx, conv.ID, ids[4], 2)
	if err != nil {
		t.Fatalf("ListRecentBefore failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(recent))
	}
	if recent[0].ID != ids[3] || recent[1].ID != ids[2] {
		t.Errorf("expected newest-first %d, %d; got %d, %d", ids[3], ids[2], recent[0].ID, recent[1].ID)
	}
	for _, m := range recent {
		if m.ID >= ids[4] {
			t.Errorf("message %d not strictly before cutoff %d", m.ID, ids[4])
		}
	}
}
