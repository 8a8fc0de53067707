package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinechat/backend/internal/model/chat"
	"github.com/cinechat/backend/internal/store"
	"github.com/cinechat/backend/internal/store/memory"
)

func TestMessagesKeepInsertionOrder(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	th, err := st.CreateThread(ctx, "u1", "Chat 1")
	if err != nil {
		t.Fatalf("CreateThread err: %v", err)
	}

	// Identical timestamps: insertion order must still hold.
	now := time.Now().UTC()
	for _, text := range []string{"first", "second", "third"} {
		m := &chat.Message{ThreadID: th.ID, Role: chat.RoleUser, Text: text, CreatedAt: now}
		if err := st.AppendMessage(ctx, m); err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	msgs, err := st.ListMessages(ctx, th.ID, 200)
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Text != "first" || msgs[2].Text != "third" {
		t.Fatalf("unexpected order: %+v", msgs)
	}
}

func TestCreateThreadDuplicateTitle(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	if _, err := st.CreateThread(ctx, "u1", "Chat 1"); err != nil {
		t.Fatalf("CreateThread err: %v", err)
	}
	if _, err := st.CreateThread(ctx, "u1", "Chat 1"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same title for another user is fine.
	if _, err := st.CreateThread(ctx, "u2", "Chat 1"); err != nil {
		t.Fatalf("CreateThread for other user err: %v", err)
	}
}

func TestAppendMessageUnknownThread(t *testing.T) {
	st := memory.New()

	err := st.AppendMessage(context.Background(), &chat.Message{ThreadID: "missing", Role: chat.RoleUser, Text: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTouchThreadReorders(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	first, _ := st.CreateThread(ctx, "u1", "Chat 1")
	second, _ := st.CreateThread(ctx, "u1", "Chat 2")

	if err := st.TouchThread(ctx, first.ID); err != nil {
		t.Fatalf("TouchThread err: %v", err)
	}

	threads, err := st.ListThreads(ctx, "u1")
	if err != nil {
		t.Fatalf("ListThreads err: %v", err)
	}
	if len(threads) != 2 || threads[0].ID != first.ID {
		t.Fatalf("touched thread must list first, got %+v", threads)
	}
	if threads[1].ID != second.ID {
		t.Fatalf("unexpected second thread %+v", threads[1])
	}
}
