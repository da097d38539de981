package history

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "weather chat", "gemini-2.5-flash")
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("empty session ID")
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "weather chat" || got.Model != "gemini-2.5-flash" {
		t.Errorf("got %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAppendAndMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, "t", "m")
	if err != nil {
		t.Fatal(err)
	}

	turns := []Message{
		{Role: "user", Text: "hi", Timestamp: 100},
		{Role: "model", Text: "hello", Timestamp: 200},
		{Role: "user", Text: "bye", Timestamp: 300},
	}
	for _, msg := range turns {
		if err := store.Append(ctx, sess.ID, msg); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Messages(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, msg := range got {
		if msg.Text != turns[i].Text {
			t.Errorf("message %d = %q, want %q", i, msg.Text, turns[i].Text)
		}
	}

	updated, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.UpdatedAt != 300 {
		t.Errorf("UpdatedAt = %d, want 300", updated.UpdatedAt)
	}
}

func TestAppendToMissingSession(t *testing.T) {
	store := newTestStore(t)
	err := store.Append(context.Background(), "nope", Message{Role: "user", Text: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "a", "m")
	b, _ := store.Create(ctx, "b", "m")

	// Touch a after b so it becomes the most recent.
	if err := store.Append(ctx, a.ID, Message{Role: "user", Text: "x"}); err != nil {
		t.Fatal(err)
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != a.ID {
		t.Errorf("most recent = %s, want %s", sessions[0].ID, a.ID)
	}
	if sessions[1].ID != b.ID {
		t.Errorf("second = %s, want %s", sessions[1].ID, b.ID)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, _ := store.Create(ctx, "t", "m")
	if err := store.Append(ctx, sess.ID, Message{Role: "user", Text: "x"}); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("session still present: %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
}
