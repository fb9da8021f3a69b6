package redis_repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/campuslink/campuslink/models"
)

func setupStore(t *testing.T) *sessionStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewSessionStore(client, 0)
}

func sampleSession(id, userID string) models.ChatSession {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	return models.ChatSession{
		ID:     id,
		UserID: userID,
		Title:  "New conversation",
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "hello", Timestamp: now},
		},
		LastActive: now,
		CreatedAt:  now,
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	session := sampleSession("sess-1", "user-1")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "user-1" || got.Title != "New conversation" || len(got.Messages) != 1 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := setupStore(t)
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_ListByUser(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	a := sampleSession("sess-a", "user-1")
	b := sampleSession("sess-b", "user-1")
	b.LastActive = a.LastActive.Add(time.Hour)
	other := sampleSession("sess-c", "user-2")
	for _, s := range []models.ChatSession{a, b, other} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
	if got[0].ID != "sess-b" || got[1].ID != "sess-a" {
		t.Errorf("expected most recently active first, got %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSessionStore_DeleteOwnership(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleSession("sess-1", "user-1")); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, "sess-1", "user-2"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("cross-user delete should fail as not-found, got %v", err)
	}
	if err := store.Delete(ctx, "sess-1", "user-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Error("session should be gone after delete")
	}

	got, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("user index should be empty, got %d", len(got))
	}
}
