package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/campuslink/campuslink/models"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// memSessionStore is an in-memory repository.SessionStore for tests.
type memSessionStore struct {
	sessions map[string]models.ChatSession
	err      error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]models.ChatSession)}
}

func (m *memSessionStore) Get(ctx context.Context, id string) (models.ChatSession, error) {
	if m.err != nil {
		return models.ChatSession{}, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return models.ChatSession{}, models.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessionStore) Save(ctx context.Context, s models.ChatSession) error {
	if m.err != nil {
		return m.err
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessionStore) ListByUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSessionStore) Delete(ctx context.Context, id, userID string) error {
	delete(m.sessions, id)
	return nil
}

func newTestManager(store *memSessionStore) *Manager {
	m := NewManager(store, 0, log.New(io.Discard, "", 0))
	m.now = func() time.Time { return testNow }
	return m
}

func TestGetOrCreate_NewWhenNoID(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	s, err := m.GetOrCreate(context.Background(), "user-1", "")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || s.UserID != "user-1" || s.Title != DefaultTitle {
		t.Errorf("unexpected new session: %+v", s)
	}
}

func TestGetOrCreate_ReturnsOwnedSession(t *testing.T) {
	store := newMemSessionStore()
	store.sessions["sess-1"] = models.ChatSession{ID: "sess-1", UserID: "user-1", Title: "t"}
	m := newTestManager(store)

	s, err := m.GetOrCreate(context.Background(), "user-1", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "sess-1" {
		t.Errorf("expected existing session, got %s", s.ID)
	}
}

func TestGetOrCreate_OwnershipMismatchFallsBack(t *testing.T) {
	store := newMemSessionStore()
	store.sessions["sess-1"] = models.ChatSession{ID: "sess-1", UserID: "user-1"}
	m := newTestManager(store)

	s, err := m.GetOrCreate(context.Background(), "user-2", "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "sess-1" {
		t.Error("must never return another user's session")
	}
	if s.UserID != "user-2" {
		t.Errorf("fallback session owned by %s", s.UserID)
	}
}

func TestGetOrCreate_StaleIDFallsBack(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	s, err := m.GetOrCreate(context.Background(), "user-1", "gone")
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "gone" || s.UserID != "user-1" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestGetOrCreate_StorageErrorPropagates(t *testing.T) {
	store := newMemSessionStore()
	store.err = errors.New("redis down")
	m := newTestManager(store)
	if _, err := m.GetOrCreate(context.Background(), "user-1", "sess-1"); err == nil {
		t.Fatal("expected storage error")
	}
}

func TestWindowHistory(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	var session models.ChatSession
	for i := 0; i < 12; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		session.Messages = append(session.Messages, models.ChatMessage{
			Role:      role,
			Content:   string(rune('a' + i)),
			Timestamp: testNow.Add(time.Duration(i) * time.Minute),
		})
	}

	got := m.WindowHistory(session, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(got))
	}
	// Chronological order with the two most recent turns last.
	if got[0].Content != "c" || got[9].Content != "l" {
		t.Errorf("window bounds wrong: first %q last %q", got[0].Content, got[9].Content)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatal("window must preserve chronological order")
		}
	}
}

func TestWindowHistory_ShortSession(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	session := models.ChatSession{Messages: []models.ChatMessage{{Content: "only"}}}
	if got := m.WindowHistory(session, 10); len(got) != 1 {
		t.Errorf("expected 1 message, got %d", len(got))
	}
}

func TestAppendTurn(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	var session models.ChatSession
	m.AppendTurn(&session, models.RoleUser, "hello")
	if len(session.Messages) != 1 {
		t.Fatal("message not appended")
	}
	if session.Messages[0].Timestamp != testNow || session.LastActive != testNow {
		t.Error("timestamps not assigned")
	}
}

func TestMaybeSetTitle_Truncation(t *testing.T) {
	m := newTestManager(newMemSessionStore())

	long := strings.Repeat("q", 73)
	session := models.ChatSession{Messages: make([]models.ChatMessage, 2)}
	m.MaybeSetTitle(&session, long)
	if session.Title != strings.Repeat("q", 50)+"..." {
		t.Errorf("expected 50 chars plus ellipsis, got %q (%d)", session.Title, len(session.Title))
	}

	short := strings.Repeat("q", 30)
	session = models.ChatSession{Messages: make([]models.ChatMessage, 2)}
	m.MaybeSetTitle(&session, short)
	if session.Title != short {
		t.Errorf("short question must stay untruncated, got %q", session.Title)
	}
}

func TestMaybeSetTitle_OnlyFirstExchange(t *testing.T) {
	m := newTestManager(newMemSessionStore())
	session := models.ChatSession{Title: "existing", Messages: make([]models.ChatMessage, 4)}
	m.MaybeSetTitle(&session, "later question")
	if session.Title != "existing" {
		t.Errorf("title overwritten after first exchange: %q", session.Title)
	}
}

func TestRate(t *testing.T) {
	store := newMemSessionStore()
	store.sessions["sess-1"] = models.ChatSession{
		ID:     "sess-1",
		UserID: "user-1",
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "q"},
			{Role: models.RoleAssistant, Content: "a"},
		},
	}
	m := newTestManager(store)
	ctx := context.Background()

	if err := m.Rate(ctx, "user-1", "sess-1", 0, true); !errors.Is(err, models.ErrMessageOutOfRange) {
		t.Errorf("rating a user turn should be out of range, got %v", err)
	}
	if err := m.Rate(ctx, "user-1", "sess-1", 5, true); !errors.Is(err, models.ErrMessageOutOfRange) {
		t.Errorf("index past the end should be out of range, got %v", err)
	}
	if err := m.Rate(ctx, "user-1", "sess-1", -1, true); !errors.Is(err, models.ErrMessageOutOfRange) {
		t.Errorf("negative index should be out of range, got %v", err)
	}
	if err := m.Rate(ctx, "user-2", "sess-1", 1, true); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("cross-user rating should look like not-found, got %v", err)
	}

	if err := m.Rate(ctx, "user-1", "sess-1", 1, true); err != nil {
		t.Fatalf("valid rating failed: %v", err)
	}
	saved := store.sessions["sess-1"]
	if saved.Messages[1].IsAccurate == nil || !*saved.Messages[1].IsAccurate {
		t.Error("rating not persisted")
	}
	if saved.Messages[0].IsAccurate != nil {
		t.Error("rating leaked onto another message")
	}
}
