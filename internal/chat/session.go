package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/repository"
)

// DefaultTitle names a session before its first exchange.
const DefaultTitle = "New conversation"

// DefaultHistoryWindow is how many recent messages are replayed to the model.
const DefaultHistoryWindow = 10

// titleLimit is the maximum title length in runes before truncation.
const titleLimit = 50

// Manager owns conversation session state: lookup with ownership fallback,
// history windowing, appends and ratings.
type Manager struct {
	store  repository.SessionStore
	window int
	logger *log.Logger
	now    func() time.Time
}

// NewManager builds a Manager. window <= 0 selects DefaultHistoryWindow.
func NewManager(store repository.SessionStore, window int, logger *log.Logger) *Manager {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	}
	return &Manager{store: store, window: window, logger: logger, now: time.Now}
}

// GetOrCreate resolves sessionID for userID. A missing id, an unknown id or an
// ownership mismatch all fall back to a fresh session rather than an error, so
// a chat client retrying with a stale id keeps working. Only storage failures
// propagate.
func (m *Manager) GetOrCreate(ctx context.Context, userID, sessionID string) (models.ChatSession, error) {
	if sessionID != "" {
		session, err := m.store.Get(ctx, sessionID)
		switch {
		case err == nil && session.UserID == userID:
			return session, nil
		case err == nil:
			m.logger.Printf("session %s belongs to another user, creating a new one", sessionID)
		case errors.Is(err, models.ErrSessionNotFound):
			// stale id; fall through to creation
		default:
			return models.ChatSession{}, err
		}
	}

	now := m.now()
	return models.ChatSession{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      DefaultTitle,
		LastActive: now,
		CreatedAt:  now,
	}, nil
}

// WindowHistory returns the most recent maxTurns messages in chronological
// order. maxTurns <= 0 uses the manager's configured window.
func (m *Manager) WindowHistory(session models.ChatSession, maxTurns int) []models.ChatMessage {
	if maxTurns <= 0 {
		maxTurns = m.window
	}
	if len(session.Messages) <= maxTurns {
		return session.Messages
	}
	return session.Messages[len(session.Messages)-maxTurns:]
}

// AppendTurn appends one message with a server-assigned timestamp and bumps
// LastActive.
func (m *Manager) AppendTurn(session *models.ChatSession, role, content string) {
	now := m.now()
	session.Messages = append(session.Messages, models.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	session.LastActive = now
}

// MaybeSetTitle derives the session title from the first question. Applies
// only while the session holds its first exchange (at most two messages).
func (m *Manager) MaybeSetTitle(session *models.ChatSession, question string) {
	if len(session.Messages) > 2 {
		return
	}
	runes := []rune(question)
	if len(runes) > titleLimit {
		session.Title = string(runes[:titleLimit]) + "..."
		return
	}
	session.Title = question
}

// Rate sets the accuracy flag on one assistant message of the user's session.
// An index outside the message list, or one addressing a non-assistant turn,
// fails with ErrMessageOutOfRange.
func (m *Manager) Rate(ctx context.Context, userID, sessionID string, messageIndex int, isAccurate bool) error {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return models.ErrSessionNotFound
	}
	if messageIndex < 0 || messageIndex >= len(session.Messages) {
		return models.ErrMessageOutOfRange
	}
	if session.Messages[messageIndex].Role != models.RoleAssistant {
		return models.ErrMessageOutOfRange
	}

	session.Messages[messageIndex].IsAccurate = &isAccurate
	return m.store.Save(ctx, session)
}

// Save persists the session.
func (m *Manager) Save(ctx context.Context, session models.ChatSession) error {
	return m.store.Save(ctx, session)
}
