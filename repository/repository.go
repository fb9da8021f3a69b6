package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/models"
	"github.com/campuslink/campuslink/repository/redis_repository"
)

// SessionStore defines the interface for chat session storage. Get exposes the
// owning user id so callers can enforce ownership.
type SessionStore interface {
	Get(ctx context.Context, id string) (models.ChatSession, error)
	Save(ctx context.Context, session models.ChatSession) error
	ListByUser(ctx context.Context, userID string) ([]models.ChatSession, error)
	Delete(ctx context.Context, id, userID string) error
}

type StoreType string

const (
	StoreTypeRedis StoreType = "redis"
)

// RedisOptions carries connection settings for the redis-backed store.
type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
	Timeout  time.Duration
	// SessionTTL bounds how long an idle session survives; 0 keeps forever.
	SessionTTL time.Duration
}

// NewSessionStore creates a session store of the requested type.
func NewSessionStore(ctx context.Context, t StoreType, opts RedisOptions) (SessionStore, error) {
	switch t {
	case StoreTypeRedis:
		client, err := redis_repository.Conn(ctx, opts.Host, opts.Port, opts.Password, opts.DB, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return redis_repository.NewSessionStore(client, opts.SessionTTL), nil
	}
	return nil, fmt.Errorf("invalid session store type: %s", t)
}
