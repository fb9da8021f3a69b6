package redis_repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuslink/campuslink/models"
)

const (
	sessionKeyPrefix = "chatsession:"
	userIndexPrefix  = "chatsessions:user:"
)

// sessionStore implements repository.SessionStore using Redis. Each session is
// one JSON value under chatsession:<id>; a per-user set indexes session ids.
type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps an existing client. ttl of zero disables expiry.
func NewSessionStore(client *redis.Client, ttl time.Duration) *sessionStore {
	return &sessionStore{client: client, ttl: ttl}
}

func (s *sessionStore) Get(ctx context.Context, id string) (models.ChatSession, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.ChatSession{}, models.ErrSessionNotFound
		}
		return models.ChatSession{}, err
	}

	var session models.ChatSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return models.ChatSession{}, err
	}
	return session, nil
}

func (s *sessionStore) Save(ctx context.Context, session models.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, data, s.ttl)
	pipe.SAdd(ctx, userIndexPrefix+session.UserID, session.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, userIndexPrefix+session.UserID, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *sessionStore) ListByUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	ids, err := s.client.SMembers(ctx, userIndexPrefix+userID).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]models.ChatSession, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if errors.Is(err, models.ErrSessionNotFound) {
			// Session expired after the index entry; drop the stale id.
			s.client.SRem(ctx, userIndexPrefix+userID, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActive.After(sessions[j].LastActive)
	})
	return sessions, nil
}

func (s *sessionStore) Delete(ctx context.Context, id, userID string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return models.ErrSessionNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.SRem(ctx, userIndexPrefix+userID, id)
	_, err = pipe.Exec(ctx)
	return err
}
