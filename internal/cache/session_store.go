package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/prepmate/interview-server-go/internal/model"
	redisclient "github.com/prepmate/interview-server-go/internal/redis"
)

// SessionStore is the cache tier of the session store: a volatile keyed
// holder for LiveSession state with a TTL refreshed on every write.
// Writes are last-write-wins; expiry silently drops the session.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*model.LiveSession, error)
	Set(ctx context.Context, sessionID string, session *model.LiveSession) error
	Delete(ctx context.Context, sessionID string) error
}

type sessionStore struct {
	redis *redisclient.Client
	ttl   time.Duration
}

func NewSessionStore(redisClient *redisclient.Client, ttl time.Duration) SessionStore {
	return &sessionStore{redis: redisClient, ttl: ttl}
}

// Get returns nil without error when the session is absent or expired.
func (s *sessionStore) Get(ctx context.Context, sessionID string) (*model.LiveSession, error) {
	raw, err := s.redis.Get(ctx, redisclient.SessionKey(sessionID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session model.LiveSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Set(ctx context.Context, sessionID string, session *model.LiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.redis.Set(ctx, redisclient.SessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, redisclient.SessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
