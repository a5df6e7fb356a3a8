package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps admin login sessions in Redis so a restart does not log
// the admin out. Sessions are opaque random tokens with a sliding TTL.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessionStore creates a new SessionStore with the default session TTL.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache, ttl: TTLSession}
}

// Create issues a new session token.
func (s *SessionStore) Create(ctx context.Context) (string, error) {
	if s.cache == nil {
		return "", fmt.Errorf("sessions require redis")
	}

	token := uuid.NewString()
	if err := s.cache.SetString(ctx, SessionKey(token), time.Now().UTC().Format(time.RFC3339), s.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

// Valid reports whether the token names a live session and refreshes its TTL.
func (s *SessionStore) Valid(ctx context.Context, token string) bool {
	if token == "" || s.cache == nil {
		return false
	}

	val, err := s.cache.GetString(ctx, SessionKey(token))
	if err != nil || val == "" {
		return false
	}

	_ = s.cache.Client().Expire(ctx, SessionKey(token), s.ttl).Err()
	return true
}

// Destroy removes the session.
func (s *SessionStore) Destroy(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, SessionKey(token))
}
