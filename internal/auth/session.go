package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 24 * time.Hour
)

// Sessions resolves an opaque session id to the principal username.
type Sessions interface {
	Create(ctx context.Context, username string) (string, error)
	GetUsername(ctx context.Context, id string) (string, bool)
	Delete(ctx context.Context, id string) error
}

// Store manages sessions in Redis. The session value is the username the
// session was issued for; the core never sees the raw session id.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Create stores a new session for the user and returns its ID.
func (s *Store) Create(ctx context.Context, username string) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	key := sessionKeyPrefix + id
	if err := s.rdb.Set(ctx, key, username, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// GetUsername returns the username the session was issued for.
func (s *Store) GetUsername(ctx context.Context, id string) (string, bool) {
	username, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Result()
	if err != nil || username == "" {
		return "", false
	}
	return username, true
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
