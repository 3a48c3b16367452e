package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyInbox  = "messages:inbox:"
	keyOutbox = "messages:outbox:"
)

// MessageCache caches per-user inbox and outbox listings in Redis.
type MessageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMessageCache returns a new MessageCache.
func NewMessageCache(rdb *redis.Client, ttl time.Duration) *MessageCache {
	return &MessageCache{rdb: rdb, ttl: ttl}
}

// GetInbox returns the cached inbox for the user, or nil if miss.
func (c *MessageCache) GetInbox(ctx context.Context, username string) ([]dom.ReceivedMessage, error) {
	b, err := c.rdb.Get(ctx, keyInbox+username).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.ReceivedMessage
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetInbox stores the inbox listing in cache.
func (c *MessageCache) SetInbox(ctx context.Context, username string, list []dom.ReceivedMessage) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyInbox+username, b, c.ttl).Err()
}

// GetOutbox returns the cached outbox for the user, or nil if miss.
func (c *MessageCache) GetOutbox(ctx context.Context, username string) ([]dom.SentMessage, error) {
	b, err := c.rdb.Get(ctx, keyOutbox+username).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.SentMessage
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetOutbox stores the outbox listing in cache.
func (c *MessageCache) SetOutbox(ctx context.Context, username string, list []dom.SentMessage) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyOutbox+username, b, c.ttl).Err()
}

// Invalidate removes both listings for every given user (cache invalidation
// on send and mark-read).
func (c *MessageCache) Invalidate(ctx context.Context, usernames ...string) error {
	keys := make([]string, 0, len(usernames)*2)
	for _, u := range usernames {
		keys = append(keys, keyInbox+u, keyOutbox+u)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
