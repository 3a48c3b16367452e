package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyDirectory = "users:directory"

// DirectoryCache caches the user directory listing in Redis.
type DirectoryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDirectoryCache returns a new DirectoryCache.
func NewDirectoryCache(rdb *redis.Client, ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached directory listing or nil if miss.
func (c *DirectoryCache) Get(ctx context.Context) ([]dom.UserSummary, error) {
	b, err := c.rdb.Get(ctx, keyDirectory).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.UserSummary
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Set stores the directory listing in cache.
func (c *DirectoryCache) Set(ctx context.Context, list []dom.UserSummary) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyDirectory, b, c.ttl).Err()
}

// Invalidate removes the cached directory listing (called on registration).
func (c *DirectoryCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyDirectory).Err()
}
