// Package cache provides an optional Redis cache for per-user todo lists.
// A nil *TodoCache disables caching, every method is safe to call on nil.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/todoapp/internal/logging"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
)

type TodoCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// New connects to Redis at redisURL. An empty URL returns (nil, nil), which
// callers treat as caching disabled.
func New(ctx context.Context, redisURL string, ttl time.Duration, logger logging.Logger) (*TodoCache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &TodoCache{client: client, ttl: ttl, logger: logger}, nil
}

func key(ownerID int64) string {
	return fmt.Sprintf("todos:owner:%d", ownerID)
}

// Get reads the cached list for an owner. Misses and errors both report !ok.
func (c *TodoCache) Get(ctx context.Context, ownerID int64) ([]*models.Todo, bool) {
	if c == nil {
		return nil, false
	}

	b, err := c.client.Get(ctx, key(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Debug(ctx, "cache get failed", "error", err)
		return nil, false
	}

	var todos []*models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		c.logger.Debug(ctx, "cache unmarshal failed", "error", err)
		return nil, false
	}

	return todos, true
}

// Set stores the list for an owner. Errors are logged and swallowed, the
// cache never makes a request fail.
func (c *TodoCache) Set(ctx context.Context, ownerID int64, todos []*models.Todo) {
	if c == nil {
		return
	}

	b, err := json.Marshal(todos)
	if err != nil {
		c.logger.Debug(ctx, "cache marshal failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, key(ownerID), b, c.ttl).Err(); err != nil {
		c.logger.Debug(ctx, "cache set failed", "error", err)
	}
}

// Invalidate drops the cached list so the next read goes to the database.
func (c *TodoCache) Invalidate(ctx context.Context, ownerID int64) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key(ownerID)).Err(); err != nil {
		c.logger.Debug(ctx, "cache invalidate failed", "error", err)
	}
}

// Close releases the Redis connection pool.
func (c *TodoCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
