package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Hour

// ReplyCache stores generated itinerary replies keyed by prompt pair, so
// identical planner submissions within the TTL don't re-bill the upstream
// model. Replies are plain text; structure is recovered by the interpreter
// on every read.
type ReplyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReplyCache constructs a ReplyCache with a 1-hour TTL.
func NewReplyCache(client *redis.Client) *ReplyCache {
	return &ReplyCache{client: client, ttl: defaultTTL}
}

// Key derives the cache key for a prompt pair and model. The prompts are
// hashed: they embed free-text notes and would make unwieldy raw keys.
func Key(system, user, model string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(user))
	return "reply:" + hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached reply. Returns "", nil on a cache miss (not an
// error); cached replies are never empty.
func (c *ReplyCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a reply with the configured TTL. Empty replies are not cached.
func (c *ReplyCache) Set(ctx context.Context, key, reply string) error {
	if reply == "" {
		return nil
	}
	if err := c.client.Set(ctx, key, reply, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a cached reply.
func (c *ReplyCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
