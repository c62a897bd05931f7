package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/itinerary/internal/destination"
)

// DefaultTTL is how long generated text stays cached.
const DefaultTTL = time.Hour

// Cache stores generated assistant text per request kind and destination.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache. A non-positive ttl selects DefaultTTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Key returns the Redis key for kind and d. Any change to d's fields yields
// a different key, so edited destinations never hit stale text. Marshal only
// fails on a non-finite budget, which validation rejects before any lookup.
func Key(kind string, d *destination.Destination) string {
	b, _ := json.Marshal(d.Record())
	sum := sha256.Sum256(b)
	return "assist:" + kind + ":" + strings.ToLower(strings.TrimSpace(d.City)) + ":" + hex.EncodeToString(sum[:8])
}

// Get returns cached text. ok is false on a miss.
func (c *Cache) Get(ctx context.Context, kind string, d *destination.Destination) (text string, ok bool, err error) {
	val, err := c.client.Get(ctx, Key(kind, d)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get %s for city %s: %w", kind, d.City, err)
	}
	return val, true, nil
}

// Set stores text with the configured TTL. Empty text is not cached.
func (c *Cache) Set(ctx context.Context, kind string, d *destination.Destination, text string) error {
	if text == "" {
		return nil
	}
	if err := c.client.Set(ctx, Key(kind, d), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s for city %s: %w", kind, d.City, err)
	}
	return nil
}

// Delete removes the cached entry for kind and d.
func (c *Cache) Delete(ctx context.Context, kind string, d *destination.Destination) error {
	if err := c.client.Del(ctx, Key(kind, d)).Err(); err != nil {
		return fmt.Errorf("cache delete %s for city %s: %w", kind, d.City, err)
	}
	return nil
}
