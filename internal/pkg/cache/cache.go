package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over Redis. A nil client disables caching so
// the API keeps working when Redis is not deployed.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a cache. rdb may be nil.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis connection is available
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON loads a cached value into dest, reporting whether it was found
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

// SetJSON stores a value under key with the configured TTL. Failures are
// logged and ignored; caching is best effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Cache set failed for %s: %v", key, err)
	}
}

// InvalidatePrefix removes all keys under a prefix (e.g. after a mutation)
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.Enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("⚠️ Cache invalidation failed for %s: %v", prefix, err)
	}
}
