// services/cache.go
package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin read-cache over Redis. Every method is a no-op when
// the service runs without Redis, so callers never branch on it.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at addr. An empty addr disables caching.
func NewCache(addr, password string) *Cache {
	if addr == "" {
		log.Println("⚠️  REDIS_ADDR not set — running without cache")
		return &Cache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable (%v) — running without cache", err)
		return &Cache{}
	}

	log.Println("✅ Redis connection established")
	return &Cache{client: client}
}

// GetJSON loads key into dest, reporting whether a valid entry existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores value under key with a TTL. Failures are logged and
// swallowed — the cache is never load-bearing.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set %s failed: %v", key, err)
	}
}

// Delete drops a key after a write invalidates it.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache delete failed: %v", err)
	}
}
