package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryOption applies a configuration option to the in-memory cache.
type MemoryOption func(*InMemory)

// WithMaxEntries caps the number of cached entries before LRU eviction.
func WithMaxEntries(n int) MemoryOption {
	return func(c *InMemory) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTTL sets the default entry lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(c *InMemory) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *InMemory) {
		c.now = now
	}
}

// RedisOption applies a configuration option to the Redis cache.
type RedisOption func(*Redis)

// WithRedisTTL sets the default entry lifetime.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *Redis) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the namespace prepended to every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *Redis) {
		c.prefix = prefix
	}
}

// WithClient injects a pre-configured Redis client.
func WithClient(client *redis.Client) RedisOption {
	return func(c *Redis) {
		c.client = client
	}
}
