// Package cache defines the byte cache used to soften upstream API load.
// Two implementations ship: an in-process TTL+LRU map for single-node
// deployments, and a Redis client for shared deployments.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized payloads under string keys with per-entry TTLs.
type Cache interface {
	// Get returns the cached payload for key.
	// Returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the payload under key for ttl. A non-positive ttl falls
	// back to the implementation default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete drops a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}

// DefaultTTL is used when callers pass a non-positive TTL.
const DefaultTTL = 6 * time.Hour
