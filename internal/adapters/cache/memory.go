package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/okian/cpcoach/pkg/metrics"
)

// InMemory is a TTL cache with LRU eviction. Expired entries are dropped
// lazily on read and by eviction pressure; there is no background sweeper.
type InMemory struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List
	maxSize  int
	ttl      time.Duration
	now      func() time.Time
}

type memEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewInMemory creates an in-process cache with configuration options.
func NewInMemory(opts ...MemoryOption) *InMemory {
	c := &InMemory{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: 1000,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload for key, promoting it to most recently used.
func (c *InMemory) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, ErrMiss
	}
	e := el.Value.(*memEntry)
	if c.now().After(e.expiresAt) {
		c.remove(el)
		metrics.RecordCacheMiss()
		return nil, ErrMiss
	}

	c.order.MoveToFront(el)
	metrics.RecordCacheHit()
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores the payload, evicting the least recently used entry when full.
func (c *InMemory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*memEntry)
		e.value = stored
		e.expiresAt = c.now().Add(ttl)
		c.order.MoveToFront(el)
		return nil
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		if back := c.order.Back(); back != nil {
			c.remove(back)
		}
	}

	el := c.order.PushFront(&memEntry{
		key:       key,
		value:     stored,
		expiresAt: c.now().Add(ttl),
	})
	c.entries[key] = el
	return nil
}

// Delete drops a key.
func (c *InMemory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	return nil
}

// remove must be called with c.mu held.
func (c *InMemory) remove(el *list.Element) {
	e := el.Value.(*memEntry)
	delete(c.entries, e.key)
	c.order.Remove(el)
}
