// Package guard enforces single-flight per user handle. Sync jobs for the
// same handle must never run concurrently: two writers racing on one user's
// stored history would interleave partial states.
package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Guard tracks in-flight handles so only one sync per user runs at a time.
type Guard interface {
	// Acquire atomically claims the handle. It returns false when a sync
	// for the handle is already in flight.
	Acquire(ctx context.Context, handle string) bool

	// Release frees the handle so a later sync may claim it. Releasing a
	// handle that is not held is a no-op.
	Release(ctx context.Context, handle string)

	// Active returns the number of handles currently held.
	Active() int64
}

type entry struct {
	since time.Time
}

// inMemoryGuard is a map-backed Guard with an optional stale-hold timeout:
// a handle held longer than maxHold is treated as abandoned and reclaimed.
type inMemoryGuard struct {
	mu      sync.Mutex
	held    map[string]entry
	maxHold time.Duration
	active  atomic.Int64
	now     func() time.Time
}

// NewInMemoryGuard creates a guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		held:    make(map[string]entry),
		maxHold: 10 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *inMemoryGuard) Acquire(_ context.Context, handle string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.held[handle]; ok {
		if g.maxHold <= 0 || g.now().Sub(e.since) < g.maxHold {
			return false
		}
		// Held past the timeout: the previous holder died mid-sync.
		g.active.Add(-1)
	}

	g.held[handle] = entry{since: g.now()}
	g.active.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, handle string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[handle]; ok {
		delete(g.held, handle)
		g.active.Add(-1)
	}
}

func (g *inMemoryGuard) Active() int64 {
	return g.active.Load()
}
