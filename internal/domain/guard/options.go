package guard

import "time"

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxHold sets how long a handle may stay claimed before a new Acquire
// reclaims it. Zero or negative disables reclamation.
func WithMaxHold(d time.Duration) Option {
	return func(g *inMemoryGuard) {
		g.maxHold = d
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(g *inMemoryGuard) {
		g.now = now
	}
}
