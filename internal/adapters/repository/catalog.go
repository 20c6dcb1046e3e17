package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/metrics"
)

// InMemoryCatalog keeps the problem set in a rating-sorted slice with an ID
// index. Range queries binary-search the slice, which fits the access
// pattern: bulk refreshes from upstream, then read-mostly window lookups.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	byID     map[string]int
	sorted   []model.Problem
	syncedAt time.Time
}

// NewInMemoryCatalog creates an empty catalog store.
func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{
		byID: make(map[string]int),
	}
}

// Upsert adds or replaces problems by ID and re-sorts the catalog once.
func (c *InMemoryCatalog) Upsert(_ context.Context, problems []model.Problem) error {
	if len(problems) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range problems {
		if idx, ok := c.byID[p.ID]; ok {
			c.sorted[idx] = p
			continue
		}
		c.byID[p.ID] = len(c.sorted)
		c.sorted = append(c.sorted, p)
	}

	sort.Slice(c.sorted, func(i, j int) bool {
		if c.sorted[i].Rating != c.sorted[j].Rating {
			return c.sorted[i].Rating < c.sorted[j].Rating
		}
		return c.sorted[i].ID < c.sorted[j].ID
	})
	for i, p := range c.sorted {
		c.byID[p.ID] = i
	}

	c.syncedAt = time.Now()
	metrics.UpdateCatalogSize(len(c.sorted))
	return nil
}

// Get returns one problem by ID.
func (c *InMemoryCatalog) Get(_ context.Context, id string) (model.Problem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byID[id]
	if !ok {
		return model.Problem{}, ErrProblemNotFound
	}
	return c.sorted[idx], nil
}

// ByRatingRange returns problems with lo <= rating <= hi.
func (c *InMemoryCatalog) ByRatingRange(_ context.Context, lo, hi int) ([]model.Problem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	start := sort.Search(len(c.sorted), func(i int) bool { return c.sorted[i].Rating >= lo })
	end := sort.Search(len(c.sorted), func(i int) bool { return c.sorted[i].Rating > hi })
	if start >= end {
		return nil, nil
	}

	out := make([]model.Problem, end-start)
	copy(out, c.sorted[start:end])
	return out, nil
}

// All returns a copy of the whole catalog in rating order.
func (c *InMemoryCatalog) All(_ context.Context) ([]model.Problem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Problem, len(c.sorted))
	copy(out, c.sorted)
	return out, nil
}

// Count returns the catalog size.
func (c *InMemoryCatalog) Count(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sorted)
}

// SyncedAt returns the last refresh time.
func (c *InMemoryCatalog) SyncedAt(_ context.Context) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncedAt
}
