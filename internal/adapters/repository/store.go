// Package repository defines the problem catalog and user state stores.
package repository

import (
	"context"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/types"
)

// User is the persisted state for one tracked handle. The submission log
// and contest stats come from history syncs; interactions and skills grow
// through live API traffic.
type User struct {
	Handle       string
	Rating       int
	MaxRating    int
	Rank         string
	Submissions  []model.Submission
	ContestStats []model.ContestProblemStat
	Interactions []model.Interaction
	Skills       map[string]model.SkillRecord
	Solved       map[string]struct{}
	SolvedCount  int
	SkippedCount int
	SyncState    types.SyncState
	LastSyncedAt time.Time
}

// UserStore provides read/write access to tracked users.
type UserStore interface {
	// Get returns a copy of the user's state.
	// Returns ErrUserNotFound if the handle is unknown.
	Get(ctx context.Context, handle string) (User, error)

	// Mutate applies fn to the user's state under the store's lock and
	// persists the result. A missing handle starts from a zero User, so
	// Mutate doubles as create.
	Mutate(ctx context.Context, handle string, fn func(*User) error) error

	// Count returns the number of tracked users.
	Count(ctx context.Context) int
}

// CatalogStore holds the recommendable problem set, queryable by rating.
type CatalogStore interface {
	// Upsert adds or replaces problems by ID.
	Upsert(ctx context.Context, problems []model.Problem) error

	// Get returns one problem by ID.
	// Returns ErrProblemNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.Problem, error)

	// ByRatingRange returns problems with lo <= rating <= hi, ordered by
	// rating ascending then ID.
	ByRatingRange(ctx context.Context, lo, hi int) ([]model.Problem, error)

	// All returns the whole catalog ordered by rating ascending then ID.
	All(ctx context.Context) ([]model.Problem, error)

	// Count returns the catalog size.
	Count(ctx context.Context) int

	// SyncedAt returns when the catalog was last refreshed.
	SyncedAt(ctx context.Context) time.Time
}
