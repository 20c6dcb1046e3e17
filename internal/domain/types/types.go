// Package types holds the read models shared between the application layer
// and its transports. Domain packages stay free of presentation concerns;
// everything here exists to be serialized.
package types

import (
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/recommend"
	"github.com/okian/cpcoach/internal/domain/upsolve"
	"github.com/okian/cpcoach/internal/domain/weakness"
)

// SyncState describes where a user's history sync stands.
type SyncState string

// Sync states.
const (
	SyncPending SyncState = "pending"
	SyncRunning SyncState = "running"
	SyncDone    SyncState = "done"
	SyncFailed  SyncState = "failed"
)

// UserProfile is the public view of a tracked user.
type UserProfile struct {
	Handle       string    `json:"handle"`
	Rating       int       `json:"rating"`
	MaxRating    int       `json:"max_rating"`
	Rank         string    `json:"rank,omitempty"`
	TargetRating int       `json:"target_rating"`
	SolvedCount  int       `json:"solved_count"`
	SkippedCount int       `json:"skipped_count"`
	SyncState    SyncState `json:"sync_state"`
	LastSyncedAt time.Time `json:"last_synced_at,omitempty"`
}

// Recommendation is the full response of a recommendation request: the
// picked problem plus the pool it came from.
type Recommendation struct {
	Handle  string              `json:"handle"`
	Topic   string              `json:"topic,omitempty"`
	Picked  recommend.Candidate `json:"picked"`
	Pool    recommend.Result    `json:"pool"`
	Skills  []model.SkillRecord `json:"skills,omitempty"`
	Message string              `json:"message,omitempty"`
}

// AnalysisReport bundles weakness detection with upsolve suggestions.
type AnalysisReport struct {
	Report      weakness.Report      `json:"report"`
	Upsolve     []upsolve.Suggestion `json:"upsolve"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// InteractionAck confirms a recorded solve or skip.
type InteractionAck struct {
	Handle       string                `json:"handle"`
	ProblemID    string                `json:"problem_id"`
	Kind         model.InteractionKind `json:"kind"`
	Slow         bool                  `json:"slow,omitempty"`
	TargetRating int                   `json:"target_rating"`
	RecordedAt   time.Time             `json:"recorded_at"`
}

// Stats is the service-wide snapshot served by the stats endpoint.
type Stats struct {
	Users           int       `json:"users"`
	Problems        int       `json:"problems"`
	QueueDepth      int       `json:"queue_depth"`
	ActiveSyncs     int64     `json:"active_syncs"`
	CatalogSyncedAt time.Time `json:"catalog_synced_at,omitempty"`
}
