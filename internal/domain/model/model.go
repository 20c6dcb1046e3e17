// Package model contains domain entities passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Rating bounds shared across the recommendation pipeline.
const (
	MinRating = 800
	MaxRating = 2400

	// BandWidth is the width of a rating band used for weakness aggregation.
	BandWidth = 100

	// gymContestThreshold separates regular contests from gym contests,
	// which use a different problem URL scheme.
	gymContestThreshold = 100000

	// contestDurationSeconds is the assumed rated-contest length; an AC
	// later than this counts as solved after the contest.
	contestDurationSeconds = 7200
)

// Sentinel errors for entity construction.
var (
	ErrInvalidRating  = errors.New("invalid rating")
	ErrMissingIndex   = errors.New("missing problem index")
	ErrMissingContest = errors.New("missing contest id")
)

// Verdict is the outcome of a submission attempt.
type Verdict string

// Verdict values. External verdict strings are collapsed into these three.
const (
	VerdictAccepted Verdict = "AC"
	VerdictRejected Verdict = "WA"
	VerdictOther    Verdict = "OTHER"
)

// ParseVerdict collapses a raw verdict string into the internal
// three-valued verdict. Codeforces reports accepts as "OK"; API callers
// report them as "AC". In-progress and skipped submissions are neither
// accepted nor rejected.
func ParseVerdict(raw string) Verdict {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "OK", "AC", "ACCEPTED":
		return VerdictAccepted
	case "", "TESTING", "SKIPPED", "SUBMITTED":
		return VerdictOther
	default:
		return VerdictRejected
	}
}

// Accepted reports whether the verdict is an accepting one.
func (v Verdict) Accepted() bool { return v == VerdictAccepted }

// Rejected reports whether the verdict is a failed attempt.
func (v Verdict) Rejected() bool { return v == VerdictRejected }

// ProblemKey builds the canonical problem identifier, e.g. "1900A".
func ProblemKey(contestID int, index string) string {
	return fmt.Sprintf("%d%s", contestID, strings.ToUpper(strings.TrimSpace(index)))
}

// Problem is a catalog entry for a competitive programming problem.
type Problem struct {
	ID        string   // canonical key: contest id + index
	ContestID int
	Index     string
	Name      string
	Rating    int
	Tags      []string // canonical, deduplicated, first-seen order
	URL       string
}

// NewProblem validates and builds a Problem, deriving its key and URL.
// Tags are stored as given; callers normalize them beforehand.
func NewProblem(contestID int, index, name string, rating int, tags []string) (Problem, error) {
	if contestID <= 0 {
		return Problem{}, ErrMissingContest
	}
	index = strings.ToUpper(strings.TrimSpace(index))
	if index == "" {
		return Problem{}, ErrMissingIndex
	}
	if rating <= 0 {
		return Problem{}, fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	return Problem{
		ID:        ProblemKey(contestID, index),
		ContestID: contestID,
		Index:     index,
		Name:      name,
		Rating:    rating,
		Tags:      tags,
		URL:       problemURL(contestID, index),
	}, nil
}

// problemURL derives the public problem URL. Gym contests live under a
// different path than regular contests.
func problemURL(contestID int, index string) string {
	if contestID >= gymContestThreshold {
		return fmt.Sprintf("https://codeforces.com/gym/%d/problem/%s", contestID, index)
	}
	return fmt.Sprintf("https://codeforces.com/contest/%d/problem/%s", contestID, index)
}

// HasTopic reports whether any canonical tag contains topic as a substring.
func (p Problem) HasTopic(topic string) bool {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return false
	}
	for _, t := range p.Tags {
		if strings.Contains(t, topic) {
			return true
		}
	}
	return false
}

// Submission is one externally sourced attempt record. Immutable; the core
// only reads it.
type Submission struct {
	ID        int64
	ContestID int
	Index     string
	Name      string
	Rating    int // 0 when the problem is unrated
	Tags      []string
	Verdict   Verdict
	// RelativeTimeSeconds is the offset from contest start; values at or
	// beyond the contest duration (or absent) mean practice/upsolving.
	RelativeTimeSeconds int64
	At                  time.Time
}

// ProblemKey returns the canonical identifier of the attempted problem.
func (s Submission) ProblemKey() string { return ProblemKey(s.ContestID, s.Index) }

// Rated reports whether the submission carries a usable problem rating.
// Unrated submissions are skipped from aggregation, never an error.
func (s Submission) Rated() bool { return s.Rating > 0 }

// InContest reports whether the submission happened during the contest window.
func (s Submission) InContest() bool {
	return s.RelativeTimeSeconds > 0 && s.RelativeTimeSeconds < contestDurationSeconds
}

// InteractionKind distinguishes the two interaction event types.
type InteractionKind string

// Interaction kinds.
const (
	InteractionSolve InteractionKind = "solve"
	InteractionSkip  InteractionKind = "skip"
)

// SkipFeedback is the optional reason attached to a skip.
type SkipFeedback string

// Skip feedback values. Empty means a neutral skip.
const (
	FeedbackNone    SkipFeedback = ""
	FeedbackTooEasy SkipFeedback = "too_easy"
	FeedbackTooHard SkipFeedback = "too_hard"
)

// Interaction is one entry of the append-only solve/skip log. The target
// rating calculator reads only the most recent one by timestamp.
type Interaction struct {
	Kind          InteractionKind
	ProblemID     string
	ProblemRating int
	Verdict       Verdict      // solves only
	Slow          bool         // solves only; external performance signal
	Feedback      SkipFeedback // skips only
	TimeTaken     time.Duration
	At            time.Time
}

// SkillRecord tracks per-topic mastery. Created lazily on first AC in a
// topic; counts never decrease and the rating high-water mark never drops.
type SkillRecord struct {
	Topic           string
	SolveCount      int
	MaxSolvedRating int
	LastPracticedAt time.Time
}

// ContestProblemStat accumulates a user's outcome on one contest problem.
// Counts are monotonic within a sync cycle.
type ContestProblemStat struct {
	ContestID          int
	ProblemID          string // canonical key
	Name               string
	Rating             int // 0 when unrated
	Tags               []string
	Attempted          bool
	Solved             bool
	AttemptCount       int
	SolvedAfterContest bool
	TimeToAC           int64 // seconds from contest start; 0 when unknown
	FirstAttemptAt     time.Time
	SolvedAt           time.Time
}

// Band returns the rating band a rating falls into: floor(rating/100)*100.
func Band(rating int) int {
	return (rating / BandWidth) * BandWidth
}

// BandLabel formats a band as its inclusive-exclusive range, e.g. "1200-1300".
func BandLabel(band int) string {
	return fmt.Sprintf("%d-%d", band, band+BandWidth)
}

// ClampRating bounds a target rating to the supported difficulty range.
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
