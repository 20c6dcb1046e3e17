// Package coach holds the advisory layer: summarizing weakness reports,
// picking one problem out of a recommendation pool, and judging solve speed.
// Every interface ships with a deterministic implementation so the service
// works without any external advice provider.
package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/cpcoach/internal/domain/recommend"
	"github.com/okian/cpcoach/internal/domain/weakness"
)

// Summarizer turns a weakness report into a short human-readable summary.
type Summarizer interface {
	Summarize(ctx context.Context, report weakness.Report) (string, error)
}

// Picker chooses one candidate from a recommendation pool.
type Picker interface {
	Pick(ctx context.Context, pool []recommend.Candidate) (recommend.Candidate, error)
}

// SolveJudge decides whether a solve took longer than expected for its
// difficulty.
type SolveJudge interface {
	Slow(rating int, taken time.Duration) bool
}

// TemplateSummarizer renders a weakness report with plain text templates.
type TemplateSummarizer struct{}

// NewTemplateSummarizer returns the built-in summarizer.
func NewTemplateSummarizer() *TemplateSummarizer { return &TemplateSummarizer{} }

// Summarize writes a two to three sentence summary of the report.
func (s *TemplateSummarizer) Summarize(_ context.Context, report weakness.Report) (string, error) {
	if !report.HasFindings() {
		return fmt.Sprintf("No clear weaknesses detected for %s yet. Keep solving; the analysis sharpens with more contest history.", report.Handle), nil
	}

	var parts []string
	if len(report.WeakBands) > 0 {
		labels := make([]string, 0, len(report.WeakBands))
		for _, b := range report.WeakBands {
			labels = append(labels, b.Label)
		}
		parts = append(parts, fmt.Sprintf("You struggle most in the %s rating range", strings.Join(labels, ", ")))
	}
	if len(report.WeakTopics) > 0 {
		names := make([]string, 0, len(report.WeakTopics))
		for _, t := range report.WeakTopics {
			names = append(names, t.Topic)
		}
		parts = append(parts, fmt.Sprintf("your weakest topics are %s", strings.Join(names, ", ")))
	}
	summary := strings.Join(parts, "; ") + "."
	if len(report.WeakTopics) > 0 {
		worst := report.WeakTopics[0]
		summary += fmt.Sprintf(" Start with %s problems: you solved %d of %d attempts there.",
			worst.Topic, worst.Solved, worst.Attempted)
	}
	return summary, nil
}

// FirstPicker takes the top-ranked candidate. The pool is already sorted by
// fit, so "first" is the deterministic best choice.
type FirstPicker struct{}

// NewFirstPicker returns the built-in picker.
func NewFirstPicker() *FirstPicker { return &FirstPicker{} }

// Pick returns the first candidate or an error on an empty pool.
func (p *FirstPicker) Pick(_ context.Context, pool []recommend.Candidate) (recommend.Candidate, error) {
	if len(pool) == 0 {
		return recommend.Candidate{}, ErrEmptyPool
	}
	return pool[0], nil
}

// RatingJudge marks a solve slow when it exceeds a per-difficulty time
// budget: three minutes for every hundred rating points.
type RatingJudge struct{}

// NewRatingJudge returns the built-in judge.
func NewRatingJudge() *RatingJudge { return &RatingJudge{} }

// Slow reports whether taken exceeds the budget for rating. A zero duration
// means the time was not reported and is never judged slow.
func (j *RatingJudge) Slow(rating int, taken time.Duration) bool {
	if taken <= 0 || rating <= 0 {
		return false
	}
	budget := time.Duration(rating/100) * 3 * time.Minute
	return taken > budget
}
