// Package skill tracks per-topic practice progress. Records are derived
// from two sources: live solve events reported through the API, and bulk
// re-derivation from a user's submission history.
package skill

import (
	"sort"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

// ApplySolve folds one accepted solve into a user's skill records and
// returns the updated set. One record per topic; the solve counts once per
// topic the problem carries.
func ApplySolve(records map[string]model.SkillRecord, tags []string, rating int, at time.Time) map[string]model.SkillRecord {
	if records == nil {
		records = make(map[string]model.SkillRecord)
	}
	for _, topic := range tags {
		rec := records[topic]
		rec.Topic = topic
		rec.SolveCount++
		if rating > rec.MaxSolvedRating {
			rec.MaxSolvedRating = rating
		}
		if at.After(rec.LastPracticedAt) {
			rec.LastPracticedAt = at
		}
		records[topic] = rec
	}
	return records
}

// MergeHistory raises MaxSolvedRating and LastPracticedAt from accepted
// submissions found during a history sync. SolveCount is deliberately left
// alone: bulk syncs cannot tell new solves from re-submissions, so the
// counter only advances through ApplySolve.
func MergeHistory(records map[string]model.SkillRecord, subs []model.Submission) map[string]model.SkillRecord {
	if records == nil {
		records = make(map[string]model.SkillRecord)
	}
	for _, sub := range subs {
		if !sub.Verdict.Accepted() || !sub.Rated() {
			continue
		}
		for _, topic := range sub.Tags {
			rec := records[topic]
			rec.Topic = topic
			if sub.Rating > rec.MaxSolvedRating {
				rec.MaxSolvedRating = sub.Rating
			}
			if sub.At.After(rec.LastPracticedAt) {
				rec.LastPracticedAt = sub.At
			}
			records[topic] = rec
		}
	}
	return records
}

// Sorted returns records ordered by solve count descending, then topic name,
// for stable presentation.
func Sorted(records map[string]model.SkillRecord) []model.SkillRecord {
	out := make([]model.SkillRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SolveCount != out[j].SolveCount {
			return out[i].SolveCount > out[j].SolveCount
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}
