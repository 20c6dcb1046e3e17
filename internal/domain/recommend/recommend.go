// Package recommend selects practice problems around a target difficulty.
// Candidates come from the problem catalog; the caller supplies the user's
// solve and skip history so recently skipped problems sit out a cooldown.
package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
)

const (
	// RatingWindow bounds how far a candidate may sit from the target.
	RatingWindow = 150
	// PoolSize is how many ranked candidates are surfaced per request.
	PoolSize = 5
	// SkipCooldownSolves is how many solves must happen after a skip
	// before the skipped problem becomes eligible again.
	SkipCooldownSolves = 10
)

// Candidate is one recommendable problem with its distance from the target.
// Impact is filled in by the caller: it scores how well the problem covers
// the user's detected weaknesses and does not affect the ranking.
type Candidate struct {
	Problem  model.Problem `json:"problem"`
	Distance int           `json:"distance"`
	Reason   string        `json:"reason"`
	Impact   float64       `json:"impact"`
}

// Result is a ranked recommendation pool, or a fallback when the window
// around the target holds no eligible problem.
type Result struct {
	Target     int         `json:"target_rating"`
	Candidates []Candidate `json:"candidates"`
	Fallback   bool        `json:"fallback"`
	Message    string      `json:"message,omitempty"`
}

// CooldownSkips returns the set of problem IDs still cooling down. A skip
// expires once SkipCooldownSolves solves land after its timestamp; with
// fewer solves in total than the cooldown, every skip is still active.
func CooldownSkips(interactions []model.Interaction) map[string]struct{} {
	var solveTimes []time.Time
	for _, it := range interactions {
		if it.Kind == model.InteractionSolve {
			solveTimes = append(solveTimes, it.At)
		}
	}
	sort.Slice(solveTimes, func(i, j int) bool { return solveTimes[i].Before(solveTimes[j]) })

	active := make(map[string]struct{})
	for _, it := range interactions {
		if it.Kind != model.InteractionSkip {
			continue
		}
		solvesAfter := 0
		for _, t := range solveTimes {
			if t.After(it.At) {
				solvesAfter++
			}
		}
		if solvesAfter < SkipCooldownSolves {
			active[it.ProblemID] = struct{}{}
		}
	}
	return active
}

// Filter keeps problems inside the rating window around target that the
// user has neither solved nor recently skipped. topic narrows the pool to
// problems carrying that tag when non-empty.
func Filter(problems []model.Problem, target int, topic string, solved, cooling map[string]struct{}) []model.Problem {
	var out []model.Problem
	for _, p := range problems {
		if p.Rating < target-RatingWindow || p.Rating > target+RatingWindow {
			continue
		}
		if _, ok := solved[p.ID]; ok {
			continue
		}
		if _, ok := cooling[p.ID]; ok {
			continue
		}
		if topic != "" && !p.HasTopic(topic) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Rank orders candidates by distance from target, then problem ID.
func Rank(problems []model.Problem, target int) []Candidate {
	candidates := make([]Candidate, 0, len(problems))
	for _, p := range problems {
		candidates = append(candidates, Candidate{
			Problem:  p,
			Distance: abs(p.Rating - target),
			Reason:   explain(p, target),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Problem.ID < candidates[j].Problem.ID
	})
	if len(candidates) > PoolSize {
		candidates = candidates[:PoolSize]
	}
	return candidates
}

// FallbackEasiest returns the lowest-rated unsolved problems when the
// window around the target is empty, so the user always gets something to
// work on. The same topic and cooldown rules apply.
func FallbackEasiest(problems []model.Problem, topic string, solved, cooling map[string]struct{}) []Candidate {
	var pool []model.Problem
	for _, p := range problems {
		if _, ok := solved[p.ID]; ok {
			continue
		}
		if _, ok := cooling[p.ID]; ok {
			continue
		}
		if topic != "" && !p.HasTopic(topic) {
			continue
		}
		pool = append(pool, p)
	}
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Rating != pool[j].Rating {
			return pool[i].Rating < pool[j].Rating
		}
		return pool[i].ID < pool[j].ID
	})
	if len(pool) > PoolSize {
		pool = pool[:PoolSize]
	}
	candidates := make([]Candidate, 0, len(pool))
	for _, p := range pool {
		candidates = append(candidates, Candidate{
			Problem: p,
			Reason:  fmt.Sprintf("easiest unsolved problem rated %d", p.Rating),
		})
	}
	return candidates
}

// Build runs the full pipeline and falls back to the easiest unsolved
// problems when the target window is empty.
func Build(problems []model.Problem, target int, topic string, solved, cooling map[string]struct{}) Result {
	filtered := Filter(problems, target, topic, solved, cooling)
	if len(filtered) > 0 {
		return Result{Target: target, Candidates: Rank(filtered, target)}
	}
	fallback := FallbackEasiest(problems, topic, solved, cooling)
	msg := fmt.Sprintf("no unsolved problems within %d of target %d; easiest unsolved shown instead", RatingWindow, target)
	if len(fallback) == 0 {
		msg = "no unsolved problems left in the catalog for this filter"
	}
	return Result{Target: target, Candidates: fallback, Fallback: true, Message: msg}
}

func explain(p model.Problem, target int) string {
	diff := p.Rating - target
	switch {
	case diff > 50:
		return fmt.Sprintf("rated %d, a stretch above your target %d", p.Rating, target)
	case diff < -50:
		return fmt.Sprintf("rated %d, a confidence pick below your target %d", p.Rating, target)
	default:
		return fmt.Sprintf("rated %d, right at your target %d", p.Rating, target)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
