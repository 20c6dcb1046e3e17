// Package upsolve ranks contest problems the user attempted but failed to
// solve during the contest. Upsolving those is the highest-value practice a
// contestant can do, so the ranking boosts problems that overlap with the
// user's detected weaknesses.
package upsolve

import (
	"math/rand"
	"sort"

	"github.com/okian/cpcoach/internal/domain/model"
)

// Ranking weights and bounds.
const (
	weakTopicBonus    = 3.0
	weakBandBonus     = 2.0
	notUpsolvedBonus  = 1.0
	aboveRatingMalus  = 1.0
	ratingBuffer      = 100
	DefaultSuggestion = 5

	// ShufflePool is how many top-ranked candidates a shuffled selection
	// draws from.
	ShufflePool = 15
)

// Reason explains one scoring contribution for a suggestion.
type Reason struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Reason kinds.
const (
	ReasonWeakTopic   = "weak_topic"
	ReasonWeakBand    = "weak_band"
	ReasonNotUpsolved = "not_upsolved"
	ReasonAboveLevel  = "above_level"
)

// Suggestion is one ranked upsolve target. Problems already upsolved after
// the contest stay eligible and can reappear here; they simply forgo the
// not-yet-upsolved bonus.
type Suggestion struct {
	ProblemID string   `json:"problem_id"`
	ContestID int      `json:"contest_id"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
	Score     float64  `json:"score"`
	Reasons   []Reason `json:"reasons"`
}

// Input carries everything Select needs.
type Input struct {
	Stats      []model.ContestProblemStat
	UserRating int
	WeakTopics map[string]struct{}
	WeakBands  map[int]struct{}
	Limit      int
}

// Select returns the top upsolve suggestions. Candidates are contest
// problems the user attempted without an in-contest accept, rated at most
// ratingBuffer points above the user. Sorted by score descending, then
// rating ascending, then problem ID.
func Select(in Input) []Suggestion {
	candidates := collect(in.Stats, in.UserRating)

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultSuggestion
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, stat := range candidates {
		s := score(stat, in)
		suggestions = append(suggestions, s)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		if suggestions[i].Rating != suggestions[j].Rating {
			return suggestions[i].Rating < suggestions[j].Rating
		}
		return suggestions[i].ProblemID < suggestions[j].ProblemID
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// SelectShuffled draws in.Limit suggestions at random from the top
// ShufflePool ranked candidates, so repeated refreshes surface variety
// instead of the same five problems. The draw keeps score order within
// the returned slice.
func SelectShuffled(in Input) []Suggestion {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultSuggestion
	}

	wide := in
	wide.Limit = ShufflePool
	pool := Select(wide)
	if len(pool) <= limit {
		return pool
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	pool = pool[:limit]
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		if pool[i].Rating != pool[j].Rating {
			return pool[i].Rating < pool[j].Rating
		}
		return pool[i].ProblemID < pool[j].ProblemID
	})
	return pool
}

func collect(stats []model.ContestProblemStat, userRating int) []model.ContestProblemStat {
	var out []model.ContestProblemStat
	for _, s := range stats {
		if !s.Attempted {
			continue
		}
		if s.Solved && !s.SolvedAfterContest {
			continue
		}
		if s.Rating > userRating+ratingBuffer {
			continue
		}
		out = append(out, s)
	}
	return out
}

func score(stat model.ContestProblemStat, in Input) Suggestion {
	s := Suggestion{
		ProblemID: stat.ProblemID,
		ContestID: stat.ContestID,
		Name:      stat.Name,
		Rating:    stat.Rating,
		Tags:      stat.Tags,
	}

	for _, tag := range stat.Tags {
		if _, ok := in.WeakTopics[tag]; ok {
			s.Score += weakTopicBonus
			s.Reasons = append(s.Reasons, Reason{
				Kind:   ReasonWeakTopic,
				Detail: "covers weak topic " + tag,
			})
			break
		}
	}

	if stat.Rating > 0 {
		if _, ok := in.WeakBands[model.Band(stat.Rating)]; ok {
			s.Score += weakBandBonus
			s.Reasons = append(s.Reasons, Reason{
				Kind:   ReasonWeakBand,
				Detail: "sits in weak band " + model.BandLabel(model.Band(stat.Rating)),
			})
		}
	}

	if !stat.SolvedAfterContest {
		s.Score += notUpsolvedBonus
		s.Reasons = append(s.Reasons, Reason{
			Kind:   ReasonNotUpsolved,
			Detail: "still unsolved since the contest",
		})
	}

	if stat.Rating > in.UserRating {
		s.Score -= aboveRatingMalus
		s.Reasons = append(s.Reasons, Reason{
			Kind:   ReasonAboveLevel,
			Detail: "rated above your current level",
		})
	}

	return s
}
