// Package scoring holds the deterministic score formulas used by weakness
// analysis and upsolve recommendations. Same input always produces the same
// output; there is no I/O and no shared state.
package scoring

import (
	"math"

	"github.com/okian/cpcoach/internal/domain/model"
)

// Weakness score weights.
const (
	// WrongSubmissionBaseWeight scales the raw failure rate.
	WrongSubmissionBaseWeight = 0.5

	// DifficultyMultiplier boosts failures on problems above the user's
	// rating; the resulting weight is capped at MaxDifficultyWeight.
	DifficultyMultiplier = 1.2
	MaxDifficultyWeight  = 2.0

	// RepeatedAttemptPenalty is added per failed attempt.
	RepeatedAttemptPenalty = 0.2

	// TimeDecayFactor decays relevance per day since the last attempt,
	// capped at TimeDecayMaxDays to avoid unbounded decay.
	TimeDecayFactor  = 0.95
	TimeDecayMaxDays = 30.0

	// minComparableRating floors the user rating in the difficulty ratio
	// so unrated users are not treated as infinitely weak.
	minComparableRating = 800
)

// Impact score bonuses for upsolve-style recommendation ranking.
const (
	weakTopicBonus      = 3.0
	weakBandBonus       = 2.0
	stretchBonus        = 1.0 // 0..200 above user rating
	confidenceBonus     = 0.5 // up to 100 below user rating
	stretchUpperBound   = 200
	confidenceLowerDiff = -100
)

// WeaknessInput carries the aggregated per-topic numbers the weakness
// formula consumes.
type WeaknessInput struct {
	Attempts      int
	Successes     int
	ProblemRating int // average rating of attempted problems
	UserRating    int
	DaysSinceLast float64
}

// Weakness computes the weighted weakness score for a topic. A perfect
// record, or no attempts at all, yields exactly 0. Higher means weaker.
func Weakness(in WeaknessInput) float64 {
	if in.Attempts == 0 {
		return 0
	}
	failures := in.Attempts - in.Successes
	if failures <= 0 {
		return 0
	}

	failureRate := float64(failures) / float64(in.Attempts)
	base := failureRate * WrongSubmissionBaseWeight

	userRating := in.UserRating
	if userRating < minComparableRating {
		userRating = minComparableRating
	}
	ratingRatio := float64(in.ProblemRating) / float64(userRating)
	difficultyWeight := math.Min(ratingRatio*DifficultyMultiplier, MaxDifficultyWeight)

	attemptPenalty := 1.0 + float64(failures)*RepeatedAttemptPenalty

	cappedDays := math.Min(in.DaysSinceLast, TimeDecayMaxDays)
	timeWeight := math.Pow(TimeDecayFactor, cappedDays)

	return round(base*difficultyWeight*attemptPenalty*timeWeight, 4)
}

// ImpactInput describes one candidate problem against the user's detected
// weak spots.
type ImpactInput struct {
	Tags       []string // canonical problem tags
	Rating     int
	WeakTopics map[string]struct{}
	WeakBands  map[int]struct{} // band lower bounds
	UserRating int
}

// Impact scores how much a recommendation addresses known weaknesses.
// Higher means a better match.
func Impact(in ImpactInput) float64 {
	score := 0.0

	for _, tag := range in.Tags {
		if _, ok := in.WeakTopics[tag]; ok {
			score += weakTopicBonus
		}
	}

	if _, ok := in.WeakBands[model.Band(in.Rating)]; ok {
		score += weakBandBonus
	}

	diff := in.Rating - in.UserRating
	switch {
	case diff >= 0 && diff <= stretchUpperBound:
		score += stretchBonus // slightly harder, good for growth
	case diff >= confidenceLowerDiff && diff < 0:
		score += confidenceBonus // slightly easier, confidence building
	}

	return round(score, 2)
}

// round truncates to the given number of decimal places, half away from zero.
func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
