// Package target derives the next practice difficulty from a user's most
// recent solve or skip. The calculation is a small state machine over the
// latest interaction, with a progressive-overload floor so the target never
// drops below what the user has already proven they can solve.
package target

import (
	"github.com/okian/cpcoach/internal/domain/model"
)

// Adjustment steps. All deltas apply on top of the higher of the user's
// rating and the rated problem they just interacted with.
const (
	FastSolveStep  = 100
	WrongPenalty   = 50
	TooEasyStep    = 100
	TooHardPenalty = 100

	// MaxOffset bounds the caller-supplied difficulty offset.
	MaxOffset = 500
)

// Latest picks the most recent interaction out of a history. Equal
// timestamps between a solve and a skip cancel out and yield no interaction,
// so the target falls back to the user's current rating.
func Latest(interactions []model.Interaction) (model.Interaction, bool) {
	var latest model.Interaction
	found := false
	tied := false
	for _, it := range interactions {
		switch {
		case !found || it.At.After(latest.At):
			latest = it
			found = true
			tied = false
		case it.At.Equal(latest.At) && it.Kind != latest.Kind:
			tied = true
		}
	}
	if tied {
		return model.Interaction{}, false
	}
	return latest, found
}

// Calculate returns the target difficulty for the next recommendation.
// maxSolved is the highest problem rating the user has solved in practice
// and acts as a floor; offset shifts the result and is clamped to
// [-MaxOffset, MaxOffset]. The final target is clamped to the valid
// problem rating range.
func Calculate(userRating int, last model.Interaction, hasLast bool, maxSolved, offset int) int {
	base := userRating
	if hasLast {
		base = fromInteraction(userRating, last)
	}

	if maxSolved > base {
		base = maxSolved
	}

	if offset > MaxOffset {
		offset = MaxOffset
	} else if offset < -MaxOffset {
		offset = -MaxOffset
	}

	return model.ClampRating(base + offset)
}

func fromInteraction(userRating int, last model.Interaction) int {
	anchor := userRating
	if last.ProblemRating > anchor {
		anchor = last.ProblemRating
	}

	switch last.Kind {
	case model.InteractionSolve:
		switch {
		case last.Verdict.Accepted() && !last.Slow:
			return anchor + FastSolveStep
		case last.Verdict.Accepted():
			return anchor
		default:
			return anchor - WrongPenalty
		}
	case model.InteractionSkip:
		switch last.Feedback {
		case model.FeedbackTooEasy:
			return anchor + TooEasyStep
		case model.FeedbackTooHard:
			return last.ProblemRating - TooHardPenalty
		default:
			return userRating
		}
	}
	return userRating
}
