package service

import (
	"context"
	"errors"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/recommend"
	"github.com/okian/cpcoach/internal/domain/scoring"
	"github.com/okian/cpcoach/internal/domain/skill"
	"github.com/okian/cpcoach/internal/domain/tags"
	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/internal/domain/weakness"
	"github.com/okian/cpcoach/pkg/metrics"
)

// Recommend returns a problem pool around the user's target difficulty and
// one picked problem. topic narrows the pool to a canonical tag; offset
// shifts the target within its clamp.
func (s *Service) Recommend(ctx context.Context, handle, topic string, offset int) (types.Recommendation, error) {
	u, err := s.users.Get(ctx, handle)
	if err != nil {
		return types.Recommendation{}, err
	}

	if topic != "" {
		topic = tags.Normalize(topic)
	}

	targetRating := s.targetFor(u, topic, offset)
	solved := u.Solved
	if solved == nil {
		solved = map[string]struct{}{}
	}
	cooling := recommend.CooldownSkips(u.Interactions)

	// Primary path: the rating window around the target.
	window, err := s.catalog.ByRatingRange(ctx,
		targetRating-recommend.RatingWindow, targetRating+recommend.RatingWindow)
	if err != nil {
		return types.Recommendation{}, err
	}

	result := recommend.Result{Target: targetRating}
	if filtered := recommend.Filter(window, targetRating, topic, solved, cooling); len(filtered) > 0 {
		result.Candidates = recommend.Rank(filtered, targetRating)
	} else {
		all, err := s.catalog.All(ctx)
		if err != nil {
			return types.Recommendation{}, err
		}
		result = recommend.Build(all, targetRating, topic, solved, cooling)
	}

	if len(result.Candidates) == 0 {
		return types.Recommendation{}, ErrNoCandidates
	}

	weakTopics := topicSet(weakness.WeakTopics(u.ContestStats))
	weakBands := bandSet(weakness.WeakBands(u.ContestStats))
	for i := range result.Candidates {
		c := &result.Candidates[i]
		c.Impact = scoring.Impact(scoring.ImpactInput{
			Tags:       c.Problem.Tags,
			Rating:     c.Problem.Rating,
			WeakTopics: weakTopics,
			WeakBands:  weakBands,
			UserRating: u.Rating,
		})
	}

	picked, err := s.picker.Pick(ctx, result.Candidates)
	if err != nil {
		return types.Recommendation{}, err
	}

	metrics.RecordRecommendationServed()
	if result.Fallback {
		metrics.RecordFallbackRecommendation()
	}

	return types.Recommendation{
		Handle:  handle,
		Topic:   topic,
		Picked:  picked,
		Pool:    result,
		Skills:  skill.Sorted(u.Skills),
		Message: result.Message,
	}, nil
}

// Problems lists catalog problems, optionally narrowed by topic and rating
// bounds. Zero bounds mean the full supported range.
func (s *Service) Problems(ctx context.Context, topic string, lo, hi int) ([]model.Problem, error) {
	if lo <= 0 {
		lo = model.MinRating
	}
	if hi <= 0 {
		hi = model.MaxRating
	}
	if lo > hi {
		return nil, errors.New("rating bounds inverted")
	}

	problems, err := s.catalog.ByRatingRange(ctx, lo, hi)
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return problems, nil
	}

	topic = tags.Normalize(topic)
	var out []model.Problem
	for _, p := range problems {
		if p.HasTopic(topic) {
			out = append(out, p)
		}
	}
	return out, nil
}
