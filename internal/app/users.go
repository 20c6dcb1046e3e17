package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/skill"
	"github.com/okian/cpcoach/internal/domain/target"
	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

// Profile returns the public view of a user, registering unknown handles.
// First contact fetches the profile from upstream and schedules an
// asynchronous history sync.
func (s *Service) Profile(ctx context.Context, handle string) (types.UserProfile, error) {
	u, err := s.users.Get(ctx, handle)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.register(ctx, handle)
	}
	if err != nil {
		return types.UserProfile{}, err
	}
	return s.profileOf(u, 0), nil
}

// register creates a tracked user from their upstream profile and queues
// the first history sync.
func (s *Service) register(ctx context.Context, handle string) (types.UserProfile, error) {
	info, err := s.upstream.UserInfo(ctx, handle)
	if err != nil {
		return types.UserProfile{}, err
	}

	err = s.users.Mutate(ctx, handle, func(u *repository.User) error {
		u.Rating = info.Rating
		u.MaxRating = info.MaxRating
		u.Rank = info.Rank
		u.SyncState = types.SyncPending
		return nil
	})
	if err != nil {
		return types.UserProfile{}, err
	}

	s.EnqueueSync(ctx, handle)
	s.logger.Info(ctx, "tracking new user",
		logger.String("handle", handle),
		logger.Int("rating", info.Rating))

	u, err := s.users.Get(ctx, handle)
	if err != nil {
		return types.UserProfile{}, err
	}
	return s.profileOf(u, 0), nil
}

// RecordSolve records a solve attempt reported through the API. An accepted
// verdict marks the problem solved and advances the per-topic skills; the
// judge decides whether the solve counts as slow.
func (s *Service) RecordSolve(ctx context.Context, handle, problemID string, verdict model.Verdict, taken time.Duration) (types.InteractionAck, error) {
	problem, err := s.catalog.Get(ctx, problemID)
	if err != nil {
		return types.InteractionAck{}, errors.Join(ErrUnknownProblem, err)
	}

	now := time.Now()
	slow := verdict.Accepted() && s.judge.Slow(problem.Rating, taken)

	var updated repository.User
	err = s.users.Mutate(ctx, handle, func(u *repository.User) error {
		u.Interactions = append(u.Interactions, model.Interaction{
			Kind:          model.InteractionSolve,
			ProblemID:     problem.ID,
			ProblemRating: problem.Rating,
			Verdict:       verdict,
			Slow:          slow,
			TimeTaken:     taken,
			At:            now,
		})
		if verdict.Accepted() {
			if u.Solved == nil {
				u.Solved = make(map[string]struct{})
			}
			if _, seen := u.Solved[problem.ID]; !seen {
				u.Solved[problem.ID] = struct{}{}
				u.SolvedCount++
				u.Skills = skill.ApplySolve(u.Skills, problem.Tags, problem.Rating, now)
			}
		}
		updated = *u
		return nil
	})
	if err != nil {
		return types.InteractionAck{}, err
	}

	metrics.RecordSolve()
	return types.InteractionAck{
		Handle:       handle,
		ProblemID:    problem.ID,
		Kind:         model.InteractionSolve,
		Slow:         slow,
		TargetRating: s.targetFor(updated, "", 0),
		RecordedAt:   now,
	}, nil
}

// RecordSkip records a skip with optional difficulty feedback. Skipping a
// problem as too easy also marks it solved; the skip lands one second after
// the implied solve so it stays the most recent interaction.
func (s *Service) RecordSkip(ctx context.Context, handle, problemID string, feedback model.SkipFeedback) (types.InteractionAck, error) {
	switch feedback {
	case model.FeedbackNone, model.FeedbackTooEasy, model.FeedbackTooHard:
	default:
		return types.InteractionAck{}, ErrInvalidFeedback
	}

	problem, err := s.catalog.Get(ctx, problemID)
	if err != nil {
		return types.InteractionAck{}, errors.Join(ErrUnknownProblem, err)
	}

	now := time.Now()

	var updated repository.User
	err = s.users.Mutate(ctx, handle, func(u *repository.User) error {
		if feedback == model.FeedbackTooEasy {
			u.Interactions = append(u.Interactions, model.Interaction{
				Kind:          model.InteractionSolve,
				ProblemID:     problem.ID,
				ProblemRating: problem.Rating,
				Verdict:       model.VerdictAccepted,
				At:            now,
			})
			if u.Solved == nil {
				u.Solved = make(map[string]struct{})
			}
			if _, seen := u.Solved[problem.ID]; !seen {
				u.Solved[problem.ID] = struct{}{}
				u.SolvedCount++
				u.Skills = skill.ApplySolve(u.Skills, problem.Tags, problem.Rating, now)
			}
		}
		u.Interactions = append(u.Interactions, model.Interaction{
			Kind:          model.InteractionSkip,
			ProblemID:     problem.ID,
			ProblemRating: problem.Rating,
			Feedback:      feedback,
			At:            now.Add(time.Second),
		})
		u.SkippedCount++
		updated = *u
		return nil
	})
	if err != nil {
		return types.InteractionAck{}, err
	}

	metrics.RecordSkip()
	return types.InteractionAck{
		Handle:       handle,
		ProblemID:    problem.ID,
		Kind:         model.InteractionSkip,
		TargetRating: s.targetFor(updated, "", 0),
		RecordedAt:   now,
	}, nil
}

// targetFor computes the user's current target difficulty. The
// progressive-overload floor is per topic: only solves in the requested
// topic raise it, so a strong solve elsewhere cannot push an unrelated
// topic's window out of reach. No topic means no floor.
func (s *Service) targetFor(u repository.User, topic string, offset int) int {
	last, hasLast := target.Latest(u.Interactions)
	rating := u.Rating
	if rating <= 0 {
		rating = model.MinRating
	}
	floor := 0
	if topic != "" {
		floor = u.Skills[topic].MaxSolvedRating
	}
	return target.Calculate(rating, last, hasLast, floor, offset)
}

func (s *Service) profileOf(u repository.User, offset int) types.UserProfile {
	return types.UserProfile{
		Handle:       u.Handle,
		Rating:       u.Rating,
		MaxRating:    u.MaxRating,
		Rank:         u.Rank,
		TargetRating: s.targetFor(u, "", offset),
		SolvedCount:  u.SolvedCount,
		SkippedCount: u.SkippedCount,
		SyncState:    u.SyncState,
		LastSyncedAt: u.LastSyncedAt,
	}
}
