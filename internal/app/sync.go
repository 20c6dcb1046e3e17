package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	syncqueue "github.com/okian/cpcoach/internal/adapters/mq/queue"
	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/skill"
	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/internal/domain/weakness"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

// EnqueueSync schedules an asynchronous history refresh for handle.
// Returns false when the queue is full.
func (s *Service) EnqueueSync(ctx context.Context, handle string) bool {
	ok := s.syncQueue.Enqueue(ctx, syncqueue.NewJob(handle, s.historyDepth))
	if !ok {
		s.logger.Warn(ctx, "sync queue full, job dropped",
			logger.String("handle", handle))
	}
	return ok
}

// SyncUser refreshes one user's history from upstream. Only one sync per
// handle runs at a time; a concurrent attempt returns ErrSyncInFlight.
func (s *Service) SyncUser(ctx context.Context, handle string, count int) error {
	if !s.syncGuard.Acquire(ctx, handle) {
		return fmt.Errorf("%w: %s", ErrSyncInFlight, handle)
	}
	defer s.syncGuard.Release(ctx, handle)
	metrics.UpdateActiveSyncs(s.syncGuard.Active())

	if count <= 0 {
		count = s.historyDepth
	}

	info, err := s.upstream.UserInfo(ctx, handle)
	if err != nil {
		s.markSyncFailed(ctx, handle)
		return fmt.Errorf("fetch user info: %w", err)
	}

	subs, err := s.upstream.UserSubmissions(ctx, handle, count)
	if err != nil {
		s.markSyncFailed(ctx, handle)
		return fmt.Errorf("fetch submissions: %w", err)
	}

	stats := weakness.BuildContestStats(subs)

	return s.users.Mutate(ctx, handle, func(u *repository.User) error {
		u.Rating = info.Rating
		u.MaxRating = info.MaxRating
		u.Rank = info.Rank
		u.Submissions = subs
		u.ContestStats = stats
		u.Skills = skill.MergeHistory(u.Skills, subs)
		if u.Solved == nil {
			u.Solved = make(map[string]struct{})
		}
		for _, sub := range subs {
			if sub.Verdict.Accepted() && sub.ContestID > 0 && sub.Index != "" {
				u.Solved[sub.ProblemKey()] = struct{}{}
			}
		}
		u.SyncState = types.SyncDone
		u.LastSyncedAt = time.Now()
		return nil
	})
}

func (s *Service) markSyncFailed(ctx context.Context, handle string) {
	err := s.users.Mutate(ctx, handle, func(u *repository.User) error {
		u.SyncState = types.SyncFailed
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to record sync failure",
			logger.String("handle", handle), logger.Error(err))
	}
}

// Seed loads the problem catalog from upstream when it is missing or too
// small to recommend from.
func (s *Service) Seed(ctx context.Context) error {
	if s.catalog.Count(ctx) >= s.catalogMinSize {
		return nil
	}

	problems, err := s.upstream.Problems(ctx)
	if err != nil {
		return fmt.Errorf("fetch problemset: %w", err)
	}
	if len(problems) == 0 {
		return errors.New("upstream returned empty problemset")
	}

	if err := s.catalog.Upsert(ctx, problems); err != nil {
		return fmt.Errorf("store problemset: %w", err)
	}

	s.logger.Info(ctx, "problem catalog seeded",
		logger.Int("problems", len(problems)))
	return nil
}
