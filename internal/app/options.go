package service

import (
	"time"

	"github.com/okian/cpcoach/internal/adapters/cache"
	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/coach"
	"github.com/okian/cpcoach/internal/domain/guard"
	"github.com/okian/cpcoach/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of sync worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the sync queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithHistoryDepth sets how many submissions a sync fetches per user.
func WithHistoryDepth(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyDepth = n
		}
	}
}

// WithCatalogMinSize sets the catalog size below which Seed refetches.
func WithCatalogMinSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.catalogMinSize = n
		}
	}
}

// WithSummaryTTL sets how long generated weakness summaries stay cached.
func WithSummaryTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.summaryTTL = ttl
		}
	}
}

// WithUpstream injects the Codeforces client.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		if u != nil {
			s.upstream = u
		}
	}
}

// WithUserStore injects the user state store.
func WithUserStore(store repository.UserStore) Option {
	return func(s *Service) {
		if store != nil {
			s.users = store
		}
	}
}

// WithCatalogStore injects the problem catalog store.
func WithCatalogStore(store repository.CatalogStore) Option {
	return func(s *Service) {
		if store != nil {
			s.catalog = store
		}
	}
}

// WithSyncGuard injects the per-handle single-flight guard.
func WithSyncGuard(g guard.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.syncGuard = g
		}
	}
}

// WithSummaryCache injects the cache holding generated summaries.
func WithSummaryCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.summaries = c
		}
	}
}

// WithSummarizer injects the weakness summarizer.
func WithSummarizer(sum coach.Summarizer) Option {
	return func(s *Service) {
		if sum != nil {
			s.summarizer = sum
		}
	}
}

// WithPicker injects the recommendation picker.
func WithPicker(p coach.Picker) Option {
	return func(s *Service) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithSolveJudge injects the solve speed judge.
func WithSolveJudge(j coach.SolveJudge) Option {
	return func(s *Service) {
		if j != nil {
			s.judge = j
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
