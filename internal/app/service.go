// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/cpcoach/internal/adapters/cache"
	"github.com/okian/cpcoach/internal/adapters/codeforces"
	syncqueue "github.com/okian/cpcoach/internal/adapters/mq/queue"
	workerpool "github.com/okian/cpcoach/internal/adapters/mq/worker"
	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/coach"
	"github.com/okian/cpcoach/internal/domain/guard"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

// Upstream is the slice of the Codeforces API the service consumes.
type Upstream interface {
	UserInfo(ctx context.Context, handle string) (codeforces.UserInfo, error)
	UserSubmissions(ctx context.Context, handle string, count int) ([]model.Submission, error)
	Problems(ctx context.Context) ([]model.Problem, error)
}

// Service wires the domain packages, stores, and the sync pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	users      repository.UserStore
	catalog    repository.CatalogStore
	upstream   Upstream
	syncQueue  syncqueue.Queue
	workerPool *workerpool.Pool
	syncGuard  guard.Guard
	summaries  cache.Cache

	// Advisory components
	summarizer coach.Summarizer
	picker     coach.Picker
	judge      coach.SolveJudge

	// Configuration
	workerCount    int
	queueSize      int
	historyDepth   int
	catalogMinSize int
	summaryTTL     time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    4,
		queueSize:      10000,
		historyDepth:   500,
		catalogMinSize: 100,
		summaryTTL:     24 * time.Hour,
		summarizer:     coach.NewTemplateSummarizer(),
		picker:         coach.NewFirstPicker(),
		judge:          coach.NewRatingJudge(),
		stopCh:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting coaching service...")

	if s.users == nil {
		s.users = repository.NewInMemoryUsers()
	}
	if s.catalog == nil {
		s.catalog = repository.NewInMemoryCatalog()
	}
	if s.syncGuard == nil {
		s.syncGuard = guard.NewInMemoryGuard()
	}
	if s.summaries == nil {
		s.summaries = cache.NewInMemory(cache.WithTTL(s.summaryTTL))
	}
	if s.upstream == nil {
		s.upstream = codeforces.NewClient()
	}

	s.syncQueue = syncqueue.NewInMemoryQueue(
		syncqueue.WithCapacity(s.queueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.syncQueue, s)
	s.workerPool.Start(ctx)

	// Seed the catalog in the background so startup does not block on the
	// upstream API.
	go func() {
		if err := s.Seed(ctx); err != nil {
			s.logger.Warn(ctx, "catalog seed failed", logger.Error(err))
		}
	}()

	s.started = true
	s.logger.Info(ctx, "coaching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("historyDepth", s.historyDepth),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping coaching service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.syncQueue != nil {
		_ = s.syncQueue.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "coaching service stopped")
}

// Stats returns the typed service snapshot served by the stats endpoint.
func (s *Service) Stats(ctx context.Context) types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.Stats{}
	}
	return types.Stats{
		Users:           s.users.Count(ctx),
		Problems:        s.catalog.Count(ctx),
		QueueDepth:      s.syncQueue.Len(ctx),
		ActiveSyncs:     s.syncGuard.Active(),
		CatalogSyncedAt: s.catalog.SyncedAt(ctx),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}

	if s.started {
		queueLen := s.syncQueue.Len(ctx)
		users := s.users.Count(ctx)
		problems := s.catalog.Count(ctx)
		active := s.syncGuard.Active()

		stats["queueLength"] = queueLen
		stats["trackedUsers"] = users
		stats["catalogSize"] = problems
		stats["activeSyncs"] = active
		if syncedAt := s.catalog.SyncedAt(ctx); !syncedAt.IsZero() {
			stats["catalogSyncedAt"] = syncedAt
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTrackedUsers(users)
		metrics.UpdateCatalogSize(problems)
		metrics.UpdateActiveSyncs(active)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
