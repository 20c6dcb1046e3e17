package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/internal/domain/upsolve"
	"github.com/okian/cpcoach/internal/domain/weakness"
	"github.com/okian/cpcoach/pkg/logger"
	"github.com/okian/cpcoach/pkg/metrics"
)

// Weaknesses computes the full weakness analysis for a user: weak rating
// bands, weak topics, the per-topic breakdown, a generated summary, and
// upsolve suggestions. forceSync refreshes the history from upstream before
// analyzing. refresh regenerates the summary even when a cached one exists
// for the same findings, and reshuffles the upsolve pool.
func (s *Service) Weaknesses(ctx context.Context, handle string, forceSync, refresh bool) (types.AnalysisReport, error) {
	u, err := s.users.Get(ctx, handle)
	if err != nil {
		return types.AnalysisReport{}, err
	}

	// First analysis for a freshly tracked user syncs inline rather than
	// reporting on an empty history; forceSync does the same on demand.
	if forceSync || len(u.Submissions) == 0 {
		if err := s.SyncUser(ctx, handle, s.historyDepth); err != nil {
			if errors.Is(err, ErrSyncInFlight) {
				if len(u.Submissions) == 0 {
					return types.AnalysisReport{}, ErrNotSynced
				}
				// A sync is already running; analyze the history we have.
			} else {
				return types.AnalysisReport{}, err
			}
		} else if u, err = s.users.Get(ctx, handle); err != nil {
			return types.AnalysisReport{}, err
		}
	}

	now := time.Now()
	report := weakness.Report{
		Handle:     handle,
		Rating:     u.Rating,
		WeakBands:  weakness.WeakBands(u.ContestStats),
		WeakTopics: weakness.WeakTopics(u.ContestStats),
	}
	breakdown := weakness.AggregateTopics(u.Submissions, u.Rating, now)
	report.Topics = weakness.RankTopics(breakdown,
		weakness.DefaultMinAttempts, weakness.DefaultTopicLimit)

	report.Summary = s.summarize(ctx, report, refresh)

	in := upsolve.Input{
		Stats:      u.ContestStats,
		UserRating: u.Rating,
		WeakTopics: topicSet(report.WeakTopics),
		WeakBands:  bandSet(report.WeakBands),
	}
	suggestions := upsolve.Select(in)
	if refresh {
		suggestions = upsolve.SelectShuffled(in)
	}

	metrics.RecordAnalysis()
	return types.AnalysisReport{
		Report:      report,
		Upsolve:     suggestions,
		GeneratedAt: now,
	}, nil
}

// summarize returns a summary for the report, cached by findings so the
// same weaknesses never pay for generation twice.
func (s *Service) summarize(ctx context.Context, report weakness.Report, refresh bool) string {
	key := "summary:" + report.Fingerprint()

	if !refresh {
		if cached, err := s.summaries.Get(ctx, key); err == nil {
			return string(cached)
		}
	}

	summary, err := s.summarizer.Summarize(ctx, report)
	if err != nil {
		s.logger.Warn(ctx, "summary generation failed",
			logger.String("handle", report.Handle), logger.Error(err))
		return ""
	}

	if err := s.summaries.Set(ctx, key, []byte(summary), s.summaryTTL); err != nil {
		s.logger.Warn(ctx, "summary cache write failed", logger.Error(err))
	}
	return summary
}

func topicSet(topics []weakness.TopicReport) map[string]struct{} {
	out := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		out[t.Topic] = struct{}{}
	}
	return out
}

func bandSet(bands []weakness.BandReport) map[int]struct{} {
	out := make(map[int]struct{}, len(bands))
	for _, b := range bands {
		out[b.Band] = struct{}{}
	}
	return out
}
