package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/adapters/codeforces"
	"github.com/okian/cpcoach/internal/adapters/repository"
	service "github.com/okian/cpcoach/internal/app"
	"github.com/okian/cpcoach/internal/domain/guard"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/types"
	"github.com/okian/cpcoach/internal/domain/weakness"
	"github.com/okian/cpcoach/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// fakeUpstream is an in-memory stand-in for the Codeforces client.
type fakeUpstream struct {
	mu       sync.Mutex
	users    map[string]codeforces.UserInfo
	subs     map[string][]model.Submission
	problems []model.Problem

	problemsErr error

	userInfoCalls    int
	submissionsCalls int
	problemsCalls    int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		users: make(map[string]codeforces.UserInfo),
		subs:  make(map[string][]model.Submission),
	}
}

func (f *fakeUpstream) UserInfo(_ context.Context, handle string) (codeforces.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userInfoCalls++
	info, ok := f.users[handle]
	if !ok {
		return codeforces.UserInfo{}, codeforces.ErrHandleNotFound
	}
	return info, nil
}

func (f *fakeUpstream) UserSubmissions(_ context.Context, handle string, _ int) ([]model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissionsCalls++
	return f.subs[handle], nil
}

func (f *fakeUpstream) Problems(_ context.Context) ([]model.Problem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.problemsCalls++
	if f.problemsErr != nil {
		return nil, f.problemsErr
	}
	return f.problems, nil
}

// countingSummarizer numbers each generated summary so cache hits are
// distinguishable from regeneration.
type countingSummarizer struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSummarizer) Summarize(_ context.Context, _ weakness.Report) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return fmt.Sprintf("summary %d", c.calls), nil
}

func mustProblem(contestID int, index string, rating int, problemTags ...string) model.Problem {
	p, err := model.NewProblem(contestID, index, "problem "+index, rating, problemTags)
	if err != nil {
		panic(err)
	}
	return p
}

func seededCatalog(problems ...model.Problem) repository.CatalogStore {
	catalog := repository.NewInMemoryCatalog()
	if err := catalog.Upsert(context.Background(), problems); err != nil {
		panic(err)
	}
	return catalog
}

func defaultProblems() []model.Problem {
	return []model.Problem{
		mustProblem(100, "A", 1100, "implementation"),
		mustProblem(101, "A", 1200, "dp"),
		mustProblem(102, "A", 1250, "greedy"),
		mustProblem(103, "A", 1300, "dp", "graphs"),
		mustProblem(104, "A", 1600, "trees"),
	}
}

func newTestService(up service.Upstream, extra ...service.Option) *service.Service {
	opts := append([]service.Option{
		service.WithUpstream(up),
		service.WithCatalogStore(seededCatalog(defaultProblems()...)),
		service.WithCatalogMinSize(1),
		service.WithWorkerCount(1),
		service.WithQueueSize(32),
	}, extra...)
	return service.New(opts...)
}

func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithHistoryDepth(200),
			service.WithSummaryTTL(time.Hour),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service wired to a fake upstream", t, func() {
		up := newFakeUpstream()
		svc := newTestService(up)
		defer svc.Stop()

		ctx := context.Background()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping should mark it stopped", func() {
				svc.Stop()
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Profile(t *testing.T) {
	Convey("Given a started service", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200, MaxRating: 1350, Rank: "pupil"}

		svc := newTestService(up)
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When an unknown handle is requested", func() {
			profile, err := svc.Profile(ctx, "alice")

			Convey("Then the user is registered from upstream", func() {
				So(err, ShouldBeNil)
				So(profile.Handle, ShouldEqual, "alice")
				So(profile.Rating, ShouldEqual, 1200)
				So(profile.MaxRating, ShouldEqual, 1350)
				So(profile.Rank, ShouldEqual, "pupil")
			})

			Convey("And the first history sync completes in the background", func() {
				ok := waitFor(2*time.Second, func() bool {
					p, err := svc.Profile(ctx, "alice")
					return err == nil && p.SyncState == types.SyncDone
				})
				So(ok, ShouldBeTrue)

				p, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.LastSyncedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When a handle the upstream does not know is requested", func() {
			_, err := svc.Profile(ctx, "ghost")

			Convey("Then the upstream error surfaces", func() {
				So(errors.Is(err, codeforces.ErrHandleNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_RecordSolve(t *testing.T) {
	Convey("Given a started service with a registered user", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		svc := newTestService(up)
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Profile(ctx, "alice")
		So(err, ShouldBeNil)

		Convey("When a fast accepted solve is recorded", func() {
			ack, err := svc.RecordSolve(ctx, "alice", "103A", model.VerdictAccepted, 10*time.Minute)

			Convey("Then the ack reflects the solve and a raised target", func() {
				So(err, ShouldBeNil)
				So(ack.Kind, ShouldEqual, model.InteractionSolve)
				So(ack.ProblemID, ShouldEqual, "103A")
				So(ack.Slow, ShouldBeFalse)
				// Anchor is the 1300 problem, fast solve pushes up.
				So(ack.TargetRating, ShouldEqual, 1400)
			})

			Convey("And the profile counts the solve once", func() {
				p, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.SolvedCount, ShouldEqual, 1)

				_, err = svc.RecordSolve(ctx, "alice", "103A", model.VerdictAccepted, 5*time.Minute)
				So(err, ShouldBeNil)

				p, err = svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.SolvedCount, ShouldEqual, 1)
			})
		})

		Convey("When a slow accepted solve is recorded", func() {
			// 1300-rated problems allow 39 minutes before counting as slow.
			ack, err := svc.RecordSolve(ctx, "alice", "103A", model.VerdictAccepted, 50*time.Minute)

			Convey("Then the target holds at the anchor", func() {
				So(err, ShouldBeNil)
				So(ack.Slow, ShouldBeTrue)
				So(ack.TargetRating, ShouldEqual, 1300)
			})
		})

		Convey("When a rejected attempt is recorded", func() {
			ack, err := svc.RecordSolve(ctx, "alice", "103A", model.VerdictRejected, 20*time.Minute)

			Convey("Then the target eases below the anchor", func() {
				So(err, ShouldBeNil)
				So(ack.Slow, ShouldBeFalse)
				So(ack.TargetRating, ShouldEqual, 1250)

				p, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.SolvedCount, ShouldEqual, 0)
			})
		})

		Convey("When the problem is not in the catalog", func() {
			_, err := svc.RecordSolve(ctx, "alice", "999Z", model.VerdictAccepted, time.Minute)
			So(errors.Is(err, service.ErrUnknownProblem), ShouldBeTrue)
		})
	})
}

func TestService_RecordSkip(t *testing.T) {
	Convey("Given a started service with a registered user", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		svc := newTestService(up)
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Profile(ctx, "alice")
		So(err, ShouldBeNil)

		Convey("When a problem is skipped as too hard", func() {
			ack, err := svc.RecordSkip(ctx, "alice", "104A", model.FeedbackTooHard)

			Convey("Then the target drops below the problem", func() {
				So(err, ShouldBeNil)
				So(ack.Kind, ShouldEqual, model.InteractionSkip)
				So(ack.TargetRating, ShouldEqual, 1500)

				p, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.SkippedCount, ShouldEqual, 1)
				So(p.SolvedCount, ShouldEqual, 0)
			})
		})

		Convey("When a problem is skipped as too easy", func() {
			ack, err := svc.RecordSkip(ctx, "alice", "103A", model.FeedbackTooEasy)

			Convey("Then the problem counts as solved and the target rises", func() {
				So(err, ShouldBeNil)
				So(ack.TargetRating, ShouldEqual, 1400)

				p, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(p.SolvedCount, ShouldEqual, 1)
				So(p.SkippedCount, ShouldEqual, 1)
			})
		})

		Convey("When a neutral skip is recorded", func() {
			ack, err := svc.RecordSkip(ctx, "alice", "103A", model.FeedbackNone)

			Convey("Then the target returns to the user's rating", func() {
				So(err, ShouldBeNil)
				So(ack.TargetRating, ShouldEqual, 1200)
			})
		})

		Convey("When the feedback value is unknown", func() {
			_, err := svc.RecordSkip(ctx, "alice", "103A", model.SkipFeedback("boring"))
			So(errors.Is(err, service.ErrInvalidFeedback), ShouldBeTrue)
		})

		Convey("When the problem is not in the catalog", func() {
			_, err := svc.RecordSkip(ctx, "alice", "999Z", model.FeedbackNone)
			So(errors.Is(err, service.ErrUnknownProblem), ShouldBeTrue)
		})
	})
}

func TestService_Recommend(t *testing.T) {
	Convey("Given a started service with a registered user", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		svc := newTestService(up)
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Profile(ctx, "alice")
		So(err, ShouldBeNil)

		Convey("When a recommendation is requested", func() {
			rec, err := svc.Recommend(ctx, "alice", "", 0)

			Convey("Then a problem near the target is picked", func() {
				So(err, ShouldBeNil)
				So(rec.Handle, ShouldEqual, "alice")
				So(rec.Pool.Target, ShouldEqual, 1200)
				So(rec.Picked.Problem.ID, ShouldEqual, "101A")
				So(rec.Picked.Reason, ShouldNotBeEmpty)
				// Problem at the user's exact level: stretch bonus only.
				So(rec.Picked.Impact, ShouldEqual, 1.0)
			})
		})

		Convey("When a topic narrows the pool", func() {
			rec, err := svc.Recommend(ctx, "alice", "Dynamic Programming", 0)

			Convey("Then only problems with the canonical tag qualify", func() {
				So(err, ShouldBeNil)
				So(rec.Topic, ShouldEqual, "dp")
				So(rec.Picked.Problem.ID, ShouldEqual, "101A")
			})
		})

		Convey("When an offset shifts the target", func() {
			rec, err := svc.Recommend(ctx, "alice", "", 300)

			Convey("Then the window moves with it", func() {
				So(err, ShouldBeNil)
				So(rec.Pool.Target, ShouldEqual, 1500)
				So(rec.Picked.Problem.ID, ShouldEqual, "104A")
			})
		})

		Convey("When the handle is not tracked", func() {
			_, err := svc.Recommend(ctx, "nobody", "", 0)
			So(errors.Is(err, repository.ErrUserNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a user whose only strong solve sits in one topic", t, func() {
		up := newFakeUpstream()
		up.users["bob"] = codeforces.UserInfo{Handle: "bob", Rating: 1000}
		up.subs["bob"] = []model.Submission{{
			ID:        1,
			ContestID: 300,
			Index:     "E",
			Name:      "hard dp",
			Rating:    1800,
			Tags:      []string{"dp"},
			Verdict:   model.VerdictAccepted,
			At:        time.Unix(1700000000, 0),
		}}

		svc := newTestService(up, service.WithCatalogStore(seededCatalog(
			mustProblem(200, "A", 1000, "geometry"),
			mustProblem(201, "A", 1100, "geometry"),
			mustProblem(300, "E", 1800, "dp"),
			mustProblem(301, "B", 1750, "dp"),
		)))
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Profile(ctx, "bob")
		So(err, ShouldBeNil)
		So(waitFor(2*time.Second, func() bool {
			p, err := svc.Profile(ctx, "bob")
			return err == nil && p.SyncState == types.SyncDone
		}), ShouldBeTrue)

		Convey("When recommending an unrelated topic", func() {
			rec, err := svc.Recommend(ctx, "bob", "geometry", 0)

			Convey("Then the overload floor from the other topic does not apply", func() {
				So(err, ShouldBeNil)
				So(rec.Pool.Target, ShouldEqual, 1000)
				So(rec.Picked.Problem.ID, ShouldEqual, "200A")
			})
		})

		Convey("When recommending the topic that was solved high", func() {
			rec, err := svc.Recommend(ctx, "bob", "dp", 0)

			Convey("Then the floor holds the target at the proven level", func() {
				So(err, ShouldBeNil)
				So(rec.Pool.Target, ShouldEqual, 1800)
				So(rec.Picked.Problem.ID, ShouldEqual, "301B")
			})
		})
	})
}

func TestService_Weaknesses(t *testing.T) {
	Convey("Given a user with contest history upstream", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		base := time.Now().Add(-48 * time.Hour)
		var subs []model.Submission
		// Eight dp attempts in one contest, two accepted.
		for i := 0; i < 8; i++ {
			verdict := "WRONG_ANSWER"
			if i < 2 {
				verdict = "OK"
			}
			subs = append(subs, model.Submission{
				ID:                  int64(i + 1),
				ContestID:           2000,
				Index:               string(rune('A' + i)),
				Rating:              1400,
				Tags:                []string{"dp"},
				Verdict:             model.ParseVerdict(verdict),
				RelativeTimeSeconds: int64(600 * (i + 1)),
				At:                  base.Add(time.Duration(i) * time.Minute),
			})
		}
		up.subs["alice"] = subs

		summarizer := &countingSummarizer{}
		svc := newTestService(up, service.WithSummarizer(summarizer))
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Profile(ctx, "alice")
		So(err, ShouldBeNil)

		// Let the registration sync land so the analysis never races the
		// worker for the sync guard.
		So(waitFor(2*time.Second, func() bool {
			p, err := svc.Profile(ctx, "alice")
			return err == nil && p.SyncState == types.SyncDone
		}), ShouldBeTrue)

		Convey("When the analysis runs", func() {
			report, err := svc.Weaknesses(ctx, "alice", false, false)

			Convey("Then it reports the weak topic and band", func() {
				So(err, ShouldBeNil)
				So(report.Report.Handle, ShouldEqual, "alice")
				So(report.GeneratedAt.IsZero(), ShouldBeFalse)
				So(len(report.Report.Topics), ShouldBeGreaterThan, 0)
				So(report.Report.Topics[0].Topic, ShouldEqual, "dp")
				So(report.Report.Summary, ShouldEqual, "summary 1")
			})

			Convey("And the summary is cached for identical findings", func() {
				again, err := svc.Weaknesses(ctx, "alice", false, false)
				So(err, ShouldBeNil)
				So(again.Report.Summary, ShouldEqual, "summary 1")
			})

			Convey("And refresh regenerates it", func() {
				again, err := svc.Weaknesses(ctx, "alice", false, true)
				So(err, ShouldBeNil)
				So(again.Report.Summary, ShouldEqual, "summary 2")
			})
		})

		Convey("When a sync is forced before the analysis", func() {
			up.mu.Lock()
			before := up.submissionsCalls
			up.mu.Unlock()

			_, err := svc.Weaknesses(ctx, "alice", true, false)

			Convey("Then the history is refetched from upstream", func() {
				So(err, ShouldBeNil)
				up.mu.Lock()
				after := up.submissionsCalls
				up.mu.Unlock()
				So(after, ShouldEqual, before+1)
			})
		})

		Convey("When a recommendation is requested for the weak topic", func() {
			rec, err := svc.Recommend(ctx, "alice", "dp", 0)

			Convey("Then each candidate carries its weakness impact score", func() {
				So(err, ShouldBeNil)
				So(rec.Picked.Problem.ID, ShouldEqual, "103A")
				// Weak dp topic bonus 3 plus the stretch bonus 1.
				So(rec.Picked.Impact, ShouldEqual, 4.0)
			})
		})

		Convey("When the handle is not tracked", func() {
			_, err := svc.Weaknesses(ctx, "nobody", false, false)
			So(errors.Is(err, repository.ErrUserNotFound), ShouldBeTrue)
		})
	})
}

func TestService_SyncGuard(t *testing.T) {
	Convey("Given a service whose sync guard is already held", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		g := guard.NewInMemoryGuard()
		ctx := context.Background()
		So(g.Acquire(ctx, "alice"), ShouldBeTrue)

		svc := newTestService(up, service.WithSyncGuard(g))
		defer svc.Stop()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When a sync is attempted for the held handle", func() {
			err := svc.SyncUser(ctx, "alice", 0)

			Convey("Then it reports the in-flight sync", func() {
				So(errors.Is(err, service.ErrSyncInFlight), ShouldBeTrue)
			})
		})

		Convey("When the guard is released", func() {
			g.Release(ctx, "alice")

			Convey("Then the sync goes through", func() {
				So(svc.SyncUser(ctx, "alice", 0), ShouldBeNil)

				u, err := svc.Profile(ctx, "alice")
				So(err, ShouldBeNil)
				So(u.SyncState, ShouldEqual, types.SyncDone)
			})
		})
	})
}

func TestService_Seed(t *testing.T) {
	Convey("Given a service with an empty catalog", t, func() {
		ctx := context.Background()

		Convey("When the upstream returns problems", func() {
			up := newFakeUpstream()
			up.problems = defaultProblems()

			svc := service.New(
				service.WithUpstream(up),
				service.WithCatalogStore(repository.NewInMemoryCatalog()),
				service.WithWorkerCount(1),
			)
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then seeding fills the catalog", func() {
				ok := waitFor(2*time.Second, func() bool {
					return svc.Stats(ctx).Problems == len(defaultProblems())
				})
				So(ok, ShouldBeTrue)
				So(svc.Stats(ctx).CatalogSyncedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the upstream fails", func() {
			up := newFakeUpstream()
			up.problemsErr = errors.New("listing down")

			svc := service.New(
				service.WithUpstream(up),
				service.WithCatalogStore(repository.NewInMemoryCatalog()),
				service.WithWorkerCount(1),
			)
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then Seed surfaces the error", func() {
				So(svc.Seed(ctx), ShouldNotBeNil)
			})
		})

		Convey("When the upstream returns an empty problemset", func() {
			up := newFakeUpstream()

			svc := service.New(
				service.WithUpstream(up),
				service.WithCatalogStore(repository.NewInMemoryCatalog()),
				service.WithWorkerCount(1),
			)
			defer svc.Stop()
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then Seed refuses to store nothing", func() {
				So(svc.Seed(ctx), ShouldNotBeNil)
			})
		})
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given a started service", t, func() {
		up := newFakeUpstream()
		up.users["alice"] = codeforces.UserInfo{Handle: "alice", Rating: 1200}

		svc := newTestService(up)
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When no users are tracked yet", func() {
			stats := svc.Stats(ctx)
			So(stats.Users, ShouldEqual, 0)
			So(stats.Problems, ShouldEqual, len(defaultProblems()))
		})

		Convey("When a user registers", func() {
			_, err := svc.Profile(ctx, "alice")
			So(err, ShouldBeNil)

			stats := svc.Stats(ctx)
			So(stats.Users, ShouldEqual, 1)
		})

		Convey("When the service is stopped", func() {
			svc.Stop()
			So(svc.Stats(ctx), ShouldResemble, types.Stats{})
		})
	})
}
