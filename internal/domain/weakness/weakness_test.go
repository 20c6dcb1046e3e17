package weakness_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/weakness"
	"github.com/smartystreets/goconvey/convey"
)

func sub(contestID int, index string, rating int, verdict model.Verdict, tags []string, at time.Time) model.Submission {
	return model.Submission{
		ContestID: contestID,
		Index:     index,
		Rating:    rating,
		Tags:      tags,
		Verdict:   verdict,
		At:        at,
	}
}

func TestAggregateTopics(t *testing.T) {
	convey.Convey("Given raw submissions across topics", t, func() {
		now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		recent := now.Add(-24 * time.Hour)

		subs := []model.Submission{
			sub(100, "A", 1200, model.VerdictAccepted, []string{"dp"}, recent),
			sub(100, "B", 1400, model.VerdictRejected, []string{"dp"}, recent),
			sub(101, "A", 1300, model.VerdictRejected, []string{"dp", "graphs"}, recent),
			sub(101, "B", 1500, model.VerdictAccepted, []string{"graphs"}, recent),
			// No tags and no rating are skipped.
			sub(102, "A", 0, model.VerdictRejected, []string{"math"}, recent),
			sub(102, "B", 1200, model.VerdictRejected, nil, recent),
		}

		breakdowns := weakness.AggregateTopics(subs, 1200, now)

		convey.Convey("Then each tagged rated submission should count per topic", func() {
			dp := breakdowns["dp"]
			convey.So(dp.Attempts, convey.ShouldEqual, 3)
			convey.So(dp.Successes, convey.ShouldEqual, 1)
			convey.So(dp.AvgRating, convey.ShouldEqual, 1300)
			convey.So(dp.FailureRate, convey.ShouldEqual, 0.67)
			convey.So(dp.Score, convey.ShouldBeGreaterThan, 0)

			graphs := breakdowns["graphs"]
			convey.So(graphs.Attempts, convey.ShouldEqual, 2)
			convey.So(graphs.Successes, convey.ShouldEqual, 1)
		})

		convey.Convey("Then untagged and unrated submissions should be skipped", func() {
			_, ok := breakdowns["math"]
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then recency should be measured from the latest attempt", func() {
			convey.So(breakdowns["dp"].DaysSinceLast, convey.ShouldEqual, 1.0)
		})
	})
}

func TestRankTopics(t *testing.T) {
	convey.Convey("Given topic breakdowns", t, func() {
		breakdowns := map[string]weakness.TopicBreakdown{
			"dp":     {Topic: "dp", Score: 0.9, Attempts: 5},
			"graphs": {Topic: "graphs", Score: 0.9, Attempts: 4},
			"math":   {Topic: "math", Score: 1.2, Attempts: 6},
			"trees":  {Topic: "trees", Score: 2.0, Attempts: 2}, // below min attempts
		}

		ranked := weakness.RankTopics(breakdowns, 3, 5)

		convey.Convey("Then ranking should be score descending with name tie-break", func() {
			convey.So(len(ranked), convey.ShouldEqual, 3)
			convey.So(ranked[0].Topic, convey.ShouldEqual, "math")
			convey.So(ranked[1].Topic, convey.ShouldEqual, "dp")
			convey.So(ranked[2].Topic, convey.ShouldEqual, "graphs")
		})

		convey.Convey("When a limit applies", func() {
			top := weakness.RankTopics(breakdowns, 3, 1)
			convey.So(len(top), convey.ShouldEqual, 1)
			convey.So(top[0].Topic, convey.ShouldEqual, "math")
		})
	})
}

func TestWeakBands(t *testing.T) {
	convey.Convey("Given contest problem stats across rating bands", t, func() {
		var stats []model.ContestProblemStat

		// 1400 band: 10 attempted, 3 solved -> 70% unsolved, weak.
		for i := 0; i < 10; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("14%02dA", i),
				Rating:    1400,
				Attempted: true,
				Solved:    i < 3,
			})
		}
		// 1200 band: 10 attempted, 8 solved -> not weak.
		for i := 0; i < 10; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("12%02dA", i),
				Rating:    1200,
				Attempted: true,
				Solved:    i < 8,
			})
		}
		// 1600 band: high failure but below the attempt minimum.
		for i := 0; i < 4; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("16%02dA", i),
				Rating:    1600,
				Attempted: true,
			})
		}

		weak := weakness.WeakBands(stats)

		convey.Convey("Then only bands over both thresholds should be reported", func() {
			convey.So(len(weak), convey.ShouldEqual, 1)
			convey.So(weak[0].Band, convey.ShouldEqual, 1400)
			convey.So(weak[0].Label, convey.ShouldEqual, "1400-1500")
			convey.So(weak[0].Attempted, convey.ShouldEqual, 10)
			convey.So(weak[0].Unsolved, convey.ShouldEqual, 7)
			convey.So(weak[0].UnsolvedRate, convey.ShouldEqual, 0.7)
		})

		convey.Convey("When unrated problems are present", func() {
			unrated := append(stats, model.ContestProblemStat{ProblemID: "999A", Attempted: true})
			convey.So(len(weakness.WeakBands(unrated)), convey.ShouldEqual, 1)
		})
	})
}

func TestWeakTopics(t *testing.T) {
	convey.Convey("Given contest problem stats with tags", t, func() {
		var stats []model.ContestProblemStat

		// dp: 8 attempted, 2 solved -> 25% solve rate, weak.
		for i := 0; i < 8; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("1%03dA", i),
				Tags:      []string{"dp"},
				Attempted: true,
				Solved:    i < 2,
			})
		}
		// greedy: 8 attempted, 6 solved -> healthy.
		for i := 0; i < 8; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("2%03dA", i),
				Tags:      []string{"greedy"},
				Attempted: true,
				Solved:    i < 6,
			})
		}
		// trees: weak rate but too few attempts.
		for i := 0; i < 3; i++ {
			stats = append(stats, model.ContestProblemStat{
				ProblemID: fmt.Sprintf("3%03dA", i),
				Tags:      []string{"trees"},
				Attempted: true,
			})
		}

		weak := weakness.WeakTopics(stats)

		convey.Convey("Then only topics over both thresholds should be reported", func() {
			convey.So(len(weak), convey.ShouldEqual, 1)
			convey.So(weak[0].Topic, convey.ShouldEqual, "dp")
			convey.So(weak[0].Attempted, convey.ShouldEqual, 8)
			convey.So(weak[0].Solved, convey.ShouldEqual, 2)
			convey.So(weak[0].Failed, convey.ShouldEqual, 6)
			convey.So(weak[0].SolvedRate, convey.ShouldEqual, 0.25)
		})
	})
}
