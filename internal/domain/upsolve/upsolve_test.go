package upsolve_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/upsolve"
	"github.com/smartystreets/goconvey/convey"
)

func TestSelect(t *testing.T) {
	convey.Convey("Given contest problem stats", t, func() {
		base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

		convey.Convey("When scoring candidates against detected weaknesses", func() {
			stats := []model.ContestProblemStat{
				// Weak topic + weak band + never upsolved.
				{ProblemID: "1900C", ContestID: 1900, Rating: 1400, Tags: []string{"dp"}, Attempted: true, FirstAttemptAt: base},
				// Already upsolved, slightly above user level.
				{ProblemID: "1900D", ContestID: 1900, Rating: 1550, Tags: []string{"flows"}, Attempted: true, Solved: true, SolvedAfterContest: true, FirstAttemptAt: base},
				// Solved in contest, not a candidate.
				{ProblemID: "1900A", ContestID: 1900, Rating: 1100, Tags: []string{"greedy"}, Attempted: true, Solved: true, FirstAttemptAt: base},
				// Never attempted, not a candidate.
				{ProblemID: "1900E", ContestID: 1900, Rating: 2000, Tags: []string{"fft"}},
				// Rated too far above the user, filtered out.
				{ProblemID: "1900F", ContestID: 1900, Rating: 1800, Tags: []string{"dp"}, Attempted: true, FirstAttemptAt: base},
			}

			suggestions := upsolve.Select(upsolve.Input{
				Stats:      stats,
				UserRating: 1500,
				WeakTopics: map[string]struct{}{"dp": {}},
				WeakBands:  map[int]struct{}{1400: {}},
			})

			convey.Convey("Then only attempted problems without an in-contest accept, near the user's level, qualify", func() {
				convey.So(len(suggestions), convey.ShouldEqual, 2)
				convey.So(suggestions[0].ProblemID, convey.ShouldEqual, "1900C")
				convey.So(suggestions[1].ProblemID, convey.ShouldEqual, "1900D")
			})

			convey.Convey("Then scoring should stack bonuses and the malus", func() {
				// weak topic 3 + weak band 2 + not upsolved 1
				convey.So(suggestions[0].Score, convey.ShouldEqual, 6.0)
				// above level -1
				convey.So(suggestions[1].Score, convey.ShouldEqual, -1.0)
			})

			convey.Convey("Then each contribution should carry a reason", func() {
				convey.So(len(suggestions[0].Reasons), convey.ShouldEqual, 3)
				convey.So(suggestions[0].Reasons[0].Kind, convey.ShouldEqual, upsolve.ReasonWeakTopic)
			})
		})

		convey.Convey("When scores tie", func() {
			stats := []model.ContestProblemStat{
				{ProblemID: "2000B", ContestID: 2000, Rating: 1300, Attempted: true, FirstAttemptAt: base},
				{ProblemID: "2000A", ContestID: 2000, Rating: 1300, Attempted: true, FirstAttemptAt: base},
				{ProblemID: "2001A", ContestID: 2001, Rating: 1200, Attempted: true, FirstAttemptAt: base},
			}

			suggestions := upsolve.Select(upsolve.Input{Stats: stats, UserRating: 1500})

			convey.Convey("Then lower rating then problem ID should break ties", func() {
				convey.So(suggestions[0].ProblemID, convey.ShouldEqual, "2001A")
				convey.So(suggestions[1].ProblemID, convey.ShouldEqual, "2000A")
				convey.So(suggestions[2].ProblemID, convey.ShouldEqual, "2000B")
			})
		})

		convey.Convey("When a shuffled selection is requested", func() {
			var stats []model.ContestProblemStat
			for i := 0; i < 15; i++ {
				stats = append(stats, model.ContestProblemStat{
					ProblemID:      fmt.Sprintf("4%03dA", i),
					ContestID:      4000 + i,
					Rating:         1200,
					Tags:           []string{"dp"},
					Attempted:      true,
					FirstAttemptAt: base,
				})
			}
			for i := 0; i < 5; i++ {
				stats = append(stats, model.ContestProblemStat{
					ProblemID:      fmt.Sprintf("5%03dA", i),
					ContestID:      5000 + i,
					Rating:         1200,
					Attempted:      true,
					FirstAttemptAt: base,
				})
			}

			suggestions := upsolve.SelectShuffled(upsolve.Input{
				Stats:      stats,
				UserRating: 1500,
				WeakTopics: map[string]struct{}{"dp": {}},
			})

			convey.Convey("Then it draws only from the top-ranked pool", func() {
				convey.So(len(suggestions), convey.ShouldEqual, upsolve.DefaultSuggestion)
				for _, s := range suggestions {
					convey.So(s.Tags, convey.ShouldContain, "dp")
					convey.So(s.Score, convey.ShouldEqual, 4.0)
				}
			})
		})

		convey.Convey("When more candidates exist than the limit", func() {
			var stats []model.ContestProblemStat
			for i := 0; i < 20; i++ {
				stats = append(stats, model.ContestProblemStat{
					ProblemID:      fmt.Sprintf("3%03dA", i),
					ContestID:      3000 + i,
					Rating:         1200,
					Attempted:      true,
					FirstAttemptAt: base.Add(time.Duration(i) * time.Hour),
				})
			}

			suggestions := upsolve.Select(upsolve.Input{Stats: stats, UserRating: 1500, Limit: 3})
			convey.So(len(suggestions), convey.ShouldEqual, 3)

			defaulted := upsolve.Select(upsolve.Input{Stats: stats, UserRating: 1500})
			convey.So(len(defaulted), convey.ShouldEqual, upsolve.DefaultSuggestion)
		})
	})
}
