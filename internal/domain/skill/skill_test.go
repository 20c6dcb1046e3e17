package skill_test

import (
	"testing"
	"time"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/skill"
	"github.com/smartystreets/goconvey/convey"
)

func TestApplySolve(t *testing.T) {
	convey.Convey("Given skill records", t, func() {
		now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

		convey.Convey("When applying a solve to a nil record set", func() {
			records := skill.ApplySolve(nil, []string{"dp", "graphs"}, 1400, now)

			convey.Convey("Then a record per topic should be created", func() {
				convey.So(len(records), convey.ShouldEqual, 2)
				convey.So(records["dp"].SolveCount, convey.ShouldEqual, 1)
				convey.So(records["dp"].MaxSolvedRating, convey.ShouldEqual, 1400)
				convey.So(records["dp"].LastPracticedAt, convey.ShouldEqual, now)
			})
		})

		convey.Convey("When applying repeated solves", func() {
			records := skill.ApplySolve(nil, []string{"dp"}, 1400, now)
			records = skill.ApplySolve(records, []string{"dp"}, 1200, now.Add(time.Hour))

			convey.Convey("Then counts should advance and the high-water mark should hold", func() {
				convey.So(records["dp"].SolveCount, convey.ShouldEqual, 2)
				convey.So(records["dp"].MaxSolvedRating, convey.ShouldEqual, 1400)
				convey.So(records["dp"].LastPracticedAt, convey.ShouldEqual, now.Add(time.Hour))
			})
		})
	})
}

func TestMergeHistory(t *testing.T) {
	convey.Convey("Given a bulk submission history", t, func() {
		now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
		subs := []model.Submission{
			{Verdict: model.VerdictAccepted, Rating: 1500, Tags: []string{"dp"}, At: now},
			{Verdict: model.VerdictAccepted, Rating: 1300, Tags: []string{"dp"}, At: now.Add(time.Hour)},
			{Verdict: model.VerdictRejected, Rating: 1800, Tags: []string{"dp"}, At: now},
			{Verdict: model.VerdictAccepted, Rating: 0, Tags: []string{"graphs"}, At: now},
		}

		records := skill.MergeHistory(nil, subs)

		convey.Convey("Then only rated accepted submissions should merge", func() {
			convey.So(len(records), convey.ShouldEqual, 1)
			convey.So(records["dp"].MaxSolvedRating, convey.ShouldEqual, 1500)
			convey.So(records["dp"].LastPracticedAt, convey.ShouldEqual, now.Add(time.Hour))
		})

		convey.Convey("Then solve counts should never advance from a sync", func() {
			convey.So(records["dp"].SolveCount, convey.ShouldEqual, 0)

			live := skill.ApplySolve(records, []string{"dp"}, 1200, now)
			merged := skill.MergeHistory(live, subs)
			convey.So(merged["dp"].SolveCount, convey.ShouldEqual, 1)
		})
	})
}

func TestSorted(t *testing.T) {
	convey.Convey("Given records with varying solve counts", t, func() {
		records := map[string]model.SkillRecord{
			"graphs": {Topic: "graphs", SolveCount: 2},
			"dp":     {Topic: "dp", SolveCount: 5},
			"math":   {Topic: "math", SolveCount: 2},
		}

		sorted := skill.Sorted(records)

		convey.Convey("Then ordering should be count descending with name tie-break", func() {
			convey.So(len(sorted), convey.ShouldEqual, 3)
			convey.So(sorted[0].Topic, convey.ShouldEqual, "dp")
			convey.So(sorted[1].Topic, convey.ShouldEqual, "graphs")
			convey.So(sorted[2].Topic, convey.ShouldEqual, "math")
		})
	})
}
