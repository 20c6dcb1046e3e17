package repository_test

import (
	"context"
	"testing"

	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func catalogProblems() []model.Problem {
	return []model.Problem{
		{ID: "1A", Rating: 800},
		{ID: "2A", Rating: 1200},
		{ID: "3A", Rating: 1200},
		{ID: "4A", Rating: 1500},
		{ID: "5A", Rating: 2400},
	}
}

func TestInMemoryCatalog(t *testing.T) {
	convey.Convey("Given an in-memory catalog", t, func() {
		ctx := context.Background()
		catalog := repository.NewInMemoryCatalog()

		convey.Convey("When the catalog is empty", func() {
			convey.So(catalog.Count(ctx), convey.ShouldEqual, 0)
			convey.So(catalog.SyncedAt(ctx).IsZero(), convey.ShouldBeTrue)

			_, err := catalog.Get(ctx, "1A")
			convey.So(err, convey.ShouldEqual, repository.ErrProblemNotFound)
		})

		convey.Convey("When problems are upserted", func() {
			err := catalog.Upsert(ctx, catalogProblems())
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then lookups by ID should work", func() {
				p, err := catalog.Get(ctx, "4A")
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Rating, convey.ShouldEqual, 1500)
			})

			convey.Convey("Then the sync timestamp should be set", func() {
				convey.So(catalog.SyncedAt(ctx).IsZero(), convey.ShouldBeFalse)
				convey.So(catalog.Count(ctx), convey.ShouldEqual, 5)
			})

			convey.Convey("And upserting an existing ID should replace it", func() {
				err := catalog.Upsert(ctx, []model.Problem{{ID: "4A", Rating: 1600}})
				convey.So(err, convey.ShouldBeNil)
				convey.So(catalog.Count(ctx), convey.ShouldEqual, 5)

				p, err := catalog.Get(ctx, "4A")
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Rating, convey.ShouldEqual, 1600)
			})
		})

		convey.Convey("When querying a rating range", func() {
			convey.So(catalog.Upsert(ctx, catalogProblems()), convey.ShouldBeNil)

			convey.Convey("Then bounds should be inclusive", func() {
				out, err := catalog.ByRatingRange(ctx, 1200, 1500)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(out), convey.ShouldEqual, 3)
				convey.So(out[0].ID, convey.ShouldEqual, "2A")
				convey.So(out[1].ID, convey.ShouldEqual, "3A")
				convey.So(out[2].ID, convey.ShouldEqual, "4A")
			})

			convey.Convey("Then an empty window should return nothing", func() {
				out, err := catalog.ByRatingRange(ctx, 1600, 1700)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldBeEmpty)
			})

			convey.Convey("Then All should return the full rating order", func() {
				out, err := catalog.All(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(out), convey.ShouldEqual, 5)
				convey.So(out[0].ID, convey.ShouldEqual, "1A")
				convey.So(out[4].ID, convey.ShouldEqual, "5A")
			})
		})

		convey.Convey("When a returned slice is mutated by the caller", func() {
			convey.So(catalog.Upsert(ctx, catalogProblems()), convey.ShouldBeNil)

			out, err := catalog.All(ctx)
			convey.So(err, convey.ShouldBeNil)
			out[0].Rating = 9999

			convey.Convey("Then the store should be unaffected", func() {
				p, err := catalog.Get(ctx, "1A")
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Rating, convey.ShouldEqual, 800)
			})
		})
	})
}
