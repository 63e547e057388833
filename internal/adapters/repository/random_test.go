package repository_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeTable is an in-memory Table with controllable rows.
type fakeTable struct {
	ids        []int64 // ascending
	maxIDCalls int
}

func (f *fakeTable) MaxID(ctx context.Context) (int64, bool, error) {
	f.maxIDCalls++
	if len(f.ids) == 0 {
		return 0, false, nil
	}
	return f.ids[len(f.ids)-1], true, nil
}

func (f *fakeTable) FirstAtOrAfter(ctx context.Context, bound int64) (model.Record, bool, error) {
	for _, id := range f.ids {
		if id >= bound {
			return model.Record{"id": id}, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeTable) First(ctx context.Context) (model.Record, bool, error) {
	if len(f.ids) == 0 {
		return nil, false, nil
	}
	return model.Record{"id": f.ids[0]}, true, nil
}

func TestRandomSelector_Pick(t *testing.T) {
	ctx := context.Background()

	Convey("Given a table with contiguous ids", t, func() {
		tab := &fakeTable{ids: []int64{1, 2, 3, 4, 5}}
		sel := repository.NewRandomSelector(tab, repository.NewMaxIDCache())

		Convey("When picking many times", func() {
			Convey("Then every pick is an existing row", func() {
				for i := 0; i < 200; i++ {
					rec, err := sel.Pick(ctx)
					So(err, ShouldBeNil)
					So(rec["id"], ShouldBeBetweenOrEqual, 1, 5)
				}
			})
		})
	})

	Convey("Given a table with a gap in the id sequence", t, func() {
		tab := &fakeTable{ids: []int64{1, 2, 10}}

		Convey("When the draw lands inside the gap", func() {
			sel := repository.NewRandomSelector(tab, repository.NewMaxIDCache(),
				repository.WithIntN(func(n int64) int64 { return 4 })) // target 5
			rec, err := sel.Pick(ctx)

			Convey("Then the first row after the gap is returned", func() {
				So(err, ShouldBeNil)
				So(rec["id"], ShouldEqual, 10)
			})
		})
	})

	Convey("Given a stale cached bound beyond every real id", t, func() {
		tab := &fakeTable{ids: []int64{3, 7}}
		cache := repository.NewMaxIDCache()
		cache.Put(100)
		sel := repository.NewRandomSelector(tab, cache,
			repository.WithIntN(func(n int64) int64 { return n - 1 })) // target 100

		Convey("When picking", func() {
			rec, err := sel.Pick(ctx)

			Convey("Then it falls back to the smallest-id row", func() {
				So(err, ShouldBeNil)
				So(rec["id"], ShouldEqual, 3)
			})

			Convey("And the stale bound was trusted without a MAX(id) query", func() {
				So(tab.maxIDCalls, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an empty table", t, func() {
		tab := &fakeTable{}
		sel := repository.NewRandomSelector(tab, repository.NewMaxIDCache())

		Convey("When picking", func() {
			rec, err := sel.Pick(ctx)

			Convey("Then it reports not found, nothing else", func() {
				So(rec, ShouldBeNil)
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})
	})

	Convey("Given a selector with the default random source", t, func() {
		tab := &fakeTable{ids: []int64{1}}
		sel := repository.NewRandomSelector(tab, repository.NewMaxIDCache(),
			repository.WithIntN(rand.Int63n))

		Convey("When the table has a single row", func() {
			rec, err := sel.Pick(ctx)

			Convey("Then that row is always selected", func() {
				So(err, ShouldBeNil)
				So(rec["id"], ShouldEqual, 1)
			})
		})
	})
}

func TestRandomSelector_CachedBound(t *testing.T) {
	ctx := context.Background()

	Convey("Given a selector with a fake clock and a 5 minute TTL", t, func() {
		clk := testclock.NewClock(time.Now())
		tab := &fakeTable{ids: []int64{1, 2, 3}}
		cache := repository.NewMaxIDCache(
			repository.WithCacheClock(clk),
			repository.WithCacheTTL(5*time.Minute),
		)
		sel := repository.NewRandomSelector(tab, cache)

		Convey("When picking twice within the TTL", func() {
			_, err1 := sel.Pick(ctx)
			clk.Advance(time.Minute)
			_, err2 := sel.Pick(ctx)

			Convey("Then at most one MAX(id) query was issued", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(tab.maxIDCalls, ShouldEqual, 1)
			})
		})

		Convey("When the TTL elapses between picks", func() {
			_, err1 := sel.Pick(ctx)
			clk.Advance(5*time.Minute + time.Second)
			_, err2 := sel.Pick(ctx)

			Convey("Then the bound is re-queried", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(tab.maxIDCalls, ShouldEqual, 2)
			})
		})
	})
}

func TestMaxIDCache(t *testing.T) {
	Convey("Given a cache with a fake clock", t, func() {
		clk := testclock.NewClock(time.Now())
		cache := repository.NewMaxIDCache(
			repository.WithCacheClock(clk),
			repository.WithCacheTTL(300*time.Second),
		)

		Convey("When nothing has been stored", func() {
			_, ok := cache.Get()

			Convey("Then the cache reports no fresh value", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a bound is stored", func() {
			cache.Put(42)

			Convey("Then it is fresh until the TTL", func() {
				v, ok := cache.Get()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 42)

				clk.Advance(299 * time.Second)
				v, ok = cache.Get()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 42)
			})

			Convey("And stale once the TTL has passed", func() {
				clk.Advance(300 * time.Second)
				_, ok := cache.Get()
				So(ok, ShouldBeFalse)
			})

			Convey("And a later Put wins over an earlier one", func() {
				cache.Put(50)
				v, ok := cache.Get()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 50)
			})
		})
	})
}
