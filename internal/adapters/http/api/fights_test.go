package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/okian/arena/internal/adapters/http/api"
	"github.com/okian/arena/internal/adapters/peers"
	"github.com/okian/arena/internal/domain/fight"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeFetcher serves canned peer responses.
type fakeFetcher struct {
	hero     model.Record
	villain  model.Record
	location model.Record
	err      error
}

func (f *fakeFetcher) RandomLocation(ctx context.Context) (model.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.location, nil
}

func (f *fakeFetcher) RandomFighters(ctx context.Context) (model.Record, model.Record, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.hero, f.villain, nil
}

func (f *fakeFetcher) FightMaterial(ctx context.Context) (model.Record, model.Record, model.Record, error) {
	if f.err != nil {
		return nil, nil, nil, f.err
	}
	return f.hero, f.villain, f.location, nil
}

func newFightRouter(fetch api.Fetcher) *mux.Router {
	r := mux.NewRouter()
	api.NewFightServer(fetch, logger.Get()).Register(r)
	return r
}

func TestFightServer(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	Convey("Given healthy peers", t, func() {
		fetch := &fakeFetcher{
			hero:     model.Record{"name": "A", "level": int64(5), "powers": "speed"},
			villain:  model.Record{"name": "B", "level": int64(3)},
			location: model.Record{"name": "Loc"},
		}
		router := newFightRouter(fetch)

		Convey("When fetching random fighters", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fights/randomfighters", nil))

			Convey("Then both fighters are wrapped in one object", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got struct {
					Hero    model.Record `json:"hero"`
					Villain model.Record `json:"villain"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.Hero["name"], ShouldEqual, "A")
				So(got.Villain["name"], ShouldEqual, "B")
			})
		})

		Convey("When fetching a random location", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fights/randomlocation", nil))

			Convey("Then the location record is returned bare", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got model.Record
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got["name"], ShouldEqual, "Loc")
			})
		})

		Convey("When executing a random fight", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fights/execute_fight", nil))

			Convey("Then the composed outcome carries winner, loser and id", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got fight.Outcome
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.WinnerName, ShouldEqual, "A")
				So(got.WinnerLevel, ShouldEqual, 5)
				So(got.WinnerTeam, ShouldEqual, "heroes")
				So(got.LoserName, ShouldEqual, "B")
				So(got.ID, ShouldNotBeEmpty)
				So(got.FightDate, ShouldNotBeEmpty)
			})
		})

		Convey("When posting a fight with explicit fighters", func() {
			body := `{
				"hero": {"name": "A", "level": 5, "powers": "speed"},
				"villain": {"name": "B", "level": 3},
				"location": {"name": "Loc"}
			}`
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fights", strings.NewReader(body)))

			Convey("Then the outcome is composed from the body, not the peers", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got fight.Outcome
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.WinnerName, ShouldEqual, "A")
				So(got.WinnerLevel, ShouldEqual, 5)
				So(got.WinnerPowers, ShouldEqual, "speed")
				So(got.LoserLevel, ShouldEqual, 3)
			})
		})

		Convey("When posting a fight with a missing villain", func() {
			body := `{"hero": {"name": "A"}, "location": {"name": "Loc"}}`
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fights", strings.NewReader(body)))

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting garbage", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/fights", strings.NewReader("not json")))

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a peer that answered 503", t, func() {
		fetch := &fakeFetcher{err: &peers.StatusError{
			Peer:       "villains",
			StatusCode: http.StatusServiceUnavailable,
			Body:       []byte(`{"detail":"Not today"}`),
		}}
		router := newFightRouter(fetch)

		Convey("When executing a random fight", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fights/execute_fight", nil))

			Convey("Then the peer's status and body pass through verbatim", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(rec.Body.String(), ShouldEqual, `{"detail":"Not today"}`)
			})
		})
	})

	Convey("Given unreachable peers", t, func() {
		fetch := &fakeFetcher{err: peers.ErrUnreachable}
		router := newFightRouter(fetch)

		Convey("When fetching random fighters", func() {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fights/randomfighters", nil))

			Convey("Then the caller sees a bad gateway with the cause", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				So(rec.Body.String(), ShouldContainSubstring, "Error connecting to external service")
			})
		})
	})
}
