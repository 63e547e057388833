package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/okian/arena/internal/adapters/peers"
	"github.com/okian/arena/internal/domain/fight"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
)

// Fetcher is the downstream surface the fights handlers need. The peers
// client implements it; tests substitute fakes.
type Fetcher interface {
	RandomLocation(ctx context.Context) (model.Record, error)
	RandomFighters(ctx context.Context) (hero, villain model.Record, err error)
	FightMaterial(ctx context.Context) (hero, villain, location model.Record, err error)
}

// FightServer serves the aggregator API:
//
//	GET  /api/fights/randomfighters -> {hero, villain}
//	GET  /api/fights/randomlocation -> location record
//	GET  /api/fights/execute_fight  -> composed fight outcome
//	POST /api/fights                -> compose outcome from supplied fighters
type FightServer struct {
	fetch Fetcher
	log   logger.Logger
	now   func() time.Time
}

// NewFightServer creates the aggregator server.
func NewFightServer(fetch Fetcher, log logger.Logger) *FightServer {
	return &FightServer{fetch: fetch, log: log, now: time.Now}
}

// Register attaches the fights routes.
func (s *FightServer) Register(r *mux.Router) {
	r.HandleFunc("/api/fights/randomfighters", s.handleRandomFighters).Methods(http.MethodGet)
	r.HandleFunc("/api/fights/randomlocation", s.handleRandomLocation).Methods(http.MethodGet)
	r.HandleFunc("/api/fights/execute_fight", s.handleExecuteFight).Methods(http.MethodGet)
	r.HandleFunc("/api/fights", s.handlePostFight).Methods(http.MethodPost)
}

type fightersResponse struct {
	Hero    model.Record `json:"hero"`
	Villain model.Record `json:"villain"`
}

func (s *FightServer) handleRandomFighters(w http.ResponseWriter, r *http.Request) {
	hero, villain, err := s.fetch.RandomFighters(r.Context())
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fightersResponse{Hero: hero, Villain: villain})
}

func (s *FightServer) handleRandomLocation(w http.ResponseWriter, r *http.Request) {
	location, err := s.fetch.RandomLocation(r.Context())
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (s *FightServer) handleExecuteFight(w http.ResponseWriter, r *http.Request) {
	hero, villain, location, err := s.fetch.FightMaterial(r.Context())
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}

	s.log.Info(r.Context(), "executing fight",
		logger.String("hero", hero.Name()), logger.Int64("hero_level", hero.Level()),
		logger.String("villain", villain.Name()), logger.Int64("villain_level", villain.Level()),
		logger.String("location", location.Name()),
	)
	writeJSON(w, http.StatusOK, s.stamp(fight.Compose(hero, villain, location)))
}

type fightRequest struct {
	Hero     model.Record `json:"hero"`
	Villain  model.Record `json:"villain"`
	Location model.Record `json:"location"`
}

func (s *FightServer) handlePostFight(w http.ResponseWriter, r *http.Request) {
	var req fightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid fight request")
		return
	}
	if req.Hero == nil || req.Villain == nil || req.Location == nil {
		writeDetail(w, http.StatusBadRequest, "Invalid fight request")
		return
	}

	s.log.Info(r.Context(), "posting new fight",
		logger.String("hero", req.Hero.Name()),
		logger.String("villain", req.Villain.Name()),
	)
	writeJSON(w, http.StatusOK, s.stamp(fight.Compose(req.Hero, req.Villain, req.Location)))
}

// stamp assigns the impure outcome fields kept out of fight.Compose.
func (s *FightServer) stamp(out fight.Outcome) fight.Outcome {
	out.ID = uuid.NewString()
	out.FightDate = s.now().UTC().Format(time.RFC3339)
	return out
}

// writeFetchError maps fan-out failures onto the response: a peer's error
// status and body pass through verbatim, transport failures become 502.
func (s *FightServer) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *peers.StatusError
	if errors.As(err, &statusErr) {
		s.log.Warn(r.Context(), "peer returned error status",
			logger.String("peer", statusErr.Peer), logger.Int("status", statusErr.StatusCode))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusErr.StatusCode)
		_, _ = w.Write(statusErr.Body)
		return
	}

	s.log.Error(r.Context(), "peer fetch failed", logger.Error(err))
	if errors.Is(err, peers.ErrUnreachable) {
		writeDetail(w, http.StatusBadGateway, "Error connecting to external service: "+err.Error())
		return
	}
	writeDetail(w, http.StatusBadGateway, "Upstream failure: "+err.Error())
}
