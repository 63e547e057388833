package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/pkg/logger"
)

// EntityServer serves the read API of one entity collection:
//
//	GET /api/<name>            -> all rows
//	GET /api/<name>/<randomSeg> -> one random row
//	GET /api/<name>/{id}       -> one row by id
type EntityServer struct {
	store     repository.Store
	name      string // URL collection segment, e.g. "heroes"
	randomSeg string // random endpoint segment, e.g. "random_hero"
	log       logger.Logger
}

// NewEntityServer creates an entity server for one collection.
func NewEntityServer(store repository.Store, name, randomSeg string, log logger.Logger) *EntityServer {
	return &EntityServer{store: store, name: name, randomSeg: randomSeg, log: log}
}

// Register attaches the entity routes. The random route must be mounted
// before the {id} route so "random_hero" is not parsed as an id; the id
// pattern is numeric-only, so ordering is belt and braces here.
func (s *EntityServer) Register(r *mux.Router) {
	base := "/api/" + s.name
	r.HandleFunc(base, s.handleList).Methods(http.MethodGet)
	r.HandleFunc(base+"/"+s.randomSeg, s.handleRandom).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id:[0-9]+}", s.handleByID).Methods(http.MethodGet)
}

func (s *EntityServer) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "list failed", logger.String("collection", s.name), logger.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *EntityServer) handleRandom(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Random(r.Context())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeNotFound(w)
	case err != nil:
		s.log.Error(r.Context(), "random pick failed", logger.String("collection", s.name), logger.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *EntityServer) handleByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		// Unreachable with the numeric route pattern, but do not 500 on it.
		writeNotFound(w)
		return
	}

	rec, err := s.store.ByID(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeNotFound(w)
	case err != nil:
		s.log.Error(r.Context(), "lookup failed",
			logger.String("collection", s.name), logger.Int64("id", id), logger.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}
