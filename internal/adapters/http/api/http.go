// Package api declares HTTP contracts and route registration for the
// arena services. The read services (heroes, villains, locations) share
// one EntityServer; the aggregator mounts a FightServer on top of the
// peer client.
package api

import (
	"encoding/json"
	"net/http"
)

// detailResponse is the error body shape shared by all services:
// {"detail": "Not found"}.
type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeNotFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found")
}
