package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/arena/pkg/metrics"
)

// RegisterHealth mounts the liveness and metrics endpoints shared by
// every service.
func RegisterHealth(r *mux.Router) {
	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).
		Methods(http.MethodGet)
}

// handleHealth answers plain "OK". Liveness only: readiness is implied by
// the process serving at all, since startup blocks until the backend is
// reachable.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
