package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/okian/arena/pkg/metrics"
)

// MetricsMiddleware records request count and duration labeled by method,
// route template and status. Mount with Router.Use so every route,
// including /health and /metrics, is measured.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		status := strconv.Itoa(wrapped.status)
		metrics.RecordHTTPRequest(r.Method, path, status)
		metrics.ObserveHTTPRequestDuration(r.Method, path, status, time.Since(start))
	})
}

// statusWriter captures the response status for labeling.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
