package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterDebug mounts the /thing probe route the locations service has
// always answered. Harmless, and some deployment checks still hit it.
func RegisterDebug(r *mux.Router) {
	r.HandleFunc("/thing", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "This is a thing"})
	}).Methods(http.MethodGet)
}
