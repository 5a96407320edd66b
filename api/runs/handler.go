// Package runs serves the run log over HTTP.
package runs

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/runlog"
)

// NewHandler returns an HTTP handler exposing plan runs via GET /api/runs.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty. Supported query parameters are start and end (RFC3339),
// status and meeting.
func NewHandler(store runlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		params := r.URL.Query()
		q := runlog.Query{
			Status:    planner.Status(params.Get("status")),
			MeetingID: params.Get("meeting"),
		}
		var err error
		if s := params.Get("start"); s != "" {
			if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
				http.Error(w, "start: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		if s := params.Get("end"); s != "" {
			if q.End, err = time.Parse(time.RFC3339, s); err != nil {
				http.Error(w, "end: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []runlog.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
