// Package plan schedules rosters posted over HTTP.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/roster"
)

// Planner is satisfied by *app.Service and *planner.Planner.
type Planner interface {
	Plan(ctx context.Context, r model.Roster) (*planner.Result, error)
}

// Response wraps a Result with its error text, if any.
type Response struct {
	*planner.Result
	Error string `json:"error,omitempty"`
}

// maxBody caps the accepted roster document size.
const maxBody = 1 << 20

// NewHandler returns an HTTP handler scheduling the JSON roster posted to
// /api/plan. Search failures such as infeasibility still answer 200 with the
// unscheduled rows; malformed or invalid rosters answer 400 and 422.
func NewHandler(p Planner, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		f, err := roster.Decode(http.MaxBytesReader(w, r.Body, maxBody), roster.FormatJSON)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rs, err := f.ToModel()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := p.Plan(r.Context(), rs)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		resp := Response{Result: res}
		if rerr := res.Err(); rerr != nil {
			resp.Error = rerr.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func statusFor(err error) int {
	var (
		verr *planner.ValidationError
		uerr *planner.UnknownParticipantError
		werr *planner.WindowError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &uerr), errors.As(err, &werr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
