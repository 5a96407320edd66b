package planner

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of a planning run.
type Status string

const (
	StatusScheduled       Status = "scheduled"
	StatusEmptyCandidates Status = "empty_candidates"
	StatusInfeasible      Status = "infeasible"
	StatusTimedOut        Status = "timed_out"
)

// CauseKind classifies why a run produced no schedule.
type CauseKind string

const (
	CauseEmptyCandidateSet CauseKind = "empty_candidate_set"
	CauseConflict          CauseKind = "conflict"
)

// Cause names the meetings and participants behind a failed run.
type Cause struct {
	Kind         CauseKind `json:"kind"`
	Meetings     []string  `json:"meetings"`
	Participants []string  `json:"participants"`
	// Inconclusive lists participants whose isolated check ran out of time.
	// When set, the cause is a best guess rather than a proof.
	Inconclusive []string `json:"inconclusive,omitempty"`
}

func (c Cause) String() string {
	s := fmt.Sprintf("%s: meetings [%s] participants [%s]", c.Kind,
		strings.Join(c.Meetings, ","), strings.Join(c.Participants, ","))
	if len(c.Inconclusive) > 0 {
		s += fmt.Sprintf(" (unchecked: %s)", strings.Join(c.Inconclusive, ","))
	}
	return s
}

// Stats describes the size of the encoded problem and of the search.
type Stats struct {
	Meetings    int `json:"meetings"`
	Scheduled   int `json:"scheduled"`
	Variables   int `json:"variables"`
	Constraints int `json:"constraints"`
	Nodes       int `json:"nodes"`
}

// Result is the outcome of Planner.Plan. Rows always hold one entry per
// meeting, scheduled or not.
type Result struct {
	RunID        string        `json:"run_id"`
	Status       Status        `json:"status"`
	SolverStatus string        `json:"solver_status"`
	Optimal      bool          `json:"optimal"`
	Objective    int           `json:"objective"`
	Rows         []Row         `json:"rows"`
	Causes       []Cause       `json:"causes,omitempty"`
	Stats        Stats         `json:"stats"`
	StartedAt    time.Time     `json:"started_at"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Err returns nil for a scheduled run and otherwise an error wrapping
// ErrEmptyCandidateSet, ErrInfeasible or ErrTimedOut.
func (r *Result) Err() error {
	switch r.Status {
	case StatusScheduled:
		return nil
	case StatusEmptyCandidates:
		return fmt.Errorf("%w: %s", ErrEmptyCandidateSet, strings.Join(r.causeMeetings(), ", "))
	case StatusInfeasible:
		return fmt.Errorf("%w (solver %s): %s", ErrInfeasible, r.SolverStatus, strings.Join(r.causeMeetings(), ", "))
	case StatusTimedOut:
		return fmt.Errorf("%w (solver %s)", ErrTimedOut, r.SolverStatus)
	default:
		return fmt.Errorf("unknown run status %q", r.Status)
	}
}

func (r *Result) causeMeetings() []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, c := range r.Causes {
		for _, m := range c.Meetings {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				ids = append(ids, m)
			}
		}
	}
	return ids
}
