package solver

import (
	"context"
	"runtime"
	"time"
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusUnknown means the budget ran out before a solution or a proof of
	// infeasibility was found.
	StatusUnknown Status = iota
	StatusOptimal
	// StatusFeasible means a solution was found but not proven optimal.
	StatusFeasible
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// HasSolution reports whether the status carries an assignment.
func (s Status) HasSolution() bool { return s == StatusOptimal || s == StatusFeasible }

// Default budget values.
const (
	DefaultTimeBudget = 30 * time.Second
	DefaultWorkers    = 8
)

// Options bound a solve.
type Options struct {
	TimeBudget time.Duration
	Workers    int
	// Events receives progress notifications. May be nil.
	Events Publisher
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.TimeBudget <= 0 {
		o.TimeBudget = DefaultTimeBudget
	}
	if o.Workers <= 0 {
		o.Workers = min(DefaultWorkers, runtime.NumCPU())
	}
	return o
}

// Solution is the solver's answer. Values is only set when Status has a
// solution.
type Solution struct {
	Status    Status
	Values    []bool
	Objective float64
	// Bound is the best known lower bound on the objective.
	Bound   float64
	Nodes   int
	Elapsed time.Duration
}

// Solver minimises a Problem. A returned error means the problem could not be
// processed at all; search outcomes are reported through Solution.Status.
type Solver interface {
	Solve(ctx context.Context, p *Problem, opts Options) (Solution, error)
}

// EventKind classifies solver progress events.
type EventKind string

const (
	EventIncumbent EventKind = "incumbent"
	EventFinished  EventKind = "finished"
)

// Event reports solver progress.
type Event struct {
	Kind      EventKind
	Status    Status
	Objective float64
	Nodes     int
	Elapsed   time.Duration
}

// Publisher receives solver events. eventbus.Bus[Event] satisfies it.
type Publisher interface {
	Publish(Event) int
}

func publish(p Publisher, ev Event) {
	if p != nil {
		p.Publish(ev)
	}
}
