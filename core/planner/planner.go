package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/meetplan/core/logger"
	"github.com/kilianp07/meetplan/core/metrics"
	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/solver"
	infralogger "github.com/kilianp07/meetplan/infra/logger"
)

// Planner schedules one roster per call to Plan.
type Planner struct {
	cfg    Config
	solver solver.Solver
	log    logger.Logger
	events solver.Publisher
	sink   metrics.MetricsSink
	now    func() time.Time
}

// Option customises a Planner.
type Option func(*Planner)

// WithSolver replaces the default branch-and-bound solver.
func WithSolver(s solver.Solver) Option { return func(p *Planner) { p.solver = s } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(p *Planner) { p.log = l } }

// WithBus publishes solver progress to b.
func WithBus(b solver.Publisher) Option { return func(p *Planner) { p.events = b } }

// WithSink records every run in s.
func WithSink(s metrics.MetricsSink) Option { return func(p *Planner) { p.sink = s } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(p *Planner) { p.now = now } }

// New creates a Planner.
func New(cfg Config, opts ...Option) *Planner {
	p := &Planner{
		cfg:    cfg,
		solver: solver.NewBranchAndBound(),
		log:    infralogger.NopLogger{},
		sink:   metrics.NopSink{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Grid returns the slot grid of the configuration.
func (p *Planner) Grid() (Grid, error) {
	return NewGrid(p.cfg.SlotMinutes, p.cfg.Epoch)
}

// Prepare validates r and encodes it without solving.
func (p *Planner) Prepare(r model.Roster) (*Encoding, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if err := ValidateRoster(r); err != nil {
		return nil, err
	}
	enc, _, err := p.encode(r)
	return enc, err
}

func (p *Planner) encode(r model.Roster) (*Encoding, Candidates, error) {
	g, err := p.Grid()
	if err != nil {
		return nil, nil, err
	}
	policy, _ := ParseWindowPolicy(string(p.cfg.WindowPolicy))
	av, err := ResolveAvailability(g, r.Participants, policy)
	if err != nil {
		return nil, nil, err
	}
	cands, err := GenerateCandidates(g, r, av)
	if err != nil {
		return nil, nil, err
	}
	enc, err := Encode(g, p.cfg.Comfort, r, cands)
	if err != nil {
		return nil, nil, err
	}
	return enc, cands, nil
}

// Plan validates, encodes, solves and decodes r. Roster and configuration
// problems are returned as errors; search outcomes are reported through
// Result.Status and Result.Err.
func (p *Planner) Plan(ctx context.Context, r model.Roster) (*Result, error) {
	started := p.now()
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if err := ValidateRoster(r); err != nil {
		return nil, err
	}
	enc, cands, err := p.encode(r)
	if err != nil {
		return nil, err
	}
	g, _ := p.Grid()

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Rows:      UnscheduledRows(r),
		Stats: Stats{
			Meetings:    len(r.Meetings),
			Variables:   len(enc.Problem.Vars),
			Constraints: len(enc.Problem.Constraints),
		},
	}
	p.log.Debugw("encoded roster", map[string]any{
		"run_id":      res.RunID,
		"meetings":    res.Stats.Meetings,
		"variables":   res.Stats.Variables,
		"constraints": res.Stats.Constraints,
	})

	if !enc.Feasible() {
		res.Status = StatusEmptyCandidates
		for _, m := range enc.Markers {
			res.Causes = append(res.Causes, Cause{Kind: CauseEmptyCandidateSet, Meetings: []string{m.Meeting}, Participants: m.Participants})
			p.log.Warnf("meeting %s has no feasible start for %v", m.Meeting, m.Participants)
		}
		return p.finish(res, r), nil
	}

	opts := p.cfg.solverOptions().WithDefaults()
	opts.Events = p.events
	deadline := time.Now().Add(opts.TimeBudget)
	sol, err := p.solver.Solve(ctx, enc.Problem, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	res.SolverStatus = sol.Status.String()
	res.Stats.Nodes = sol.Nodes

	switch sol.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		rows, err := Decode(g, r, enc, sol)
		if err != nil {
			return nil, err
		}
		res.Status = StatusScheduled
		res.Optimal = sol.Status == solver.StatusOptimal
		res.Objective = int(math.Round(sol.Objective))
		res.Rows = rows
	case solver.StatusInfeasible:
		res.Status = StatusInfeasible
		dctx, cancel := context.WithDeadline(ctx, deadline)
		causes, err := Diagnose(dctx, p.solver, p.cfg.solverOptions(), g, p.cfg.Comfort, r, cands)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("diagnose: %w", err)
		}
		for _, c := range causes {
			if len(c.Inconclusive) > 0 {
				p.log.Warnf("run %s: conflict checks for %v did not finish in time", res.RunID, c.Inconclusive)
			}
		}
		res.Causes = causes
	default:
		res.Status = StatusTimedOut
	}
	return p.finish(res, r), nil
}

func (p *Planner) finish(res *Result, r model.Roster) *Result {
	res.Elapsed = p.now().Sub(res.StartedAt)
	for _, row := range res.Rows {
		if row.Scheduled() {
			res.Stats.Scheduled++
		}
	}
	p.log.Infow("plan finished", map[string]any{
		"run_id":        res.RunID,
		"status":        string(res.Status),
		"solver_status": res.SolverStatus,
		"objective":     res.Objective,
		"scheduled":     res.Stats.Scheduled,
		"elapsed_ms":    res.Elapsed.Milliseconds(),
	})
	p.record(res, r)
	return res
}

func (p *Planner) record(res *Result, r model.Roster) {
	ts := p.now()
	if err := p.sink.RecordRun(metrics.RunEvent{
		RunID:        res.RunID,
		Status:       string(res.Status),
		SolverStatus: res.SolverStatus,
		Optimal:      res.Optimal,
		Objective:    res.Objective,
		Meetings:     res.Stats.Meetings,
		Scheduled:    res.Stats.Scheduled,
		Variables:    res.Stats.Variables,
		Constraints:  res.Stats.Constraints,
		Nodes:        res.Stats.Nodes,
		Elapsed:      res.Elapsed,
		Time:         ts,
	}); err != nil {
		p.log.Errorf("record run %s: %v", res.RunID, err)
	}
	mr, ok := p.sink.(metrics.MeetingRecorder)
	if !ok {
		return
	}
	evs := make([]metrics.MeetingEvent, len(res.Rows))
	for i, row := range res.Rows {
		evs[i] = metrics.MeetingEvent{RunID: res.RunID, MeetingID: row.MeetingID, Team: row.Team, Scheduled: row.Scheduled(), Time: ts}
		if row.Penalty != nil {
			evs[i].Penalty = *row.Penalty
		}
	}
	if err := mr.RecordMeetings(evs); err != nil {
		p.log.Errorf("record meetings %s: %v", res.RunID, err)
	}
}
