package planner

import (
	"context"
	"time"

	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/solver"
)

// Diagnose explains a globally infeasible roster. For every participant with
// two or more meetings it solves just those meetings; each sub-problem that is
// proven infeasible implicates that participant. When no participant is
// isolated this way, the conflict spans several of them and every meeting is
// implicated.
//
// The sub-solves share one budget: the deadline of ctx when it has one,
// otherwise opts.TimeBudget from now. Each sub-solve gets an even share of
// what is left. Participants whose sub-solve ends without a verdict are listed
// in the fallback cause as Inconclusive.
func Diagnose(ctx context.Context, s solver.Solver, opts solver.Options, g Grid, c Comfort, r model.Roster, cands Candidates) ([]Cause, error) {
	opts = opts.WithDefaults()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(opts.TimeBudget)
	}

	type check struct {
		name     string
		meetings []model.Meeting
	}
	var checks []check
	for _, p := range r.Participants {
		if ms := r.MeetingsOf(p.Name); len(ms) >= 2 {
			checks = append(checks, check{name: p.Name, meetings: ms})
		}
	}

	var causes []Cause
	var inconclusive []string
	for i, chk := range checks {
		share := time.Until(deadline) / time.Duration(len(checks)-i)
		if share <= 0 || ctx.Err() != nil {
			inconclusive = append(inconclusive, chk.name)
			continue
		}
		sub := model.Roster{Participants: r.Participants, Meetings: chk.meetings}
		enc, err := Encode(g, c, sub, cands)
		if err != nil {
			return nil, err
		}
		subOpts := opts
		subOpts.TimeBudget = share
		sol, err := s.Solve(ctx, enc.Problem, subOpts)
		if err != nil {
			return nil, err
		}
		switch {
		case sol.Status == solver.StatusInfeasible:
			causes = append(causes, Cause{Kind: CauseConflict, Meetings: meetingIDs(chk.meetings), Participants: []string{chk.name}})
		case !sol.Status.HasSolution():
			inconclusive = append(inconclusive, chk.name)
		}
	}
	if len(causes) > 0 {
		return causes, nil
	}

	all := Cause{Kind: CauseConflict, Inconclusive: inconclusive}
	involved := make(map[string]struct{})
	for _, m := range r.Meetings {
		all.Meetings = append(all.Meetings, m.ID)
		for _, p := range m.Participants {
			involved[p] = struct{}{}
		}
	}
	for _, p := range r.Participants {
		if _, ok := involved[p.Name]; ok {
			all.Participants = append(all.Participants, p.Name)
		}
	}
	return []Cause{all}, nil
}

func meetingIDs(ms []model.Meeting) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return ids
}
