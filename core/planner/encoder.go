package planner

import (
	"fmt"

	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/solver"
)

// Candidate is one feasible start of a meeting, backed by one solver variable.
type Candidate struct {
	MeetingID string `json:"meeting"`
	Start     int    `json:"start"`
	Cost      int    `json:"cost"`
}

// InfeasibilityKind classifies an Infeasibility marker.
type InfeasibilityKind string

// EmptyCandidateSet marks a meeting that has no feasible start at all.
const EmptyCandidateSet InfeasibilityKind = "empty_candidate_set"

// Infeasibility records a reason the problem cannot be solved that is known
// before any search.
type Infeasibility struct {
	Meeting      string
	Participants []string
	Kind         InfeasibilityKind
}

// Encoding is the solver problem of one roster plus what is needed to map an
// assignment back.
type Encoding struct {
	Problem *solver.Problem
	// Candidates is indexed like Problem.Vars.
	Candidates []Candidate
	// ByMeeting lists the variable indices of each meeting in start order.
	ByMeeting map[string][]int
	Markers   []Infeasibility
}

// Feasible reports whether no marker rules the problem out up front.
func (e *Encoding) Feasible() bool { return len(e.Markers) == 0 }

// Encode builds the 0-1 program: one exactly-one row per meeting, one
// at-most-one row per (participant, slot) with more than zero covering
// variables, and the discomfort objective. A slot row contained in a
// neighbouring slot's row is implied by it and left out.
func Encode(g Grid, c Comfort, r model.Roster, cands Candidates) (*Encoding, error) {
	enc := &Encoding{Problem: solver.NewProblem(), ByMeeting: make(map[string][]int, len(r.Meetings))}
	costs := NewCostTable(g, c, r)

	for _, m := range r.Meetings {
		starts, ok := cands[m.ID]
		if !ok {
			return nil, fmt.Errorf("no candidate list for meeting %s", m.ID)
		}
		if len(starts) == 0 {
			enc.Problem.Unsatisfiable("exactly_one/" + m.ID)
			enc.Markers = append(enc.Markers, Infeasibility{
				Meeting:      m.ID,
				Participants: append([]string(nil), m.Participants...),
				Kind:         EmptyCandidateSet,
			})
			continue
		}
		vars := make([]int, 0, len(starts))
		for _, s := range starts {
			cost := costs.Cost(m, s)
			v := enc.Problem.AddVar(fmt.Sprintf("start_%s_%d", m.ID, s), float64(cost))
			enc.Candidates = append(enc.Candidates, Candidate{MeetingID: m.ID, Start: s, Cost: cost})
			vars = append(vars, v)
		}
		enc.ByMeeting[m.ID] = vars
		enc.Problem.ExactlyOne("exactly_one/"+m.ID, vars)
	}

	n := g.HorizonSlots()
	for _, p := range r.Participants {
		covering := make([][]int, n)
		for _, m := range r.Meetings {
			if !attends(m, p.Name) {
				continue
			}
			dur := g.DurationSlots(m.DurationMinutes)
			for _, v := range enc.ByMeeting[m.ID] {
				s := enc.Candidates[v].Start
				for t := s; t < s+dur && t < n; t++ {
					covering[t] = append(covering[t], v)
				}
			}
		}
		for t, vars := range covering {
			if len(vars) == 0 || dominated(covering, t) {
				continue
			}
			enc.Problem.AtMostOne(fmt.Sprintf("no_overlap/%s/%d", p.Name, t), vars)
		}
	}
	return enc, nil
}

// dominated reports whether the covering set of slot t is a subset of the
// next slot's, or a strict subset of the previous slot's. A run of equal sets
// keeps its last row. Checking neighbours is enough: a variable covering t and
// some later slot covers every slot between them.
func dominated(covering [][]int, t int) bool {
	if t+1 < len(covering) && subset(covering[t], covering[t+1]) {
		return true
	}
	return t > 0 && len(covering[t]) < len(covering[t-1]) && subset(covering[t], covering[t-1])
}

// subset reports whether a is contained in b. Both are ascending.
func subset(a, b []int) bool {
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j == len(b) || b[j] != v {
			return false
		}
		j++
	}
	return true
}

func attends(m model.Meeting, name string) bool {
	for _, p := range m.Participants {
		if p == name {
			return true
		}
	}
	return false
}
