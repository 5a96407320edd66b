package solver

import (
	"context"
	"sort"
	"time"
)

// Greedy walks the exactly-one groups in order and picks, for each, the
// cheapest member that keeps every constraint satisfiable so far. It never
// proves anything: success is FEASIBLE and failure is UNKNOWN.
type Greedy struct{}

// Solve implements Solver.
func (Greedy) Solve(ctx context.Context, p *Problem, opts Options) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	start := time.Now()
	vals, nodes := greedyAssign(ctx, p, analyze(p))

	sol := Solution{Status: StatusUnknown, Nodes: nodes, Elapsed: time.Since(start)}
	if p.Feasible(vals) {
		sol.Status = StatusFeasible
		sol.Values = vals
		sol.Objective = p.Objective(vals)
		publish(opts.Events, Event{Kind: EventIncumbent, Status: StatusFeasible, Objective: sol.Objective, Nodes: nodes, Elapsed: sol.Elapsed})
	}
	publish(opts.Events, Event{Kind: EventFinished, Status: sol.Status, Objective: sol.Objective, Nodes: nodes, Elapsed: sol.Elapsed})
	return sol, nil
}

// greedyAssign fills each exactly-one group in turn with its cheapest member
// that still fits. The result may leave groups empty; callers check it with
// Problem.Feasible.
func greedyAssign(ctx context.Context, p *Problem, st *structure) ([]bool, int) {
	rows := rowsByVar(p)
	lhs := make([]float64, len(p.Constraints))
	vals := make([]bool, len(p.Vars))
	nodes := 0
	for _, g := range st.groups {
		if ctx.Err() != nil {
			break
		}
		order := append([]int(nil), g...)
		sort.SliceStable(order, func(i, j int) bool { return p.Vars[order[i]].Cost < p.Vars[order[j]].Cost })
		for _, v := range order {
			nodes++
			if fits(p, rows[v], lhs, v) {
				vals[v] = true
				for _, ci := range rows[v] {
					lhs[ci] += coefOf(p.Constraints[ci], v)
				}
				break
			}
		}
	}
	return vals, nodes
}

// fits reports whether switching v on keeps its <= rows within bounds.
func fits(p *Problem, rows []int, lhs []float64, v int) bool {
	for _, ci := range rows {
		c := p.Constraints[ci]
		if c.Sense != LessEq {
			continue
		}
		if lhs[ci]+coefOf(c, v) > c.RHS+feasTol {
			return false
		}
	}
	return true
}

func coefOf(c Constraint, v int) float64 {
	var sum float64
	for _, t := range c.Terms {
		if t.Var == v {
			sum += t.Coef
		}
	}
	return sum
}

func rowsByVar(p *Problem) [][]int {
	rows := make([][]int, len(p.Vars))
	for ci, c := range p.Constraints {
		for _, t := range c.Terms {
			if n := len(rows[t.Var]); n > 0 && rows[t.Var][n-1] == ci {
				continue
			}
			rows[t.Var] = append(rows[t.Var], ci)
		}
	}
	return rows
}
