package solver

import (
	"context"
	"errors"
	"math"
	"slices"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// BranchAndBound is an exact depth-first branch-and-bound over LP
// relaxations. Siblings are solved in parallel but merged in a fixed order, so
// the same problem and options always yield the same assignment unless the
// time budget cuts the search short.
//
// The search starts from the Greedy assignment when there is one, so a
// deadline reached mid-search still returns FEASIBLE.
type BranchAndBound struct {
	// IntegralityTol is how far an LP value may sit from 0 or 1 and still be
	// treated as integral.
	IntegralityTol float64 `json:"integrality_tolerance"`
	// SimplexTol is handed to lp.Simplex.
	SimplexTol float64 `json:"simplex_tolerance"`
	// MaxLPCells caps rows*columns of a node LP. Larger nodes are bounded by
	// the cheapest free member of each exactly-one group instead.
	MaxLPCells int `json:"max_lp_cells"`
}

// DefaultMaxLPCells keeps a single dense simplex call well under a second.
const DefaultMaxLPCells = 20000

// NewBranchAndBound returns a solver with default tolerances.
func NewBranchAndBound() *BranchAndBound {
	return &BranchAndBound{IntegralityTol: 1e-6, SimplexTol: 1e-9, MaxLPCells: DefaultMaxLPCells}
}

func (s BranchAndBound) withDefaults() BranchAndBound {
	if s.IntegralityTol <= 0 {
		s.IntegralityTol = 1e-6
	}
	if s.SimplexTol <= 0 {
		s.SimplexTol = 1e-9
	}
	if s.MaxLPCells == 0 {
		s.MaxLPCells = DefaultMaxLPCells
	}
	return s
}

// Solve implements Solver.
func (s *BranchAndBound) Solve(ctx context.Context, p *Problem, opts Options) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	opts = opts.WithDefaults()
	start := time.Now()
	budget, cancel := context.WithTimeout(ctx, opts.TimeBudget)
	defer cancel()

	sr := &search{
		p:        p,
		st:       analyze(p),
		cfg:      s.withDefaults(),
		opts:     opts,
		start:    start,
		intCosts: integralCosts(p),
	}
	if vals, _ := greedyAssign(ctx, p, sr.st); p.Feasible(vals) {
		sr.offer(vals)
	}
	sr.run(budget)
	sol := sr.solution()
	publish(opts.Events, Event{Kind: EventFinished, Status: sol.Status, Objective: sol.Objective, Nodes: sol.Nodes, Elapsed: sol.Elapsed})
	return sol, nil
}

const objTol = 1e-6

// node is one search-tree vertex. x is nil when its LP was too large or could
// not be solved numerically; such nodes are enumerated without LP guidance.
type node struct {
	fixed []int8
	bound float64
	x     []float64
	err   error
}

type search struct {
	p        *Problem
	st       *structure
	cfg      BranchAndBound
	opts     Options
	start    time.Time
	intCosts bool

	nodes     int
	timedOut  bool
	rootBound float64

	found   bool
	best    []bool
	bestObj float64
	bestKey []int
}

func (s *search) run(ctx context.Context) {
	s.rootBound = math.Inf(-1)
	if ctx.Err() != nil {
		s.timedOut = true
		return
	}
	root := make([]int8, len(s.p.Vars))
	for i := range root {
		root[i] = unfixed
	}
	n, ok := s.evaluate(ctx, root, math.Inf(-1))
	if !ok {
		s.timedOut = true
		return
	}
	s.nodes++
	if isInfeasible(n.err) {
		return
	}
	s.rootBound = n.bound
	s.explore(ctx, n)
}

// evaluate solves one node and reports false when ctx ends first.
// lp.Simplex cannot be interrupted, so an abandoned solve finishes in the
// background; MaxLPCells bounds how long that takes.
func (s *search) evaluate(ctx context.Context, fixed []int8, parentBound float64) (node, bool) {
	done := make(chan node, 1)
	go func() { done <- s.solveNode(fixed, parentBound) }()
	select {
	case n := <-done:
		return n, true
	case <-ctx.Done():
		return node{}, false
	}
}

// solveNode propagates the fixings of a node and bounds it, by its LP
// relaxation when that is small enough.
func (s *search) solveNode(fixed []int8, parentBound float64) node {
	if err := s.propagate(fixed); err != nil {
		return node{fixed: fixed, bound: parentBound, err: err}
	}
	n := node{fixed: fixed, bound: math.Max(parentBound, s.groupBound(fixed))}
	rel, err := buildRelaxation(s.p, s.st, fixed, s.cfg.MaxLPCells)
	if err == nil {
		var obj float64
		obj, n.x, err = rel.solve(fixed, s.cfg.SimplexTol)
		if err == nil {
			n.bound = obj
			if s.intCosts {
				n.bound = math.Ceil(obj - objTol)
			}
		}
	}
	if err != nil && !isInfeasible(err) {
		// too large or numeric trouble: keep the node without LP guidance
		n.x = nil
		return n
	}
	n.err = err
	return n
}

// propagate tightens fixed in place until nothing changes: a group holding
// its one switches the rest off, a group with one free member left takes it,
// and a <= row switches off (or on, for negative coefficients) whatever would
// break it whichever way the other free variables go.
func (s *search) propagate(fixed []int8) error {
	for changed := true; changed; {
		changed = false
		for _, g := range s.st.groups {
			ones, free, last := 0, 0, -1
			for _, v := range g {
				switch fixed[v] {
				case 1:
					ones++
				case unfixed:
					free++
					last = v
				}
			}
			switch {
			case ones > 1, ones == 0 && free == 0:
				return errNodeInfeasible
			case ones == 1 && free > 0:
				for _, v := range g {
					if fixed[v] == unfixed {
						fixed[v] = 0
					}
				}
				changed = true
			case ones == 0 && free == 1:
				fixed[last] = 1
				changed = true
			}
		}
		for _, c := range s.p.Constraints {
			if c.Sense == Equal {
				continue
			}
			sign := 1.0
			if c.Sense == GreaterEq {
				sign = -1
			}
			rhs := sign * c.RHS
			var low float64
			for _, t := range c.Terms {
				coef := sign * t.Coef
				if fixed[t.Var] == 1 || (fixed[t.Var] == unfixed && coef < 0) {
					low += coef
				}
			}
			if low > rhs+feasTol {
				return errNodeInfeasible
			}
			for _, t := range c.Terms {
				if fixed[t.Var] != unfixed {
					continue
				}
				switch coef := sign * t.Coef; {
				case coef > 0 && low+coef > rhs+feasTol:
					fixed[t.Var] = 0
					changed = true
				case coef < 0 && low-coef > rhs+feasTol:
					fixed[t.Var] = 1
					changed = true
				}
			}
		}
	}
	return nil
}

// groupBound is a lower bound on any completion of fixed: the cost of the
// variables already on plus the cheapest free member of every open group.
func (s *search) groupBound(fixed []int8) float64 {
	var bound float64
	for v, f := range fixed {
		switch {
		case f == 1:
			bound += s.p.Vars[v].Cost
		case f == unfixed && s.st.groupOf[v] < 0:
			bound += math.Min(0, s.p.Vars[v].Cost)
		}
	}
	for _, g := range s.st.groups {
		open, cheapest := true, math.Inf(1)
		for _, v := range g {
			switch fixed[v] {
			case 1:
				open = false
			case unfixed:
				cheapest = math.Min(cheapest, s.p.Vars[v].Cost)
			}
		}
		if open && !math.IsInf(cheapest, 1) {
			bound += cheapest
		}
	}
	return bound
}

func isInfeasible(err error) bool {
	return errors.Is(err, errNodeInfeasible) || errors.Is(err, lp.ErrInfeasible)
}

func (s *search) explore(ctx context.Context, n node) {
	if ctx.Err() != nil {
		s.timedOut = true
		return
	}
	if s.found && n.bound > s.bestObj+objTol {
		return
	}
	if vals, ok := s.integral(n); ok {
		if s.offer(vals) {
			return
		}
		// LP claimed integrality but the rounded point is infeasible.
		n.x = nil
	}
	if s.found && n.bound >= s.bestObj-objTol {
		return
	}
	children := s.branch(n)
	evaluated := s.evaluateAll(ctx, children, n.bound)
	live := evaluated[:0]
	for _, c := range evaluated {
		switch {
		case c == nil:
			s.timedOut = true
		case isInfeasible(c.err):
		default:
			live = append(live, c)
		}
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].bound < live[j].bound })
	for _, c := range live {
		s.explore(ctx, *c)
	}
}

// integral returns the rounded assignment when the node's LP point is
// integral, or when every variable is already fixed.
func (s *search) integral(n node) ([]bool, bool) {
	vals := make([]bool, len(n.fixed))
	if n.x == nil {
		for i, f := range n.fixed {
			if f == unfixed {
				return nil, false
			}
			vals[i] = f == 1
		}
		return vals, true
	}
	for i, x := range n.x {
		r := math.Round(x)
		if math.Abs(x-r) > s.cfg.IntegralityTol {
			return nil, false
		}
		vals[i] = r == 1
	}
	return vals, true
}

// branch splits on the first exactly-one group holding a fractional value,
// giving one child per free member. Without such a group the first fractional
// (or, lacking LP values, the first free) variable is split into 1 and 0.
func (s *search) branch(n node) [][]int8 {
	for _, g := range s.st.groups {
		var free []int
		split := false
		for _, v := range g {
			if n.fixed[v] != unfixed {
				continue
			}
			free = append(free, v)
			if n.x == nil || !s.isIntegral(n.x[v]) {
				split = true
			}
		}
		if !split || len(free) == 0 {
			continue
		}
		children := make([][]int8, 0, len(free))
		for _, v := range free {
			f := slices.Clone(n.fixed)
			for _, w := range free {
				f[w] = 0
			}
			f[v] = 1
			children = append(children, f)
		}
		return children
	}
	for v, f := range n.fixed {
		if f != unfixed || (n.x != nil && s.isIntegral(n.x[v])) {
			continue
		}
		up, down := slices.Clone(n.fixed), slices.Clone(n.fixed)
		up[v], down[v] = 1, 0
		return [][]int8{up, down}
	}
	return nil
}

func (s *search) isIntegral(x float64) bool {
	return math.Abs(x-math.Round(x)) <= s.cfg.IntegralityTol
}

// evaluateAll solves the children's relaxations on at most Workers
// goroutines. Entries stay nil for children skipped after the deadline.
func (s *search) evaluateAll(ctx context.Context, children [][]int8, parentBound float64) []*node {
	out := make([]*node, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, fixed := range children {
		i, fixed := i, fixed
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if n, ok := s.evaluate(gctx, fixed, parentBound); ok {
				out[i] = &n
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, n := range out {
		if n != nil {
			s.nodes++
		}
	}
	return out
}

// offer records vals as the incumbent if it improves on it. Equal objectives
// keep the lexicographically smaller set of chosen variables.
func (s *search) offer(vals []bool) bool {
	if !s.p.Feasible(vals) {
		return false
	}
	obj := s.p.Objective(vals)
	key := chosen(vals)
	if s.found {
		if obj > s.bestObj+objTol {
			return true
		}
		if obj >= s.bestObj-objTol && !lexLess(key, s.bestKey) {
			return true
		}
	}
	s.found, s.best, s.bestObj, s.bestKey = true, vals, obj, key
	publish(s.opts.Events, Event{Kind: EventIncumbent, Status: StatusFeasible, Objective: obj, Nodes: s.nodes, Elapsed: time.Since(s.start)})
	return true
}

func (s *search) solution() Solution {
	sol := Solution{Nodes: s.nodes, Elapsed: time.Since(s.start), Bound: s.rootBound}
	switch {
	case s.found && !s.timedOut:
		sol.Status = StatusOptimal
		sol.Bound = s.bestObj
	case s.found:
		sol.Status = StatusFeasible
	case !s.timedOut:
		sol.Status = StatusInfeasible
	default:
		sol.Status = StatusUnknown
	}
	if s.found {
		sol.Values = s.best
		sol.Objective = s.bestObj
	}
	return sol
}

func chosen(vals []bool) []int {
	var idx []int
	for i, v := range vals {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

func lexLess(a, b []int) bool {
	return slices.Compare(a, b) < 0
}

func integralCosts(p *Problem) bool {
	for _, v := range p.Vars {
		if v.Cost != math.Trunc(v.Cost) {
			return false
		}
	}
	return true
}
