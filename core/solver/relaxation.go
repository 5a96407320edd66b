package solver

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const unfixed int8 = -1

var (
	// errNodeInfeasible is raised while substituting fixed variables, before
	// any LP is solved.
	errNodeInfeasible = errors.New("node infeasible")
	errShape          = errors.New("lp has more rows than columns")
	// errTooLarge means the node LP exceeds the cell limit and is not solved.
	errTooLarge = errors.New("lp too large")
)

// structure records the exactly-one groups of a problem: equality rows with
// unit coefficients and a right-hand side of 1 over disjoint variables.
type structure struct {
	groups   [][]int
	groupOf  []int
	rowGroup []int
}

func analyze(p *Problem) *structure {
	st := &structure{groupOf: make([]int, len(p.Vars)), rowGroup: make([]int, len(p.Constraints))}
	for i := range st.groupOf {
		st.groupOf[i] = -1
	}
	for ci, c := range p.Constraints {
		st.rowGroup[ci] = -1
		if c.Sense != Equal || c.RHS != 1 || len(c.Terms) == 0 {
			continue
		}
		vars := make([]int, 0, len(c.Terms))
		ok := true
		for _, t := range c.Terms {
			if t.Coef != 1 || st.groupOf[t.Var] != -1 {
				ok = false
				break
			}
			vars = append(vars, t.Var)
		}
		if !ok || hasDuplicates(vars) {
			continue
		}
		sort.Ints(vars)
		g := len(st.groups)
		st.groups = append(st.groups, vars)
		st.rowGroup[ci] = g
		for _, v := range vars {
			st.groupOf[v] = g
		}
	}
	return st
}

func hasDuplicates(vars []int) bool {
	seen := make(map[int]struct{}, len(vars))
	for _, v := range vars {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

// relaxation is the LP of one search node in standard form
// (min cᵀx, Ax = b, x >= 0). Fixed variables are substituted out; every <=
// row gets its own slack column.
type relaxation struct {
	free   []int
	c      []float64
	a      *mat.Dense
	b      []float64
	offset float64
}

type lpRow struct {
	cols  []int
	coefs []float64
	rhs   float64
}

// buildRelaxation returns errTooLarge instead of a matrix with more than
// maxCells entries. maxCells <= 0 means no limit.
func buildRelaxation(p *Problem, st *structure, fixed []int8, maxCells int) (*relaxation, error) {
	r := &relaxation{}
	col := make([]int, len(p.Vars))
	for i, v := range p.Vars {
		col[i] = -1
		switch fixed[i] {
		case 1:
			r.offset += v.Cost
		case unfixed:
			col[i] = len(r.free)
			r.free = append(r.free, i)
		}
	}

	groupRHS := make([]float64, len(st.groups))
	for g, vars := range st.groups {
		groupRHS[g] = 1
		for _, v := range vars {
			if fixed[v] == 1 {
				groupRHS[g]--
			}
		}
	}

	var eqRows, leRows []lpRow
	bounded := make([]bool, len(r.free))
	seen := make(map[string]struct{})
	for ci, c := range p.Constraints {
		sense, sign := c.Sense, 1.0
		if sense == GreaterEq {
			sense, sign = LessEq, -1
		}
		row := lpRow{rhs: sign * c.RHS}
		for _, t := range c.Terms {
			coef := sign * t.Coef
			if coef == 0 {
				continue
			}
			switch fixed[t.Var] {
			case 1:
				row.rhs -= coef
			case unfixed:
				row.cols = append(row.cols, col[t.Var])
				row.coefs = append(row.coefs, coef)
			}
		}
		if len(row.cols) == 0 {
			if !(Constraint{Sense: sense, RHS: row.rhs}).holds(0) {
				return nil, errNodeInfeasible
			}
			continue
		}
		if sense == Equal {
			if st.rowGroup[ci] >= 0 {
				if row.rhs < -feasTol {
					return nil, errNodeInfeasible
				}
				for _, j := range row.cols {
					bounded[j] = true
				}
			}
			eqRows = append(eqRows, row)
			continue
		}
		if redundant(row, r.free, st, groupRHS) {
			continue
		}
		key := row.key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		leRows = append(leRows, row)
	}

	// Variables outside any live group need an explicit x <= 1.
	for j, ok := range bounded {
		if !ok {
			leRows = append(leRows, lpRow{cols: []int{j}, coefs: []float64{1}, rhs: 1})
		}
	}

	nFree := len(r.free)
	if nFree == 0 {
		return r, nil
	}
	m, n := len(eqRows)+len(leRows), nFree+len(leRows)
	if m > n {
		return nil, errShape
	}
	if maxCells > 0 && m*n > maxCells {
		return nil, errTooLarge
	}
	r.a = mat.NewDense(m, n, nil)
	r.b = make([]float64, m)
	r.c = make([]float64, n)
	for j, v := range r.free {
		r.c[j] = p.Vars[v].Cost
	}
	for i, row := range append(eqRows, leRows...) {
		for k, j := range row.cols {
			r.a.Set(i, j, r.a.At(i, j)+row.coefs[k])
		}
		r.b[i] = row.rhs
		if i >= len(eqRows) {
			r.a.Set(i, nFree+i-len(eqRows), 1)
		}
	}
	return r, nil
}

// redundant reports whether a <= row is implied by 0 <= x <= 1 or by the
// exactly-one group that contains all of its variables.
func redundant(row lpRow, free []int, st *structure, groupRHS []float64) bool {
	var pos float64
	unit := true
	for _, c := range row.coefs {
		if c > 0 {
			pos += c
		}
		if c != 1 {
			unit = false
		}
	}
	if pos <= row.rhs+feasTol {
		return true
	}
	if !unit {
		return false
	}
	g := st.groupOf[free[row.cols[0]]]
	if g < 0 {
		return false
	}
	for _, j := range row.cols[1:] {
		if st.groupOf[free[j]] != g {
			return false
		}
	}
	return groupRHS[g] <= row.rhs+feasTol
}

func (r lpRow) key() string {
	idx := make([]int, len(r.cols))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return r.cols[idx[a]] < r.cols[idx[b]] })
	var sb strings.Builder
	for _, i := range idx {
		sb.WriteString(strconv.Itoa(r.cols[i]))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(r.coefs[i], 'g', -1, 64))
		sb.WriteByte(',')
	}
	sb.WriteString(strconv.FormatFloat(r.rhs, 'g', -1, 64))
	return sb.String()
}

// solve runs the simplex and maps the LP solution back onto all problem
// variables, fixed ones included.
func (r *relaxation) solve(fixed []int8, tol float64) (obj float64, x []float64, err error) {
	x = make([]float64, len(fixed))
	for i, f := range fixed {
		if f == 1 {
			x[i] = 1
		}
	}
	if len(r.free) == 0 {
		return r.offset, x, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			obj, x, err = 0, nil, fmt.Errorf("simplex panic: %v", rec)
		}
	}()
	opt, sol, err := lp.Simplex(r.c, r.a, r.b, tol, nil)
	if err != nil {
		return 0, nil, err
	}
	for j, v := range r.free {
		x[v] = sol[j]
	}
	return opt + r.offset, x, nil
}
