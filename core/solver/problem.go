package solver

import (
	"errors"
	"fmt"
	"math"
)

// Sense is the comparison operator of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	Equal
	GreaterEq
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case Equal:
		return "="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Term is coef * x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Constraint is Σ terms (sense) RHS. A constraint without terms compares 0 to
// RHS and is either always or never satisfied.
type Constraint struct {
	Label string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Variable is a boolean decision with an objective coefficient.
type Variable struct {
	Name string
	Cost float64
}

// Problem is a 0-1 linear program: minimise Σ cost·x subject to the
// constraints, x ∈ {0,1}.
type Problem struct {
	Vars        []Variable
	Constraints []Constraint
}

const feasTol = 1e-9

// NewProblem returns an empty problem.
func NewProblem() *Problem { return &Problem{} }

// AddVar appends a variable and returns its index.
func (p *Problem) AddVar(name string, cost float64) int {
	p.Vars = append(p.Vars, Variable{Name: name, Cost: cost})
	return len(p.Vars) - 1
}

// AddConstraint appends c.
func (p *Problem) AddConstraint(c Constraint) {
	p.Constraints = append(p.Constraints, c)
}

// ExactlyOne adds Σ vars = 1.
func (p *Problem) ExactlyOne(label string, vars []int) {
	p.AddConstraint(Constraint{Label: label, Terms: unitTerms(vars), Sense: Equal, RHS: 1})
}

// AtMostOne adds Σ vars <= 1.
func (p *Problem) AtMostOne(label string, vars []int) {
	p.AddConstraint(Constraint{Label: label, Terms: unitTerms(vars), Sense: LessEq, RHS: 1})
}

// Unsatisfiable adds the constraint 0 = 1, which no assignment satisfies.
func (p *Problem) Unsatisfiable(label string) {
	p.AddConstraint(Constraint{Label: label, Sense: Equal, RHS: 1})
}

func unitTerms(vars []int) []Term {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coef: 1}
	}
	return terms
}

// Validate checks variable references and that all numbers are finite.
func (p *Problem) Validate() error {
	if p == nil {
		return errors.New("nil problem")
	}
	for i, v := range p.Vars {
		if !finite(v.Cost) {
			return fmt.Errorf("variable %d (%s): non-finite cost", i, v.Name)
		}
	}
	for i, c := range p.Constraints {
		if c.Sense < LessEq || c.Sense > GreaterEq {
			return fmt.Errorf("constraint %d (%s): unknown sense %d", i, c.Label, c.Sense)
		}
		if !finite(c.RHS) {
			return fmt.Errorf("constraint %d (%s): non-finite rhs", i, c.Label)
		}
		for _, t := range c.Terms {
			if t.Var < 0 || t.Var >= len(p.Vars) {
				return fmt.Errorf("constraint %d (%s): variable %d out of range", i, c.Label, t.Var)
			}
			if !finite(t.Coef) {
				return fmt.Errorf("constraint %d (%s): non-finite coefficient", i, c.Label)
			}
		}
	}
	return nil
}

// UnsatisfiableLabels returns the labels of constraints that have no terms and can
// therefore never hold.
func (p *Problem) UnsatisfiableLabels() []string {
	var labels []string
	for _, c := range p.Constraints {
		if len(c.Terms) == 0 && !c.holds(0) {
			labels = append(labels, c.Label)
		}
	}
	return labels
}

// Objective evaluates the cost of an assignment.
func (p *Problem) Objective(values []bool) float64 {
	var sum float64
	for i, v := range values {
		if v {
			sum += p.Vars[i].Cost
		}
	}
	return sum
}

// Violated returns the constraints an assignment breaks.
func (p *Problem) Violated(values []bool) []Constraint {
	var out []Constraint
	for _, c := range p.Constraints {
		if !c.Satisfied(values) {
			out = append(out, c)
		}
	}
	return out
}

// Feasible reports whether the assignment satisfies every constraint.
func (p *Problem) Feasible(values []bool) bool {
	if len(values) != len(p.Vars) {
		return false
	}
	for _, c := range p.Constraints {
		if !c.Satisfied(values) {
			return false
		}
	}
	return true
}

// Satisfied evaluates the constraint against an assignment.
func (c Constraint) Satisfied(values []bool) bool {
	var lhs float64
	for _, t := range c.Terms {
		if values[t.Var] {
			lhs += t.Coef
		}
	}
	return c.holds(lhs)
}

func (c Constraint) holds(lhs float64) bool {
	switch c.Sense {
	case LessEq:
		return lhs <= c.RHS+feasTol
	case GreaterEq:
		return lhs >= c.RHS-feasTol
	default:
		return math.Abs(lhs-c.RHS) <= feasTol
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
