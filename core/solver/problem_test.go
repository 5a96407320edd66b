package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProblemValidate(t *testing.T) {
	p := NewProblem()
	x := p.AddVar("x", 1)
	p.AtMostOne("ok", []int{x})
	assert.NoError(t, p.Validate())

	bad := NewProblem()
	bad.AddVar("x", 1)
	bad.AtMostOne("ref", []int{3})
	assert.Error(t, bad.Validate())

	nan := NewProblem()
	nan.AddVar("x", math.NaN())
	assert.Error(t, nan.Validate())

	var nilProblem *Problem
	assert.Error(t, nilProblem.Validate())
}

func TestConstraintSatisfied(t *testing.T) {
	c := Constraint{Terms: []Term{{0, 1}, {1, 1}}, Sense: LessEq, RHS: 1}
	assert.True(t, c.Satisfied([]bool{true, false}))
	assert.False(t, c.Satisfied([]bool{true, true}))

	eq := Constraint{Terms: []Term{{0, 1}, {1, 1}}, Sense: Equal, RHS: 1}
	assert.False(t, eq.Satisfied([]bool{false, false}))

	p := &Problem{Vars: []Variable{{"a", 2}, {"b", 5}}, Constraints: []Constraint{eq}}
	assert.True(t, p.Feasible([]bool{false, true}))
	assert.Len(t, p.Violated([]bool{true, true}), 1)
	assert.Equal(t, 7.0, p.Objective([]bool{true, true}))
	assert.False(t, p.Feasible([]bool{true}))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "OPTIMAL", StatusOptimal.String())
	assert.Equal(t, "FEASIBLE", StatusFeasible.String())
	assert.Equal(t, "INFEASIBLE", StatusInfeasible.String())
	assert.Equal(t, "UNKNOWN", StatusUnknown.String())
	assert.Equal(t, "<=", LessEq.String())
}
