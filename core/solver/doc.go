// Package solver defines the boundary between the planner and the
// optimisation engine: 0-1 variables, linear constraints and a linear cost to
// minimise. BranchAndBound solves such problems exactly within a time and
// worker budget using gonum's simplex for LP relaxations; Greedy is a fast
// heuristic that never proves optimality.
package solver
