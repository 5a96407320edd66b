// Package planner turns a roster of participants and meetings into a 0-1
// program, hands it to a solver and decodes the assignment into per-meeting
// rows with UTC and local times.
//
// Every stage is a pure function over values passed in explicitly: Grid
// describes the slot layout, Availability the per-participant UTC slots,
// Candidates the feasible start slots per meeting and Encoding the solver
// problem together with the mapping back to candidates. Planner chains the
// stages for one run.
package planner
