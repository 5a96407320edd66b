// Package factory builds pluggable modules (solvers, metric sinks, run-log
// stores) from configuration. A module is selected by its type string and
// configured with a raw map that the factory decodes into its own struct.
//
//	reg := factory.NewRegistry[solver.Solver]("branch_and_bound")
//	_ = reg.Register("greedy", func(map[string]any) (solver.Solver, error) {
//	    return solver.Greedy{}, nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "greedy"})
package factory
