package solver

import "github.com/kilianp07/meetplan/core/factory"

// DefaultType is used when the configuration names no solver.
const DefaultType = "branch_and_bound"

var registry = factory.NewRegistry[Solver](DefaultType)

func init() {
	_ = Register(DefaultType, func(conf map[string]any) (Solver, error) {
		s := NewBranchAndBound()
		if err := factory.Decode(conf, s); err != nil {
			return nil, err
		}
		return s, nil
	})
	_ = Register("greedy", func(conf map[string]any) (Solver, error) {
		if err := factory.Decode(conf, &struct{}{}); err != nil {
			return nil, err
		}
		return Greedy{}, nil
	})
}

// Register adds a solver factory under name.
func Register(name string, f factory.Factory[Solver]) error {
	return registry.Register(name, f)
}

// New builds the solver described by cfg.
func New(cfg factory.ModuleConfig) (Solver, error) {
	return registry.Create(cfg)
}

// Types lists the registered solver names.
func Types() []string { return registry.Names() }
