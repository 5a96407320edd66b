// Package scenarios runs YAML planning scenarios with known outcomes against
// the planner.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/roster"
)

// Expected is what a scenario asserts. Unset fields are not checked.
type Expected struct {
	Status    string `yaml:"status,omitempty"`
	Objective *int   `yaml:"objective,omitempty"`
	Scheduled *int   `yaml:"scheduled,omitempty"`
	// CauseMeetings lists every meeting named by the causes, in any order.
	CauseMeetings []string `yaml:"cause_meetings,omitempty"`
	// Starts maps meeting IDs to their expected UTC start as HH:MM.
	Starts map[string]string `yaml:"starts,omitempty"`
	// Error is a substring of the error Plan must return.
	Error string `yaml:"error,omitempty"`
}

type Scenario struct {
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description,omitempty"`
	SlotMinutes  int         `yaml:"slot_minutes,omitempty"`
	WindowPolicy string      `yaml:"window_policy,omitempty"`
	Solver       string      `yaml:"solver,omitempty"`
	Roster       roster.File `yaml:"roster"`
	Expected     Expected    `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// PlannerConfig applies the scenario overrides to the default configuration.
func (sc Scenario) PlannerConfig() planner.Config {
	cfg := planner.DefaultConfig()
	if sc.SlotMinutes != 0 {
		cfg.SlotMinutes = sc.SlotMinutes
	}
	if sc.WindowPolicy != "" {
		cfg.WindowPolicy = planner.WindowPolicy(sc.WindowPolicy)
	}
	return cfg
}
