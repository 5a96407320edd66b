package planner

import (
	"fmt"
	"time"

	"github.com/kilianp07/meetplan/core/solver"
)

// Config holds the knobs of one Planner.
type Config struct {
	SlotMinutes  int
	Epoch        time.Time
	WindowPolicy WindowPolicy
	Comfort      Comfort
	TimeBudget   time.Duration
	Workers      int
}

// DefaultConfig mirrors the reference setup: 30-minute slots, 09:00-17:00
// comfort at 10 per hour, a 30 second budget and up to 8 workers.
func DefaultConfig() Config {
	return Config{
		SlotMinutes:  DefaultSlotMinutes,
		Epoch:        DefaultEpoch,
		WindowPolicy: WindowWrap,
		Comfort:      DefaultComfort(),
		TimeBudget:   solver.DefaultTimeBudget,
		Workers:      solver.DefaultWorkers,
	}
}

// Validate checks the comfort window and the policy; the grid is checked by
// NewGrid.
func (c Config) Validate() error {
	if _, err := ParseWindowPolicy(string(c.WindowPolicy)); err != nil {
		return err
	}
	if c.Comfort.StartHour < 0 || c.Comfort.EndHour > 24 || c.Comfort.StartHour >= c.Comfort.EndHour {
		return fmt.Errorf("comfort window %.2f-%.2f is invalid", c.Comfort.StartHour, c.Comfort.EndHour)
	}
	if c.Comfort.PerHour < 0 {
		return fmt.Errorf("comfort per_hour must be >= 0")
	}
	_, err := NewGrid(c.SlotMinutes, c.Epoch)
	return err
}

func (c Config) solverOptions() solver.Options {
	return solver.Options{TimeBudget: c.TimeBudget, Workers: c.Workers}
}
