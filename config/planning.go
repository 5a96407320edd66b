package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/meetplan/core/factory"
	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/solver"
)

const epochLayout = "2006-01-02"

// HorizonConfig fixes the UTC day being planned and its slot grid.
type HorizonConfig struct {
	SlotMinutes int `json:"slot_minutes"`
	// EpochDate is the UTC date of slot 0, formatted as YYYY-MM-DD.
	EpochDate string `json:"epoch_date"`
	// WindowPolicy is one of "wrap", "clamp" or "reject".
	WindowPolicy string `json:"window_policy"`
}

func (c *HorizonConfig) SetDefaults() {
	if c.SlotMinutes == 0 {
		c.SlotMinutes = planner.DefaultSlotMinutes
	}
	if c.EpochDate == "" {
		c.EpochDate = planner.DefaultEpoch.Format(epochLayout)
	}
	if c.WindowPolicy == "" {
		c.WindowPolicy = string(planner.WindowWrap)
	}
}

func (c HorizonConfig) Validate() error {
	if c.SlotMinutes <= 0 || 1440%c.SlotMinutes != 0 {
		return fmt.Errorf("slot_minutes %d must divide 1440", c.SlotMinutes)
	}
	if _, err := c.Epoch(); err != nil {
		return err
	}
	_, err := planner.ParseWindowPolicy(c.WindowPolicy)
	return err
}

// Epoch parses EpochDate as a UTC midnight.
func (c HorizonConfig) Epoch() (time.Time, error) {
	t, err := time.ParseInLocation(epochLayout, c.EpochDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch_date %q: %w", c.EpochDate, err)
	}
	return t, nil
}

// ComfortConfig defines the local hours outside of which meetings are
// penalised.
type ComfortConfig struct {
	StartHour float64 `json:"start_hour"`
	EndHour   float64 `json:"end_hour"`
	PerHour   *int    `json:"per_hour"`
}

func (c *ComfortConfig) SetDefaults() {
	d := planner.DefaultComfort()
	if c.StartHour == 0 && c.EndHour == 0 {
		c.StartHour, c.EndHour = d.StartHour, d.EndHour
	}
	if c.PerHour == nil {
		c.PerHour = &d.PerHour
	}
}

func (c ComfortConfig) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("window %.2f-%.2f is invalid", c.StartHour, c.EndHour)
	}
	if c.PerHour != nil && *c.PerHour < 0 {
		return fmt.Errorf("per_hour must be >= 0")
	}
	return nil
}

// Model returns the planner form. Call SetDefaults first.
func (c ComfortConfig) Model() planner.Comfort {
	out := planner.Comfort{StartHour: c.StartHour, EndHour: c.EndHour}
	if c.PerHour != nil {
		out.PerHour = *c.PerHour
	}
	return out
}

// SolverConfig selects the search backend.
type SolverConfig struct {
	Type              string         `json:"type"`
	TimeBudgetSeconds float64        `json:"time_budget_seconds"`
	Workers           int            `json:"workers"`
	Conf              map[string]any `json:"conf"`
}

func (c *SolverConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = solver.DefaultType
	}
	if c.TimeBudgetSeconds == 0 {
		c.TimeBudgetSeconds = solver.DefaultTimeBudget.Seconds()
	}
}

func (c SolverConfig) Validate() error {
	if c.TimeBudgetSeconds < 0 {
		return fmt.Errorf("time_budget_seconds must be >= 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	for _, t := range solver.Types() {
		if t == c.Type {
			return nil
		}
	}
	return fmt.Errorf("unknown type %q (known: %v)", c.Type, solver.Types())
}

func (c SolverConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetSeconds * float64(time.Second))
}

func (c SolverConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: c.Conf}
}
