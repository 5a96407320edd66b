package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/meetplan/core/metrics"
	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/roster"
)

// EnvPrefix marks environment variables that override file values.
// MEETPLAN_SOLVER__TIME_BUDGET_SECONDS maps to solver.time_budget_seconds.
const EnvPrefix = "MEETPLAN_"

type Config struct {
	Horizon HorizonConfig  `json:"horizon"`
	Comfort ComfortConfig  `json:"comfort"`
	Solver  SolverConfig   `json:"solver"`
	Metrics metrics.Config `json:"metrics"`
	RunLog  RunLogConfig   `json:"runlog"`
	Sentry  SentryConfig   `json:"sentry"`
	API     APIConfig      `json:"api"`
	// RosterPath points at a roster document; Roster embeds one inline.
	// The inline roster wins when both are set.
	RosterPath string       `json:"roster_path"`
	Roster     *roster.File `json:"roster"`
}

// Load reads the file at path, applies MEETPLAN_ overrides, then defaults
// and validation. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

func (c *Config) SetDefaults() {
	c.Horizon.SetDefaults()
	c.Comfort.SetDefaults()
	c.Solver.SetDefaults()
	c.RunLog.SetDefaults()
	c.Sentry.SetDefaults()
	c.API.SetDefaults()
}

func (c Config) Validate() error {
	if err := c.Horizon.Validate(); err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	if err := c.Comfort.Validate(); err != nil {
		return fmt.Errorf("comfort: %w", err)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics: sink %d: type is required", i)
		}
	}
	if err := c.RunLog.Validate(); err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	if err := c.Sentry.Validate(); err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	return nil
}

// PlannerConfig converts the horizon, comfort and solver sections.
func (c Config) PlannerConfig() (planner.Config, error) {
	epoch, err := c.Horizon.Epoch()
	if err != nil {
		return planner.Config{}, err
	}
	return planner.Config{
		SlotMinutes:  c.Horizon.SlotMinutes,
		Epoch:        epoch,
		WindowPolicy: planner.WindowPolicy(c.Horizon.WindowPolicy),
		Comfort:      c.Comfort.Model(),
		TimeBudget:   c.Solver.TimeBudget(),
		Workers:      c.Solver.Workers,
	}, nil
}

// LoadRoster returns the inline roster or, failing that, the one at
// RosterPath. override, when non-empty, replaces RosterPath.
func (c Config) LoadRoster(override string) (model.Roster, error) {
	switch {
	case override != "":
		return roster.Load(override)
	case c.Roster != nil:
		return c.Roster.ToModel()
	case c.RosterPath != "":
		return roster.Load(c.RosterPath)
	default:
		return model.Roster{}, fmt.Errorf("no roster configured")
	}
}
