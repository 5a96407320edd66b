package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/meetplan/core/planner"
)

// Record captures one planning run and its outcome.
type Record struct {
	RunID        string          `json:"run_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Status       planner.Status  `json:"status"`
	SolverStatus string          `json:"solver_status"`
	Optimal      bool            `json:"optimal"`
	Objective    int             `json:"objective"`
	ElapsedMS    int64           `json:"elapsed_ms"`
	Rows         []planner.Row   `json:"rows"`
	Causes       []planner.Cause `json:"causes,omitempty"`
}

// FromResult converts a planner result into a Record.
func FromResult(res *planner.Result) Record {
	return Record{
		RunID:        res.RunID,
		Timestamp:    res.StartedAt.UTC(),
		Status:       res.Status,
		SolverStatus: res.SolverStatus,
		Optimal:      res.Optimal,
		Objective:    res.Objective,
		ElapsedMS:    res.Elapsed.Milliseconds(),
		Rows:         res.Rows,
		Causes:       res.Causes,
	}
}

// Query defines filters for retrieving records. Zero values match anything.
type Query struct {
	Start     time.Time
	End       time.Time
	Status    planner.Status
	MeetingID string
}

// Matches reports whether r passes every filter of q.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.MeetingID != "" {
		for _, row := range r.Rows {
			if row.MeetingID == q.MeetingID {
				return true
			}
		}
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Config selects a Store backend.
type Config struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	// Rotation only applies to the jsonl_rotating backend.
	MaxSizeMB  int `json:"max_size_mb"`
	MaxBackups int `json:"max_backups"`
	MaxAgeDays int `json:"max_age_days"`
}

// Backends lists the names accepted by Open.
func Backends() []string { return []string{"none", "jsonl", "jsonl_rotating", "sqlite"} }

// Open returns the Store described by cfg. An empty backend disables the log.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "none":
		return NopStore{}, nil
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	case "jsonl_rotating":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown runlog backend %q", cfg.Backend)
	}
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error           { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
