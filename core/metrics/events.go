package metrics

import "time"

// RunEvent summarises one planning run.
type RunEvent struct {
	RunID        string
	Status       string
	SolverStatus string
	Optimal      bool
	Objective    int
	Meetings     int
	Scheduled    int
	Variables    int
	Constraints  int
	Nodes        int
	Elapsed      time.Duration
	Time         time.Time
}

// MetricsSink records planning runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// MeetingEvent is the outcome of one meeting within a run.
type MeetingEvent struct {
	RunID     string
	MeetingID string
	Team      string
	Scheduled bool
	Penalty   int
	Time      time.Time
}

// MeetingRecorder records per-meeting outcomes.
type MeetingRecorder interface {
	RecordMeetings(evs []MeetingEvent) error
}

// SolverEvent mirrors a progress notification from the solver.
type SolverEvent struct {
	Kind      string
	Status    string
	Objective float64
	Nodes     int
	Elapsed   time.Duration
	Time      time.Time
}

// SolverProgressRecorder records solver progress.
type SolverProgressRecorder interface {
	RecordSolverEvent(ev SolverEvent) error
}

// Flusher is implemented by sinks that buffer and need an explicit write at
// the end of a run.
type Flusher interface {
	Flush() error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error            { return nil }
func (NopSink) RecordMeetings([]MeetingEvent) error { return nil }
func (NopSink) RecordSolverEvent(SolverEvent) error { return nil }
