package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks and joins their errors.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRun(ev))
	}
	return errors.Join(errs...)
}

// RecordMeetings forwards to the sinks that implement MeetingRecorder.
func (m *MultiSink) RecordMeetings(evs []MeetingEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(MeetingRecorder); ok {
			errs = append(errs, r.RecordMeetings(evs))
		}
	}
	return errors.Join(errs...)
}

// RecordSolverEvent forwards to the sinks that implement
// SolverProgressRecorder.
func (m *MultiSink) RecordSolverEvent(ev SolverEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(SolverProgressRecorder); ok {
			errs = append(errs, r.RecordSolverEvent(ev))
		}
	}
	return errors.Join(errs...)
}

// Flush flushes every sink that implements Flusher.
func (m *MultiSink) Flush() error {
	var errs []error
	for _, s := range m.Sinks {
		if f, ok := s.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}

// Close releases every sink that holds a client.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
