// Package metrics defines the sinks that observe planning runs. Sinks like
// PromSink and InfluxSink record one RunEvent per run and, when they
// implement the optional recorder interfaces, per-meeting outcomes and solver
// progress. NewMetricsSink builds sinks from configuration and wraps several
// of them in a MultiSink.
package metrics
