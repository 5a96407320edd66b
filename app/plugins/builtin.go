// Package plugins links the built-in module implementations into the binary
// and reports which module types configuration may name.
package plugins

import (
	coremetrics "github.com/kilianp07/meetplan/core/metrics"
	"github.com/kilianp07/meetplan/core/runlog"
	"github.com/kilianp07/meetplan/core/solver"
	// registers the prometheus and influx sinks
	_ "github.com/kilianp07/meetplan/infra/metrics"
)

// Catalog lists the module types per configuration section.
type Catalog struct {
	Solvers        []string `json:"solvers"`
	MetricsSinks   []string `json:"metrics_sinks"`
	RunLogBackends []string `json:"runlog_backends"`
}

// Available returns the registered module types.
func Available() Catalog {
	return Catalog{
		Solvers:        solver.Types(),
		MetricsSinks:   coremetrics.SinkTypes(),
		RunLogBackends: runlog.Backends(),
	}
}
