package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/meetplan/core/metrics"
)

// PromConfig configures PromSink.
type PromConfig struct {
	// Textfile, when set, receives the gathered metrics on Flush in the
	// node-exporter textfile format.
	Textfile string `json:"textfile"`
}

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	cfg         PromConfig
	gatherer    prometheus.Gatherer
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	objective   prometheus.Gauge
	variables   prometheus.Gauge
	constraints prometheus.Gauge
	nodes       prometheus.Gauge
	meetings    *prometheus.CounterVec
	penalty     *prometheus.HistogramVec
	incumbents  prometheus.Counter
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Flush
// gathers from reg when it is also a Gatherer.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer, ok := reg.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	s := &PromSink{cfg: cfg, gatherer: gatherer}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetplan_runs_total",
		Help: "Planning runs by outcome",
	}, []string{"status", "solver_status"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meetplan_run_duration_seconds",
		Help:    "Wall time of a planning run",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "meetplan_objective",
		Help: "Total discomfort of the last schedule",
	})); err != nil {
		return nil, err
	}
	if s.variables, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "meetplan_problem_variables",
		Help: "Decision variables in the last encoded problem",
	})); err != nil {
		return nil, err
	}
	if s.constraints, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "meetplan_problem_constraints",
		Help: "Constraints in the last encoded problem",
	})); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "meetplan_search_nodes",
		Help: "Search nodes explored by the last solve",
	})); err != nil {
		return nil, err
	}
	if s.meetings, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetplan_meetings_total",
		Help: "Meetings planned by team and outcome",
	}, []string{"team", "scheduled"})); err != nil {
		return nil, err
	}
	if s.penalty, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meetplan_meeting_penalty",
		Help:    "Discomfort of scheduled meetings",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 250},
	}, []string{"team"})); err != nil {
		return nil, err
	}
	if s.incumbents, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meetplan_solver_incumbents_total",
		Help: "Improving solutions found by the solver",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, err
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// RecordRun updates the run counters and the problem size gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Status, ev.SolverStatus).Inc()
	s.duration.WithLabelValues(ev.Status).Observe(ev.Elapsed.Seconds())
	s.objective.Set(float64(ev.Objective))
	s.variables.Set(float64(ev.Variables))
	s.constraints.Set(float64(ev.Constraints))
	s.nodes.Set(float64(ev.Nodes))
	return nil
}

// RecordMeetings counts meetings per team and observes their penalties.
func (s *PromSink) RecordMeetings(evs []coremetrics.MeetingEvent) error {
	for _, ev := range evs {
		s.meetings.WithLabelValues(ev.Team, strconv.FormatBool(ev.Scheduled)).Inc()
		if ev.Scheduled {
			s.penalty.WithLabelValues(ev.Team).Observe(float64(ev.Penalty))
		}
	}
	return nil
}

// RecordSolverEvent counts improving incumbents.
func (s *PromSink) RecordSolverEvent(ev coremetrics.SolverEvent) error {
	if ev.Kind == "incumbent" {
		s.incumbents.Inc()
	}
	return nil
}

// Flush writes the textfile export when one is configured.
func (s *PromSink) Flush() error {
	if s.cfg.Textfile == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.cfg.Textfile, s.gatherer)
}
