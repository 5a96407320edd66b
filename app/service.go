package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/meetplan/config"
	coremetrics "github.com/kilianp07/meetplan/core/metrics"
	"github.com/kilianp07/meetplan/core/model"
	coremon "github.com/kilianp07/meetplan/core/monitoring"
	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/runlog"
	"github.com/kilianp07/meetplan/core/solver"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/infra/metrics"
	"github.com/kilianp07/meetplan/internal/eventbus"
)

// Service wires the planner to its metrics sinks, run log and monitor.
type Service struct {
	Planner *planner.Planner

	store     runlog.Store
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus[solver.Event]
	monitor   coremon.Monitor
	log       logger.Logger
	stop      context.CancelFunc
	collected <-chan struct{}
	closeOnce sync.Once
}

type deps struct {
	solver  solver.Solver
	store   runlog.Store
	sink    coremetrics.MetricsSink
	monitor coremon.Monitor
	now     func() time.Time
}

// Option overrides a component otherwise built from configuration.
type Option func(*deps)

func WithSolver(s solver.Solver) Option         { return func(d *deps) { d.solver = s } }
func WithStore(s runlog.Store) Option           { return func(d *deps) { d.store = s } }
func WithSink(s coremetrics.MetricsSink) Option { return func(d *deps) { d.sink = s } }
func WithMonitor(m coremon.Monitor) Option      { return func(d *deps) { d.monitor = m } }
func WithClock(now func() time.Time) Option     { return func(d *deps) { d.now = now } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	var d deps
	for _, o := range opts {
		o(&d)
	}
	pc, err := cfg.PlannerConfig()
	if err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	if d.solver == nil {
		if d.solver, err = solver.New(cfg.Solver.Module()); err != nil {
			return nil, fmt.Errorf("solver: %w", err)
		}
	}
	if d.sink == nil {
		if d.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks); err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
	}
	if d.store == nil {
		if d.store, err = runlog.Open(cfg.RunLog.Store()); err != nil {
			return nil, fmt.Errorf("runlog: %w", err)
		}
	}
	if d.monitor == nil {
		d.monitor = coremon.NopMonitor{}
	}

	bus := eventbus.New[solver.Event]()
	ctx, cancel := context.WithCancel(context.Background())
	popts := []planner.Option{
		planner.WithSolver(d.solver),
		planner.WithLogger(logger.New("planner")),
		planner.WithBus(bus),
		planner.WithSink(d.sink),
	}
	if d.now != nil {
		popts = append(popts, planner.WithClock(d.now))
	}
	return &Service{
		Planner:   planner.New(pc, popts...),
		store:     d.store,
		sink:      d.sink,
		bus:       bus,
		monitor:   d.monitor,
		log:       logger.New("service"),
		stop:      cancel,
		collected: metrics.StartEventCollector(ctx, bus, d.sink, logger.New("metrics-collector")),
	}, nil
}

// Plan schedules r and appends the outcome to the run log. A run-log or
// metrics failure is logged and does not change the result. Timed-out runs
// are reported to the monitor with their run ID.
func (s *Service) Plan(ctx context.Context, r model.Roster) (*planner.Result, error) {
	res, err := s.Planner.Plan(ctx, r)
	if err != nil {
		s.monitor.CaptureException(err, map[string]string{"stage": "plan"})
		return nil, err
	}
	if res.Status == planner.StatusTimedOut {
		s.monitor.CaptureException(res.Err(), map[string]string{
			"stage":         "solve",
			"run_id":        res.RunID,
			"solver_status": res.SolverStatus,
		})
	}
	if err := s.store.Append(ctx, runlog.FromResult(res)); err != nil {
		s.log.Errorf("runlog append %s: %v", res.RunID, err)
	}
	if f, ok := s.sink.(coremetrics.Flusher); ok {
		if err := f.Flush(); err != nil {
			s.log.Errorf("flush metrics: %v", err)
		}
	}
	return res, nil
}

// Candidates encodes r without solving it.
func (s *Service) Candidates(r model.Roster) (*planner.Encoding, error) {
	return s.Planner.Prepare(r)
}

// Runs queries the run log.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error) {
	return s.store.Query(ctx, q)
}

// Store returns the run log.
func (s *Service) Store() runlog.Store { return s.store }

// Close drains pending solver events and releases the run log and sinks.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.bus.Close()
		<-s.collected
		s.stop()
		if c, ok := s.sink.(interface{ Close() }); ok {
			c.Close()
		}
		err = s.store.Close()
	})
	return err
}
