package metrics

import (
	"context"
	"time"

	coremetrics "github.com/kilianp07/meetplan/core/metrics"
	"github.com/kilianp07/meetplan/core/solver"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/internal/eventbus"
)

// StartEventCollector subscribes to the solver event bus and forwards events
// to sink when it implements SolverProgressRecorder. Sink errors go to log.
// It stops when the context is canceled or the bus is closed; the returned
// channel is closed then.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[solver.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.SolverProgressRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := rec.RecordSolverEvent(coremetrics.SolverEvent{
					Kind:      string(ev.Kind),
					Status:    ev.Status.String(),
					Objective: ev.Objective,
					Nodes:     ev.Nodes,
					Elapsed:   ev.Elapsed,
					Time:      time.Now(),
				}); err != nil {
					log.Errorf("record solver %s event: %v", ev.Kind, err)
				}
			}
		}
	}()
	return done
}
