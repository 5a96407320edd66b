package scenarios

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/meetplan/core/factory"
	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/solver"
	"github.com/kilianp07/meetplan/infra/logger"
	"github.com/kilianp07/meetplan/infra/metrics"
	"github.com/kilianp07/meetplan/internal/eventbus"
)

// RunScenario plans sc with a private Prometheus registry and checks the
// expectations plus the schedule invariants.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(metrics.PromConfig{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	s, err := solver.New(factory.ModuleConfig{Type: sc.Solver})
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	r, err := sc.Roster.ToModel()
	if err != nil {
		t.Fatalf("roster: %v", err)
	}

	bus := eventbus.New[solver.Event]()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	collected := metrics.StartEventCollector(ctx, bus, sink, logger.NopLogger{})
	p := planner.New(sc.PlannerConfig(),
		planner.WithSolver(s),
		planner.WithLogger(logger.NopLogger{}),
		planner.WithBus(bus),
		planner.WithSink(sink),
	)
	res, err := p.Plan(ctx, r)
	bus.Close()
	<-collected

	exp := sc.Expected
	if exp.Error != "" {
		if err == nil || !strings.Contains(err.Error(), exp.Error) {
			t.Fatalf("scenario %s expected error containing %q, got %v", sc.Name, exp.Error, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: plan: %v", sc.Name, err)
	}
	if exp.Status != "" && string(res.Status) != exp.Status {
		t.Errorf("scenario %s expected status %s, got %s (%v)", sc.Name, exp.Status, res.Status, res.Err())
	}
	if exp.Objective != nil && res.Objective != *exp.Objective {
		t.Errorf("scenario %s expected objective %d, got %d", sc.Name, *exp.Objective, res.Objective)
	}
	if exp.Scheduled != nil && res.Stats.Scheduled != *exp.Scheduled {
		t.Errorf("scenario %s expected %d scheduled, got %d", sc.Name, *exp.Scheduled, res.Stats.Scheduled)
	}
	if exp.CauseMeetings != nil {
		if got := causeMeetings(res.Causes); strings.Join(got, ",") != strings.Join(sorted(exp.CauseMeetings), ",") {
			t.Errorf("scenario %s expected cause meetings %v, got %v", sc.Name, exp.CauseMeetings, got)
		}
	}
	for id, want := range exp.Starts {
		got := ""
		for _, row := range res.Rows {
			if row.MeetingID == id && row.StartUTC != nil {
				got = row.StartUTC.Format("15:04")
			}
		}
		if got != want {
			t.Errorf("scenario %s expected %s at %s, got %q", sc.Name, id, want, got)
		}
	}

	if len(res.Rows) != len(r.Meetings) {
		t.Errorf("scenario %s: %d rows for %d meetings", sc.Name, len(res.Rows), len(r.Meetings))
	}
	checkNoDoubleBooking(t, sc.Name, r, res.Rows)
	if n, err := testutil.GatherAndCount(reg, "meetplan_runs_total"); err != nil || n != 1 {
		t.Errorf("scenario %s: runs series = %d (%v)", sc.Name, n, err)
	}
}

func checkNoDoubleBooking(t *testing.T, name string, r model.Roster, rows []planner.Row) {
	t.Helper()
	type span struct {
		id         string
		start, end time.Time
	}
	busy := map[string][]span{}
	for _, row := range rows {
		if !row.Scheduled() {
			continue
		}
		m, _ := r.Meeting(row.MeetingID)
		for _, who := range m.Participants {
			for _, other := range busy[who] {
				if row.StartUTC.Before(other.end) && other.start.Before(*row.EndUTC) {
					t.Errorf("scenario %s: %s attends %s and %s at once", name, who, other.id, row.MeetingID)
				}
			}
			busy[who] = append(busy[who], span{row.MeetingID, *row.StartUTC, *row.EndUTC})
		}
	}
}

func causeMeetings(causes []planner.Cause) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, c := range causes {
		for _, m := range c.Meetings {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				ids = append(ids, m)
			}
		}
	}
	return sorted(ids)
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
