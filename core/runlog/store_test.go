package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/core/planner"
)

var base = time.Date(2025, 9, 17, 8, 0, 0, 0, time.UTC)

func sampleRecords() []Record {
	penalty := 3
	start := base.Add(3 * time.Hour)
	return []Record{
		{
			RunID:     "r1",
			Timestamp: base,
			Status:    planner.StatusScheduled,
			Objective: 3,
			Rows: []planner.Row{
				{MeetingID: "Mktg.Sync", Team: "Marketing", StartUTC: &start, Penalty: &penalty},
				{MeetingID: "Eng.AllHands", Team: "Engineering"},
			},
		},
		{
			RunID:     "r2",
			Timestamp: base.Add(time.Hour),
			Status:    planner.StatusInfeasible,
			Rows:      []planner.Row{{MeetingID: "Eng.AllHands"}},
			Causes:    []planner.Cause{{Kind: planner.CauseConflict, Meetings: []string{"Eng.AllHands"}}},
		},
		{
			RunID:     "r3",
			Timestamp: base.Add(2 * time.Hour),
			Status:    planner.StatusScheduled,
			Rows:      []planner.Row{{MeetingID: "Prod.Planning"}},
		},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range sampleRecords() {
		require.NoError(t, s.Append(ctx, r))
	}

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].RunID)
	require.NotNil(t, all[0].Rows[0].Penalty)
	assert.Equal(t, 3, *all[0].Rows[0].Penalty)
	assert.True(t, all[0].Rows[0].StartUTC.Equal(base.Add(3*time.Hour)))

	scheduled, err := s.Query(ctx, Query{Status: planner.StatusScheduled})
	require.NoError(t, err)
	assert.Len(t, scheduled, 2)

	eng, err := s.Query(ctx, Query{MeetingID: "Eng.AllHands"})
	require.NoError(t, err)
	require.Len(t, eng, 2)
	assert.Equal(t, "r2", eng[1].RunID)
	assert.Equal(t, planner.CauseConflict, eng[1].Causes[0].Kind)

	window, err := s.Query(ctx, Query{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "r2", window[0].RunID)
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "runs.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore_EmptyQuery(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 1, 1)
	require.NoError(t, err)
	out, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{"", "none", "jsonl", "jsonl_rotating", "sqlite"} {
		s, err := Open(Config{Backend: backend, Path: filepath.Join(dir, "runs-"+backend), MaxSizeMB: 1})
		require.NoError(t, err, backend)
		require.NoError(t, s.Close(), backend)
	}
	_, err := Open(Config{Backend: "postgres"})
	assert.Error(t, err)
}

func TestFromResult(t *testing.T) {
	res := &planner.Result{
		RunID:        "abc",
		Status:       planner.StatusTimedOut,
		SolverStatus: "UNKNOWN",
		StartedAt:    base.In(time.FixedZone("x", 7200)),
		Elapsed:      1500 * time.Millisecond,
	}
	rec := FromResult(res)
	assert.Equal(t, "abc", rec.RunID)
	assert.Equal(t, int64(1500), rec.ElapsedMS)
	assert.Equal(t, time.UTC, rec.Timestamp.Location())
	assert.True(t, rec.Timestamp.Equal(base))
}
