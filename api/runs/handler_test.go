package runs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/meetplan/core/planner"
	"github.com/kilianp07/meetplan/core/runlog"
)

func seededStore(t *testing.T) runlog.Store {
	t.Helper()
	store, err := runlog.NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	base := time.Date(2025, 9, 17, 8, 0, 0, 0, time.UTC)
	recs := []runlog.Record{
		{RunID: "a", Timestamp: base, Status: planner.StatusScheduled, Rows: []planner.Row{{MeetingID: "Standup"}}},
		{RunID: "b", Timestamp: base.Add(time.Hour), Status: planner.StatusInfeasible, Rows: []planner.Row{{MeetingID: "Review"}}},
	}
	for _, r := range recs {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func get(t *testing.T, h http.Handler, target, token string) (*httptest.ResponseRecorder, []runlog.Record) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var recs []runlog.Record
	if rr.Code == http.StatusOK {
		if err := json.NewDecoder(rr.Body).Decode(&recs); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rr, recs
}

func TestHandlerFilters(t *testing.T) {
	h := NewHandler(seededStore(t), "")

	_, all := get(t, h, "/api/runs", "")
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	_, recs := get(t, h, "/api/runs?status=infeasible", "")
	if len(recs) != 1 || recs[0].RunID != "b" {
		t.Fatalf("status filter = %+v", recs)
	}
	_, recs = get(t, h, "/api/runs?meeting=Standup", "")
	if len(recs) != 1 || recs[0].RunID != "a" {
		t.Fatalf("meeting filter = %+v", recs)
	}
	_, recs = get(t, h, "/api/runs?start=2025-09-17T08:30:00Z", "")
	if len(recs) != 1 || recs[0].RunID != "b" {
		t.Fatalf("start filter = %+v", recs)
	}
	rr, recs := get(t, h, "/api/runs?meeting=Nope", "")
	if rr.Code != http.StatusOK || recs == nil || len(recs) != 0 {
		t.Fatalf("expected an empty list, got %d %+v", rr.Code, recs)
	}
}

func TestHandlerAuthAndErrors(t *testing.T) {
	h := NewHandler(seededStore(t), "secret")

	if rr, _ := get(t, h, "/api/runs", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr, recs := get(t, h, "/api/runs", "secret"); rr.Code != http.StatusOK || len(recs) != 2 {
		t.Fatalf("expected 200 with 2 runs, got %d/%d", rr.Code, len(recs))
	}
	if rr, _ := get(t, h, "/api/runs?start=yesterday", "secret"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/runs", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
