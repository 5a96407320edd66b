package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/solver"
)

func encodeRoster(t *testing.T, r model.Roster) *Encoding {
	t.Helper()
	enc, err := Encode(DefaultGrid(), DefaultComfort(), r, candidatesFor(t, r, WindowWrap))
	require.NoError(t, err)
	return enc
}

func TestEncode_ReferenceRoster(t *testing.T) {
	enc := encodeRoster(t, referenceRoster())
	require.True(t, enc.Feasible())
	require.NoError(t, enc.Problem.Validate())
	assert.Len(t, enc.Problem.Vars, 29)
	assert.Len(t, enc.Candidates, 29)
	assert.Equal(t, "start_Mktg.Sync_22", enc.Problem.Vars[0].Name)
	assert.Equal(t, Candidate{MeetingID: "Mktg.Sync", Start: 22, Cost: 0}, enc.Candidates[0])

	var exactly, overlap int
	for _, c := range enc.Problem.Constraints {
		switch {
		case strings.HasPrefix(c.Label, "exactly_one/"):
			exactly++
			assert.Equal(t, solver.Equal, c.Sense)
		case strings.HasPrefix(c.Label, "no_overlap/"):
			overlap++
			assert.Equal(t, solver.LessEq, c.Sense)
			assert.NotEmpty(t, c.Terms)
		}
	}
	assert.Equal(t, 3, exactly)
	assert.Positive(t, overlap)

	// each variable index appears once across the per-meeting lists
	seen := map[int]bool{}
	for _, m := range referenceRoster().Meetings {
		for _, v := range enc.ByMeeting[m.ID] {
			assert.False(t, seen[v])
			seen[v] = true
			assert.Equal(t, m.ID, enc.Candidates[v].MeetingID)
			assert.Equal(t, float64(enc.Candidates[v].Cost), enc.Problem.Vars[v].Cost)
		}
	}
	assert.Len(t, seen, 29)
}

func TestEncode_OverlapRowsCoverDuration(t *testing.T) {
	r := model.Roster{
		Participants: []model.Participant{person("A", 0, "09:00", "10:30")},
		Meetings: []model.Meeting{
			meeting("long", "", 60, "A"),
			meeting("short", "", 30, "A"),
		},
	}
	enc := encodeRoster(t, r)
	// long: 18,19; short: 18,19,20
	rows := map[string]int{}
	for _, c := range enc.Problem.Constraints {
		if strings.HasPrefix(c.Label, "no_overlap/") {
			rows[c.Label] = len(c.Terms)
		}
	}
	assert.Equal(t, map[string]int{
		"no_overlap/A/18": 2,
		"no_overlap/A/19": 3,
		"no_overlap/A/20": 2,
	}, rows)
}

func TestEncode_DropsDominatedOverlapRows(t *testing.T) {
	r := model.Roster{
		Participants: []model.Participant{person("A", 0, "09:00", "10:30")},
		Meetings: []model.Meeting{
			meeting("one", "", 60, "A"),
			meeting("two", "", 60, "A"),
		},
	}
	enc := encodeRoster(t, r)
	// both start at 18 or 19; slot 19 is covered by all four variables
	rows := map[string]int{}
	for _, c := range enc.Problem.Constraints {
		if strings.HasPrefix(c.Label, "no_overlap/") {
			rows[c.Label] = len(c.Terms)
		}
	}
	assert.Equal(t, map[string]int{"no_overlap/A/19": 4}, rows)
}

func TestSubsetAndDominated(t *testing.T) {
	assert.True(t, subset(nil, []int{1}))
	assert.True(t, subset([]int{1, 3}, []int{1, 2, 3}))
	assert.False(t, subset([]int{1, 4}, []int{1, 2, 3}))
	assert.False(t, subset([]int{1}, nil))

	covering := [][]int{{1}, {1, 2}, {1, 2}, {2}, nil, {3}}
	var kept []int
	for i, set := range covering {
		if len(set) > 0 && !dominated(covering, i) {
			kept = append(kept, i)
		}
	}
	assert.Equal(t, []int{2, 5}, kept)
}

func TestEncode_EmptyCandidateMarker(t *testing.T) {
	r := model.Roster{
		Participants: []model.Participant{
			person("Kiri", 14, "09:00", "17:00"),
			person("Lena", 0, "09:00", "17:00"),
		},
		Meetings: []model.Meeting{
			meeting("late", "", 30, "Kiri", "Lena"),
			meeting("solo", "", 30, "Lena"),
		},
	}
	enc := encodeRoster(t, r)
	require.False(t, enc.Feasible())
	require.Len(t, enc.Markers, 1)
	assert.Equal(t, Infeasibility{Meeting: "late", Participants: []string{"Kiri", "Lena"}, Kind: EmptyCandidateSet}, enc.Markers[0])
	assert.Equal(t, []string{"exactly_one/late"}, enc.Problem.UnsatisfiableLabels())
	assert.Empty(t, enc.ByMeeting["late"])
}

func TestEncode_MissingCandidateList(t *testing.T) {
	_, err := Encode(DefaultGrid(), DefaultComfort(), referenceRoster(), Candidates{})
	assert.Error(t, err)
}
