package planner

import "github.com/kilianp07/meetplan/core/model"

// Candidates maps a meeting ID to its feasible start slots in ascending order.
type Candidates map[string][]int

// GenerateCandidates slides each meeting over the day and keeps the starts at
// which every attendee is free for the whole duration. Meetings never wrap
// past the end of the day. An empty list is not an error here.
func GenerateCandidates(g Grid, r model.Roster, av Availability) (Candidates, error) {
	n := g.HorizonSlots()
	out := make(Candidates, len(r.Meetings))
	for _, m := range r.Meetings {
		for _, p := range m.Participants {
			if _, ok := av[p]; !ok {
				return nil, &UnknownParticipantError{Meeting: m.ID, Participant: p}
			}
		}
		dur := g.DurationSlots(m.DurationMinutes)
		starts := []int{}
		for s := 0; s+dur <= n; s++ {
			if coversAll(av, m.Participants, s, dur) {
				starts = append(starts, s)
			}
		}
		out[m.ID] = starts
	}
	return out, nil
}

func coversAll(av Availability, names []string, start, dur int) bool {
	for _, p := range names {
		if !av.Covers(p, start, dur) {
			return false
		}
	}
	return true
}
