package model

// Roster holds the static participant and meeting tables of one planning run.
// It is built once and never mutated afterwards.
type Roster struct {
	Participants []Participant `validate:"dive"`
	Meetings     []Meeting     `validate:"dive"`
}

// ParticipantIndex returns the participants keyed by name. When names are
// duplicated the first entry wins.
func (r Roster) ParticipantIndex() map[string]Participant {
	idx := make(map[string]Participant, len(r.Participants))
	for _, p := range r.Participants {
		if _, ok := idx[p.Name]; !ok {
			idx[p.Name] = p
		}
	}
	return idx
}

// Meeting looks up a meeting by ID.
func (r Roster) Meeting(id string) (Meeting, bool) {
	for _, m := range r.Meetings {
		if m.ID == id {
			return m, true
		}
	}
	return Meeting{}, false
}

// MeetingsOf returns the meetings that require the participant, in roster
// order.
func (r Roster) MeetingsOf(name string) []Meeting {
	var out []Meeting
	for _, m := range r.Meetings {
		for _, p := range m.Participants {
			if p == name {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
