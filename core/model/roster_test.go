package model

import "testing"

func TestParticipantOffsetMinutes(t *testing.T) {
	if got := (Participant{UTCOffsetHours: 5.5}).OffsetMinutes(); got != 330 {
		t.Fatalf("expected 330 got %d", got)
	}
	if got := (Participant{UTCOffsetHours: -2}).OffsetMinutes(); got != -120 {
		t.Fatalf("expected -120 got %d", got)
	}
}

func TestRosterLookups(t *testing.T) {
	r := Roster{
		Participants: []Participant{{Name: "Alice"}, {Name: "Bob"}},
		Meetings: []Meeting{
			{ID: "m1", Participants: []string{"Alice", "Bob"}},
			{ID: "m2", DurationMinutes: 45, Participants: []string{"Bob"}},
		},
	}
	if len(r.ParticipantIndex()) != 2 {
		t.Fatalf("expected 2 participants")
	}
	if _, ok := r.Meeting("m2"); !ok {
		t.Fatalf("m2 not found")
	}
	if _, ok := r.Meeting("nope"); ok {
		t.Fatalf("unexpected meeting")
	}
	ms := r.MeetingsOf("Bob")
	if len(ms) != 2 || ms[0].ID != "m1" || ms[1].ID != "m2" {
		t.Fatalf("unexpected meetings for Bob: %v", ms)
	}
	if ms[1].DurationMinutes != 45 {
		t.Fatalf("meeting values not carried: %+v", ms[1])
	}
	if len(r.MeetingsOf("Nobody")) != 0 {
		t.Fatalf("unexpected meetings for an unknown name")
	}
}
