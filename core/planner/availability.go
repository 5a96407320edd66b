package planner

import "github.com/kilianp07/meetplan/core/model"

// Availability holds, per participant name, one flag per UTC slot.
type Availability map[string][]bool

// ResolveAvailability computes a fresh Availability for participants.
func ResolveAvailability(g Grid, participants []model.Participant, policy WindowPolicy) (Availability, error) {
	av := make(Availability, len(participants))
	for _, p := range participants {
		slots, err := g.LocalWindowToUTCSlots(p.UTCOffsetHours, p.LocalStart, p.LocalEnd, policy)
		if err != nil {
			return nil, &WindowError{Participant: p.Name, Err: err}
		}
		av[p.Name] = slots
	}
	return av, nil
}

// Covers reports whether name is free on every slot of [start, start+n).
func (a Availability) Covers(name string, start, n int) bool {
	slots, ok := a[name]
	if !ok || start < 0 || start+n > len(slots) {
		return false
	}
	for t := start; t < start+n; t++ {
		if !slots[t] {
			return false
		}
	}
	return true
}
