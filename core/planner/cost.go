package planner

import (
	"math"

	"github.com/kilianp07/meetplan/core/model"
)

// Comfort describes the local working hours outside of which attendance is
// penalised. PerHour is charged per hour of distance to the nearest edge,
// rounded up.
type Comfort struct {
	StartHour float64 `json:"start_hour"`
	EndHour   float64 `json:"end_hour"`
	PerHour   int     `json:"per_hour"`
}

// DefaultComfort is 09:00 to 17:00 at 10 per hour.
func DefaultComfort() Comfort {
	return Comfort{StartHour: 9, EndHour: 17, PerHour: 10}
}

func (c Comfort) bounds() (lo, hi int) {
	return int(math.Round(c.StartHour * 60)), int(math.Round(c.EndHour * 60))
}

// Penalty is the discomfort of slot for participant p. It is computed on whole
// minutes so the rounding never sees float noise.
func Penalty(g Grid, c Comfort, slot int, p model.Participant) int {
	local := g.localMidpointMinute(slot, p.OffsetMinutes())
	lo, hi := c.bounds()
	var dist int
	switch {
	case local < lo:
		dist = lo - local
	case local >= hi:
		dist = local - hi
	default:
		return 0
	}
	return ceilDiv(c.PerHour*dist, 60)
}

// CandidateCost sums the penalty over every slot and attendee of m started at
// start. Attendees missing from participants are skipped.
func CandidateCost(g Grid, c Comfort, m model.Meeting, participants map[string]model.Participant, start int) int {
	dur := g.DurationSlots(m.DurationMinutes)
	cost := 0
	for t := start; t < start+dur; t++ {
		for _, name := range m.Participants {
			if p, ok := participants[name]; ok {
				cost += Penalty(g, c, t, p)
			}
		}
	}
	return cost
}

type costKey struct {
	meeting string
	start   int
}

// CostTable memoises CandidateCost for one roster.
type CostTable struct {
	grid         Grid
	comfort      Comfort
	participants map[string]model.Participant
	cache        map[costKey]int
}

// NewCostTable prepares a cost cache for r.
func NewCostTable(g Grid, c Comfort, r model.Roster) *CostTable {
	return &CostTable{grid: g, comfort: c, participants: r.ParticipantIndex(), cache: make(map[costKey]int)}
}

// Cost returns the cost of starting m at start.
func (t *CostTable) Cost(m model.Meeting, start int) int {
	k := costKey{m.ID, start}
	if v, ok := t.cache[k]; ok {
		return v
	}
	v := CandidateCost(t.grid, t.comfort, m, t.participants, start)
	t.cache[k] = v
	return v
}
