package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/meetplan/core/model"
)

// DefaultSlotMinutes is the slot length used when none is configured.
const DefaultSlotMinutes = 30

// DefaultEpoch anchors slot 0. It is only used for display.
var DefaultEpoch = time.Date(2025, time.September, 17, 0, 0, 0, 0, time.UTC)

// WindowPolicy decides what happens to a local window that leaves the UTC day
// once shifted by the participant's offset.
type WindowPolicy string

const (
	// WindowWrap folds slots that fall outside the day back onto it.
	WindowWrap WindowPolicy = "wrap"
	// WindowClamp drops slots that fall outside the day.
	WindowClamp WindowPolicy = "clamp"
	// WindowReject refuses windows that leave the day.
	WindowReject WindowPolicy = "reject"
)

// ParseWindowPolicy parses a policy name. The empty string yields WindowWrap.
func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch WindowPolicy(s) {
	case "", WindowWrap:
		return WindowWrap, nil
	case WindowClamp, WindowReject:
		return WindowPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown window policy %q", s)
	}
}

var errOutsideDay = errors.New("window leaves the UTC day")

// Grid splits one UTC day into equal slots starting at Epoch.
type Grid struct {
	SlotMinutes int
	Epoch       time.Time
}

// NewGrid validates the slot length and anchors the grid at the UTC midnight
// of epoch.
func NewGrid(slotMinutes int, epoch time.Time) (Grid, error) {
	if slotMinutes <= 0 || model.MinutesPerDay%slotMinutes != 0 {
		return Grid{}, fmt.Errorf("slot length %d must be a positive divisor of %d", slotMinutes, model.MinutesPerDay)
	}
	if epoch.IsZero() {
		epoch = DefaultEpoch
	}
	y, m, d := epoch.UTC().Date()
	return Grid{SlotMinutes: slotMinutes, Epoch: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// DefaultGrid returns 30-minute slots anchored at DefaultEpoch.
func DefaultGrid() Grid {
	return Grid{SlotMinutes: DefaultSlotMinutes, Epoch: DefaultEpoch}
}

// HorizonSlots is the number of slots in the day.
func (g Grid) HorizonSlots() int { return model.MinutesPerDay / g.SlotMinutes }

// DurationSlots rounds a duration up to whole slots.
func (g Grid) DurationSlots(minutes int) int { return ceilDiv(minutes, g.SlotMinutes) }

// SlotStart returns the UTC instant at which slot begins.
func (g Grid) SlotStart(slot int) time.Time {
	return g.Epoch.Add(time.Duration(slot*g.SlotMinutes) * time.Minute)
}

// SlotEnd returns the UTC instant at which slot ends.
func (g Grid) SlotEnd(slot int) time.Time { return g.SlotStart(slot + 1) }

// SlotToLocalHour returns the local hour, in [0, 24), at the midpoint of slot
// for a participant at the given UTC offset.
func (g Grid) SlotToLocalHour(slot int, offsetHours float64) float64 {
	return float64(g.localMidpointMinute(slot, offsetMinutes(offsetHours))) / 60
}

// localMidpointMinute is the local minute of day at the midpoint of slot.
func (g Grid) localMidpointMinute(slot, offMinutes int) int {
	return mod(slot*g.SlotMinutes+g.SlotMinutes/2+offMinutes, model.MinutesPerDay)
}

// LocalWindowToUTCSlots marks the UTC slots touched by the local window
// [start, end). A window whose end precedes its start runs overnight; equal
// bounds give an empty window. The first slot is floored and the last one
// ceiled, so partially covered slots count as available.
func (g Grid) LocalWindowToUTCSlots(offsetHours float64, start, end model.ClockTime, policy WindowPolicy) ([]bool, error) {
	n := g.HorizonSlots()
	out := make([]bool, n)
	s, e := start.Minutes(), end.Minutes()
	if e < s {
		e += model.MinutesPerDay
	}
	if e == s {
		return out, nil
	}
	off := offsetMinutes(offsetHours)
	us, ue := s-off, e-off
	first, last := floorDiv(us, g.SlotMinutes), ceilDiv(ue, g.SlotMinutes)

	switch policy {
	case WindowReject:
		if us < 0 || ue > model.MinutesPerDay {
			return nil, errOutsideDay
		}
		for k := first; k < last; k++ {
			out[k] = true
		}
	case WindowClamp:
		for k := max(first, 0); k < min(last, n); k++ {
			out[k] = true
		}
	default:
		if last-first >= n {
			first, last = 0, n
		}
		for k := first; k < last; k++ {
			out[mod(k, n)] = true
		}
	}
	return out, nil
}

func offsetMinutes(hours float64) int { return int(math.Round(hours * 60)) }

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int { return -floorDiv(-a, b) }

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
