package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/core/model"
)

func TestNewGrid(t *testing.T) {
	for _, bad := range []int{0, -30, 7, 1441} {
		if _, err := NewGrid(bad, time.Time{}); err == nil {
			t.Fatalf("slot length %d: expected error", bad)
		}
	}
	g, err := NewGrid(15, time.Date(2025, 3, 1, 13, 20, 0, 0, time.FixedZone("x", 3600)))
	require.NoError(t, err)
	assert.Equal(t, 96, g.HorizonSlots())
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), g.Epoch)

	g, err = NewGrid(30, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, DefaultGrid(), g)
}

func TestGridSlots(t *testing.T) {
	g := DefaultGrid()
	assert.Equal(t, 48, g.HorizonSlots())
	assert.Equal(t, 2, g.DurationSlots(60))
	assert.Equal(t, 2, g.DurationSlots(45))
	assert.Equal(t, 1, g.DurationSlots(30))
	assert.Equal(t, DefaultEpoch.Add(9*time.Hour), g.SlotStart(18))
	assert.Equal(t, DefaultEpoch.Add(9*time.Hour+30*time.Minute), g.SlotEnd(18))
}

func TestSlotToLocalHour(t *testing.T) {
	g := DefaultGrid()
	cases := []struct {
		slot   int
		offset float64
		want   float64
	}{
		{18, 0, 9.25},
		{0, -2, 22.25},
		{47, 14, 13.75},
		{20, 5.5, 15.75},
		{10, -12, 17.25},
	}
	for _, c := range cases {
		if got := g.SlotToLocalHour(c.slot, c.offset); got != c.want {
			t.Fatalf("slot %d offset %v: expected %v got %v", c.slot, c.offset, c.want, got)
		}
	}
}

func inWindow(minute int, start, end model.ClockTime) bool {
	s, e := start.Minutes(), end.Minutes()
	switch {
	case s == e:
		return false
	case s < e:
		return minute >= s && minute < e
	default:
		return minute >= s || minute < e
	}
}

func TestLocalWindowToUTCSlots_WrapMatchesLocalHour(t *testing.T) {
	g := DefaultGrid()
	windows := [][2]string{{"09:00", "17:00"}, {"22:00", "06:00"}, {"00:00", "24:00"}, {"10:30", "11:00"}, {"08:30", "16:30"}}
	for off := -12.0; off <= 14; off += 0.5 {
		for _, w := range windows {
			start, _ := model.ParseClock(w[0])
			end, _ := model.ParseClock(w[1])
			slots, err := g.LocalWindowToUTCSlots(off, start, end, WindowWrap)
			require.NoError(t, err)
			require.Len(t, slots, g.HorizonSlots())
			for s, avail := range slots {
				local := int(g.SlotToLocalHour(s, off) * 60)
				if avail != inWindow(local, start, end) {
					t.Fatalf("offset %v window %v slot %d: got %v", off, w, s, avail)
				}
			}
		}
	}
}

func TestLocalWindowToUTCSlots_Policies(t *testing.T) {
	g := DefaultGrid()
	start, end := model.NewClock(22, 0), model.NewClock(24, 0)

	wrapped, err := g.LocalWindowToUTCSlots(-2, start, end, WindowWrap)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, trueSlots(wrapped))

	clamped, err := g.LocalWindowToUTCSlots(-2, start, end, WindowClamp)
	require.NoError(t, err)
	assert.Empty(t, trueSlots(clamped))

	_, err = g.LocalWindowToUTCSlots(-2, start, end, WindowReject)
	assert.ErrorIs(t, err, errOutsideDay)

	inside, err := g.LocalWindowToUTCSlots(1, model.NewClock(9, 0), model.NewClock(17, 0), WindowReject)
	require.NoError(t, err)
	assert.Equal(t, 16, trueSlots(inside)[0])

	empty, err := g.LocalWindowToUTCSlots(3, model.NewClock(9, 0), model.NewClock(9, 0), WindowWrap)
	require.NoError(t, err)
	assert.Empty(t, trueSlots(empty))
}

func TestLocalWindowToUTCSlots_PartialSlotsCount(t *testing.T) {
	g := DefaultGrid()
	// 09:10-09:40 touches both 09:00 and 09:30 slots
	slots, err := g.LocalWindowToUTCSlots(0, model.NewClock(9, 10), model.NewClock(9, 40), WindowWrap)
	require.NoError(t, err)
	assert.Equal(t, []int{18, 19}, trueSlots(slots))

	// +5.75 shifts by 345 minutes
	slots, err = g.LocalWindowToUTCSlots(5.75, model.NewClock(9, 0), model.NewClock(10, 0), WindowWrap)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 8}, trueSlots(slots))
}

func TestResolveAvailability(t *testing.T) {
	g := DefaultGrid()
	ps := []model.Participant{person("A", 0, "09:00", "17:00"), person("B", -2, "22:00", "24:00")}
	av, err := ResolveAvailability(g, ps, WindowWrap)
	require.NoError(t, err)
	assert.True(t, av.Covers("A", 18, 16))
	assert.False(t, av.Covers("A", 18, 17))
	assert.False(t, av.Covers("nobody", 0, 1))
	assert.False(t, av.Covers("A", 47, 2))

	_, err = ResolveAvailability(g, ps, WindowReject)
	var werr *WindowError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "B", werr.Participant)
}

func TestParseWindowPolicy(t *testing.T) {
	p, err := ParseWindowPolicy("")
	require.NoError(t, err)
	assert.Equal(t, WindowWrap, p)
	p, err = ParseWindowPolicy("clamp")
	require.NoError(t, err)
	assert.Equal(t, WindowClamp, p)
	_, err = ParseWindowPolicy("fold")
	assert.Error(t, err)
}

func TestIntHelpers(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 30))
	assert.Equal(t, 0, floorDiv(29, 30))
	assert.Equal(t, 1, ceilDiv(1, 30))
	assert.Equal(t, 0, ceilDiv(-29, 30))
	assert.Equal(t, 47, mod(-1, 48))
}

func trueSlots(v []bool) []int {
	var out []int
	for i, b := range v {
		if b {
			out = append(out, i)
		}
	}
	return out
}
