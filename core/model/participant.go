package model

import "math"

// Participant is a meeting attendee with a local working window.
type Participant struct {
	Name string `validate:"required"`
	// UTCOffsetHours may be fractional, e.g. 5.5 for UTC+05:30.
	UTCOffsetHours float64   `validate:"gte=-12,lte=14"`
	LocalStart     ClockTime `validate:"gte=0,lte=1440"`
	LocalEnd       ClockTime `validate:"gte=0,lte=1440"`
}

// OffsetMinutes returns the UTC offset rounded to whole minutes.
func (p Participant) OffsetMinutes() int {
	return int(math.Round(p.UTCOffsetHours * 60))
}
