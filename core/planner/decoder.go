package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/meetplan/core/model"
	"github.com/kilianp07/meetplan/core/solver"
)

// LocalTime is one attendee's view of a scheduled meeting.
type LocalTime struct {
	Participant string  `json:"participant"`
	Offset      float64 `json:"utc_offset_hours"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
}

func (l LocalTime) String() string {
	return fmt.Sprintf("%s: %s-%s (UTC%s)", l.Participant, l.Start, l.End, FormatOffset(l.Offset))
}

// Row is the decoded outcome for one meeting. Pointer fields are nil when the
// meeting is unscheduled.
type Row struct {
	MeetingID  string      `json:"meeting"`
	Team       string      `json:"team"`
	StartUTC   *time.Time  `json:"start_utc"`
	EndUTC     *time.Time  `json:"end_utc"`
	Local      []LocalTime `json:"local,omitempty"`
	LocalTimes string      `json:"local_times"`
	Attendees  string      `json:"attendees"`
	Penalty    *int        `json:"penalty"`
}

// Scheduled reports whether the meeting got a slot.
func (r Row) Scheduled() bool { return r.StartUTC != nil }

// Decode maps sol back onto the roster, one row per meeting in roster order.
// A solution without values yields unscheduled rows only.
func Decode(g Grid, r model.Roster, enc *Encoding, sol solver.Solution) ([]Row, error) {
	var values []bool
	if sol.Status.HasSolution() {
		values = sol.Values
		if len(values) != len(enc.Candidates) {
			return nil, fmt.Errorf("assignment has %d values for %d variables", len(values), len(enc.Candidates))
		}
	}
	participants := r.ParticipantIndex()
	rows := make([]Row, 0, len(r.Meetings))
	for _, m := range r.Meetings {
		chosen := -1
		for _, v := range enc.ByMeeting[m.ID] {
			if values == nil || !values[v] {
				continue
			}
			if chosen >= 0 {
				return nil, fmt.Errorf("meeting %s assigned more than one start", m.ID)
			}
			chosen = v
		}
		if chosen < 0 {
			rows = append(rows, unscheduledRow(m))
			continue
		}
		rows = append(rows, scheduledRow(g, m, participants, enc.Candidates[chosen]))
	}
	return rows, nil
}

// UnscheduledRows returns one empty row per meeting.
func UnscheduledRows(r model.Roster) []Row {
	rows := make([]Row, len(r.Meetings))
	for i, m := range r.Meetings {
		rows[i] = unscheduledRow(m)
	}
	return rows
}

func unscheduledRow(m model.Meeting) Row {
	parts := make([]string, len(m.Participants))
	for i, p := range m.Participants {
		parts[i] = p + ": n/a"
	}
	return Row{
		MeetingID:  m.ID,
		Team:       m.Team,
		LocalTimes: strings.Join(parts, " | "),
		Attendees:  strings.Join(m.Participants, ","),
	}
}

func scheduledRow(g Grid, m model.Meeting, participants map[string]model.Participant, c Candidate) Row {
	start := g.SlotStart(c.Start)
	end := g.SlotStart(c.Start + g.DurationSlots(m.DurationMinutes))
	penalty := c.Cost
	row := Row{
		MeetingID: m.ID,
		Team:      m.Team,
		StartUTC:  &start,
		EndUTC:    &end,
		Attendees: strings.Join(m.Participants, ","),
		Penalty:   &penalty,
	}
	parts := make([]string, len(m.Participants))
	for i, name := range m.Participants {
		p := participants[name]
		shift := time.Duration(p.OffsetMinutes()) * time.Minute
		lt := LocalTime{
			Participant: name,
			Offset:      p.UTCOffsetHours,
			Start:       start.Add(shift).Format("15:04"),
			End:         end.Add(shift).Format("15:04"),
		}
		row.Local = append(row.Local, lt)
		parts[i] = lt.String()
	}
	row.LocalTimes = strings.Join(parts, " | ")
	return row
}

// FormatOffset renders an hour offset with an explicit sign: +1, -2, +5.5, +0.
func FormatOffset(hours float64) string {
	if hours == 0 {
		return "+0"
	}
	s := strconv.FormatFloat(hours, 'f', -1, 64)
	if hours > 0 {
		s = "+" + s
	}
	return s
}
