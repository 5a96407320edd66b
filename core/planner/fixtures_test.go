package planner

import (
	"github.com/kilianp07/meetplan/core/model"
)

func person(name string, offset float64, start, end string) model.Participant {
	s, err := model.ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := model.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return model.Participant{Name: name, UTCOffsetHours: offset, LocalStart: s, LocalEnd: e}
}

func meeting(id, team string, minutes int, who ...string) model.Meeting {
	return model.Meeting{ID: id, Team: team, DurationMinutes: minutes, Participants: who}
}

// referenceRoster is the five-person, three-meeting setup the planner was
// first tuned on.
func referenceRoster() model.Roster {
	return model.Roster{
		Participants: []model.Participant{
			person("Alice", -2, "09:00", "17:00"),
			person("Bob", 1, "09:00", "17:00"),
			person("Cara", 2, "10:00", "18:00"),
			person("Dan", -2, "08:30", "16:30"),
			person("Eve", 0, "09:00", "17:00"),
		},
		Meetings: []model.Meeting{
			meeting("Mktg.Sync", "Marketing", 60, "Alice", "Bob", "Eve"),
			meeting("Eng.AllHands", "Engineering", 30, "Bob", "Cara", "Dan"),
			meeting("Prod.Planning", "Product", 60, "Alice", "Cara", "Eve"),
		},
	}
}
