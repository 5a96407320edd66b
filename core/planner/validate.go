package planner

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/meetplan/core/model"
)

var validate = validator.New()

// ValidateRoster checks field constraints, unique names and IDs and that no
// meeting lists an attendee twice. It then resolves every attendee and
// returns *UnknownParticipantError for the first one that is missing.
func ValidateRoster(r model.Roster) error {
	var problems []string
	var verr error
	if err := validate.Struct(r); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return err
		}
		verr = ves
		for _, fe := range ves {
			problems = append(problems, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
	}

	names := make(map[string]struct{}, len(r.Participants))
	for _, p := range r.Participants {
		if _, dup := names[p.Name]; dup {
			problems = append(problems, fmt.Sprintf("duplicate participant %q", p.Name))
		}
		names[p.Name] = struct{}{}
	}
	ids := make(map[string]struct{}, len(r.Meetings))
	for _, m := range r.Meetings {
		if _, dup := ids[m.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate meeting %q", m.ID))
		}
		ids[m.ID] = struct{}{}
		seen := make(map[string]struct{}, len(m.Participants))
		for _, p := range m.Participants {
			if _, dup := seen[p]; dup {
				problems = append(problems, fmt.Sprintf("meeting %s lists %q twice", m.ID, p))
			}
			seen[p] = struct{}{}
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems, Err: verr}
	}

	for _, m := range r.Meetings {
		for _, p := range m.Participants {
			if _, ok := names[p]; !ok {
				return &UnknownParticipantError{Meeting: m.ID, Participant: p}
			}
		}
	}
	return nil
}
