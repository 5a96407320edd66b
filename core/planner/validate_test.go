package planner

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/meetplan/core/model"
)

func TestValidateRoster(t *testing.T) {
	assert.NoError(t, ValidateRoster(referenceRoster()))

	cases := map[string]func(r *model.Roster){
		"duplicate participant": func(r *model.Roster) { r.Participants = append(r.Participants, r.Participants[0]) },
		"duplicate meeting":     func(r *model.Roster) { r.Meetings = append(r.Meetings, r.Meetings[0]) },
		"twice":                 func(r *model.Roster) { r.Meetings[0].Participants = []string{"Bob", "Bob"} },
	}
	for want, mutate := range cases {
		r := referenceRoster()
		mutate(&r)
		var verr *ValidationError
		err := ValidateRoster(r)
		require.True(t, errors.As(err, &verr), want)
		assert.True(t, strings.Contains(err.Error(), want), err.Error())
	}
}

func TestValidateRoster_FieldRules(t *testing.T) {
	mutations := []func(r *model.Roster){
		func(r *model.Roster) { r.Participants[0].UTCOffsetHours = 15 },
		func(r *model.Roster) { r.Participants[1].Name = "" },
		func(r *model.Roster) { r.Participants[2].LocalEnd = 1500 },
		func(r *model.Roster) { r.Meetings[0].DurationMinutes = 0 },
		func(r *model.Roster) { r.Meetings[1].ID = "" },
		func(r *model.Roster) { r.Meetings[2].Participants = nil },
	}
	for i, mutate := range mutations {
		r := referenceRoster()
		mutate(&r)
		err := ValidateRoster(r)
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			t.Fatalf("case %d: expected validator errors, got %v", i, err)
		}
	}
}

func TestValidateRoster_UnknownParticipant(t *testing.T) {
	r := referenceRoster()
	r.Meetings[1].Participants = append(r.Meetings[1].Participants, "Mallory")
	var uerr *UnknownParticipantError
	require.True(t, errors.As(ValidateRoster(r), &uerr))
	assert.Equal(t, &UnknownParticipantError{Meeting: "Eng.AllHands", Participant: "Mallory"}, uerr)
}
