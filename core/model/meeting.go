package model

// Meeting must be attended in full by every listed participant.
type Meeting struct {
	ID              string   `validate:"required"`
	Team            string   // display only
	DurationMinutes int      `validate:"gt=0,lte=1440"`
	Participants    []string `validate:"required,min=1,dive,required"`
}
