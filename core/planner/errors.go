package planner

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels carried by Result.Err.
var (
	ErrEmptyCandidateSet = errors.New("meeting has no feasible start slot")
	ErrInfeasible        = errors.New("no conflict-free schedule exists")
	ErrTimedOut          = errors.New("solver gave up before finding a schedule")
)

// UnknownParticipantError is returned when a meeting names someone who is not
// in the roster.
type UnknownParticipantError struct {
	Meeting     string
	Participant string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("meeting %s: unknown participant %q", e.Meeting, e.Participant)
}

// ValidationError lists everything wrong with a roster.
type ValidationError struct {
	Problems []string
	// Err holds the underlying validator error, if any.
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid roster: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

// WindowError is returned under WindowReject for a participant whose working
// window does not fit inside the UTC day.
type WindowError struct {
	Participant string
	Err         error
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("participant %s: %v", e.Participant, e.Err)
}

func (e *WindowError) Unwrap() error { return e.Err }
