package selection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClosed is returned when an operation needs an open selection
	ErrClosed = errors.New("no session selection in progress")

	// ErrDayNotOffered is returned for a day outside the academy schedule
	ErrDayNotOffered = errors.New("that day is not offered")

	// ErrDayNotSelected is returned when a time is set for an unselected day
	ErrDayNotSelected = errors.New("select the day before choosing its time")

	// ErrTimeNotOffered is returned for a slot not legal for the service kind
	ErrTimeNotOffered = errors.New("that time is not offered for this service")
)

// ValidationError reports why a draft cannot be confirmed (or why a day
// toggle was rejected). The draft stays open so the user can correct it
// without losing prior choices.
type ValidationError struct {
	// DayCount is the day-count message, empty when the count is fine.
	DayCount string
	// MissingTimes lists selected days that still lack a time pick.
	MissingTimes []string
}

// Messages returns the user-facing messages, one per offending field.
func (e *ValidationError) Messages() []string {
	var msgs []string
	if e.DayCount != "" {
		msgs = append(msgs, e.DayCount)
	}
	for _, day := range e.MissingTimes {
		msgs = append(msgs, fmt.Sprintf("Please select a time for %s.", day))
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), " ")
}
