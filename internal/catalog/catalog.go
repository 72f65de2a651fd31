package catalog

import (
	"regexp"
	"strings"
)

// Kind distinguishes group classes from private coaching. The legal time
// slots for a session depend on it.
type Kind string

const (
	KindGroup   Kind = "Group"
	KindPrivate Kind = "Private"
)

// Valid reports whether k is a known service kind.
func (k Kind) Valid() bool {
	return k == KindGroup || k == KindPrivate
}

// DaysOfWeek lists the days the academy runs sessions, in week order.
var DaysOfWeek = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

// GroupTimes are the slots offered for group classes.
var GroupTimes = []string{"10am-12pm", "2pm-4pm"}

// PrivateTimes are the slots offered for private coaching.
var PrivateTimes = []string{"12pm-2pm", "4pm-6pm", "6pm-8pm"}

// TimesFor returns the legal time slots for a service kind.
func TimesFor(kind Kind) []string {
	if kind == KindGroup {
		return GroupTimes
	}
	return PrivateTimes
}

// IsValidDay reports whether day names an offered day.
func IsValidDay(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// IsValidTime reports whether slot is legal for the given kind.
func IsValidTime(kind Kind, slot string) bool {
	for _, s := range TimesFor(kind) {
		if s == slot {
			return true
		}
	}
	return false
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slugify derives the service id from its display name.
func Slugify(name string) string {
	return strings.ToLower(slugSeparators.ReplaceAllString(strings.TrimSpace(name), "-"))
}
