// Package schedule implements the booking-window rules for a clinic:
// time-of-day normalization, operating-hour windows per day kind, and the
// validation of a requested booking slot against a tenant's hours and
// booking policy. Everything in this package is pure and safe for
// concurrent use.
package schedule

import (
	"fmt"
	"strings"
)

// TimeOfDay is a canonical zero-padded "HH:mm" clock time. Values are only
// produced by ParseTime; code holding a TimeOfDay may assume the format.
type TimeOfDay string

// ParseError reports why a clock-time string could not be parsed.
type ParseError struct {
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("schedule: invalid time %q: %s", e.Input, e.Detail)
}

// ParseTime parses a 24-hour "H:mm" or "HH:mm" string into its canonical
// zero-padded form. Leading and trailing whitespace is ignored; anything
// else that does not match the full string fails. Malformed input is an
// expected condition and comes back as a *ParseError, never a panic.
func ParseTime(input string) (TimeOfDay, error) {
	s := strings.TrimSpace(input)

	colon := strings.IndexByte(s, ':')
	if colon < 1 || colon > 2 {
		return "", &ParseError{Input: input, Detail: "expected HH:mm"}
	}
	hourPart, minutePart := s[:colon], s[colon+1:]
	if len(minutePart) != 2 {
		return "", &ParseError{Input: input, Detail: "minutes must be two digits"}
	}
	if !allDigits(hourPart) || !allDigits(minutePart) {
		return "", &ParseError{Input: input, Detail: "expected HH:mm"}
	}

	hour := atoi(hourPart)
	minute := atoi(minutePart)
	if hour > 23 {
		return "", &ParseError{Input: input, Detail: "hour out of range"}
	}
	if minute > 59 {
		return "", &ParseError{Input: input, Detail: "minute out of range"}
	}

	return TimeOfDay(fmt.Sprintf("%02d:%02d", hour, minute)), nil
}

// NormalizeTime canonicalizes a clock-time string on a best-effort basis,
// returning the input unchanged when it does not parse. Display paths use
// this; anything that needs the value validated must call ParseTime.
func NormalizeTime(input string) string {
	t, err := ParseTime(input)
	if err != nil {
		return input
	}
	return string(t)
}

// Minutes converts a canonical time to its minute of day, in [0, 1439].
// The receiver is trusted input: a value that did not come from ParseTime
// indicates a bug in the caller, and Minutes panics rather than guess.
func (t TimeOfDay) Minutes() int {
	s := string(t)
	if len(s) != 5 || s[2] != ':' ||
		!allDigits(s[:2]) || !allDigits(s[3:]) {
		panic(fmt.Sprintf("schedule: non-canonical time %q", s))
	}
	hour := atoi(s[:2])
	minute := atoi(s[3:])
	if hour > 23 || minute > 59 {
		panic(fmt.Sprintf("schedule: non-canonical time %q", s))
	}
	return hour*60 + minute
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoi converts an all-digit string; callers have already validated it.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
