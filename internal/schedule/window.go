package schedule

import (
	"fmt"
	"time"
)

// Window is one day kind's operating hours. Close is always later than
// Open; windows never span midnight.
type Window struct {
	Open  TimeOfDay `json:"open"`
	Close TimeOfDay `json:"close"`
}

// NewWindow builds a window from already-canonical times, rejecting an
// empty or inverted range.
func NewWindow(open, close TimeOfDay) (Window, error) {
	if close.Minutes() <= open.Minutes() {
		return Window{}, fmt.Errorf("schedule: window close %s must be after open %s", close, open)
	}
	return Window{Open: open, Close: close}, nil
}

// DayKind partitions the week into weekdays and the Saturday+Sunday
// weekend.
type DayKind int

const (
	Weekday DayKind = iota
	Weekend
)

func (k DayKind) String() string {
	if k == Weekend {
		return "weekend"
	}
	return "weekday"
}

// KindOfDay reports whether a calendar date falls on a weekday or the
// weekend.
func KindOfDay(date time.Time) DayKind {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// Hours holds a tenant's operating windows per day kind. A nil entry means
// hours are not configured for that day kind.
type Hours struct {
	Weekday *Window `json:"weekday,omitempty"`
	Weekend *Window `json:"weekend,omitempty"`
}

// WindowFor resolves the operating window that applies to a date. Every
// date maps to exactly one outcome: a window, or not-configured for the
// date's day kind (the returned DayKind says which).
func (h Hours) WindowFor(date time.Time) (Window, DayKind, bool) {
	kind := KindOfDay(date)
	var w *Window
	if kind == Weekend {
		w = h.Weekend
	} else {
		w = h.Weekday
	}
	if w == nil {
		return Window{}, kind, false
	}
	return *w, kind, true
}
