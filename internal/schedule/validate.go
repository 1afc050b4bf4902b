package schedule

import (
	"fmt"
	"time"
)

// Policy carries the tenant's booking policy knobs that the rules engine
// needs.
type Policy struct {
	AllowWeekendBooking bool
	// DefaultSlotMinutes is used when a request does not name a duration.
	DefaultSlotMinutes int
}

// Request is one booking attempt to validate. Start must be canonical
// (already through ParseTime). A zero DurationMinutes falls back to the
// policy default.
type Request struct {
	Date            time.Time
	Start           TimeOfDay
	DurationMinutes int
}

// Reason identifies why a booking request was rejected.
type Reason string

const (
	ReasonWeekendNotAllowed    Reason = "weekend_not_allowed"
	ReasonWeekendNotConfigured Reason = "weekend_not_configured"
	ReasonWeekdayNotConfigured Reason = "weekday_not_configured"
	ReasonOutsideHours         Reason = "outside_hours"
)

// Result is the outcome of validating one booking request. Rejections are
// data, not errors: the Reason and Message render directly to the user.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func allowed() Result {
	return Result{Allowed: true}
}

func rejected(reason Reason, message string) Result {
	return Result{Allowed: false, Reason: reason, Message: message}
}

// Validate decides whether a requested slot fits the tenant's operating
// hours. Rules apply in order and the first match wins: a disallowed
// weekend rejects before hours are even looked up, so it fires whether or
// not weekend hours exist. A slot may start exactly at open and may end
// exactly at close, but not a minute past it; a slot running past midnight
// can never fit because windows do not span midnight.
func Validate(req Request, hours Hours, policy Policy) Result {
	if KindOfDay(req.Date) == Weekend && !policy.AllowWeekendBooking {
		return rejected(ReasonWeekendNotAllowed, "weekend bookings are not accepted")
	}

	window, kind, ok := hours.WindowFor(req.Date)
	if !ok {
		if kind == Weekend {
			return rejected(ReasonWeekendNotConfigured, "weekend hours are not configured")
		}
		return rejected(ReasonWeekdayNotConfigured, "weekday hours are not configured")
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = policy.DefaultSlotMinutes
	}

	start := req.Start.Minutes()
	end := start + duration
	if start < window.Open.Minutes() || end > window.Close.Minutes() {
		return rejected(ReasonOutsideHours,
			fmt.Sprintf("requested slot falls outside %s hours %s-%s", kind, window.Open, window.Close))
	}

	return allowed()
}
