package schedule

import (
	"strings"
	"testing"
	"time"
)

var (
	weekdayHours = Hours{Weekday: &Window{Open: "08:00", Close: "17:00"}}
	fullHours    = Hours{
		Weekday: &Window{Open: "08:00", Close: "17:00"},
		Weekend: &Window{Open: "09:00", Close: "12:00"},
	}

	tuesday  = date(2026, time.January, 6)
	saturday = date(2026, time.January, 10)
	sunday   = date(2026, time.January, 11)
)

func TestValidateWeekdayWithinHours(t *testing.T) {
	res := Validate(Request{Date: tuesday, Start: "08:00", DurationMinutes: 30},
		weekdayHours, Policy{DefaultSlotMinutes: 30})
	if !res.Allowed {
		t.Fatalf("expected allowed, got %+v", res)
	}
	if res.Reason != "" || res.Message != "" {
		t.Fatalf("allowed result should carry no reason: %+v", res)
	}
}

func TestValidateSlotEndPastClose(t *testing.T) {
	// 16:45 + 30m ends 17:15, past the 17:00 close.
	res := Validate(Request{Date: tuesday, Start: "16:45", DurationMinutes: 30},
		weekdayHours, Policy{DefaultSlotMinutes: 30})
	if res.Allowed || res.Reason != ReasonOutsideHours {
		t.Fatalf("expected outside_hours, got %+v", res)
	}
	if !strings.Contains(res.Message, "08:00") || !strings.Contains(res.Message, "17:00") {
		t.Fatalf("message should name the window: %q", res.Message)
	}
}

func TestValidateWeekendDisallowedShortCircuits(t *testing.T) {
	// Weekend hours are not even configured; the policy rejection wins first.
	res := Validate(Request{Date: saturday, Start: "09:00", DurationMinutes: 30},
		weekdayHours, Policy{AllowWeekendBooking: false, DefaultSlotMinutes: 30})
	if res.Reason != ReasonWeekendNotAllowed {
		t.Fatalf("expected weekend_not_allowed, got %+v", res)
	}

	// Same rejection when weekend hours ARE configured.
	res = Validate(Request{Date: saturday, Start: "09:00", DurationMinutes: 30},
		fullHours, Policy{AllowWeekendBooking: false, DefaultSlotMinutes: 30})
	if res.Reason != ReasonWeekendNotAllowed {
		t.Fatalf("expected weekend_not_allowed, got %+v", res)
	}
}

func TestValidateWeekendNotConfigured(t *testing.T) {
	res := Validate(Request{Date: sunday, Start: "09:00", DurationMinutes: 30},
		weekdayHours, Policy{AllowWeekendBooking: true, DefaultSlotMinutes: 30})
	if res.Reason != ReasonWeekendNotConfigured {
		t.Fatalf("expected weekend_not_configured, got %+v", res)
	}
}

func TestValidateWeekdayNotConfigured(t *testing.T) {
	res := Validate(Request{Date: tuesday, Start: "09:00", DurationMinutes: 30},
		Hours{}, Policy{DefaultSlotMinutes: 30})
	if res.Reason != ReasonWeekdayNotConfigured {
		t.Fatalf("expected weekday_not_configured, got %+v", res)
	}
}

func TestValidateCloseBoundaryInclusive(t *testing.T) {
	policy := Policy{AllowWeekendBooking: true, DefaultSlotMinutes: 30}

	// 09:00 + 180m ends exactly at the 12:00 close: allowed.
	res := Validate(Request{Date: sunday, Start: "09:00", DurationMinutes: 180}, fullHours, policy)
	if !res.Allowed {
		t.Fatalf("slot ending at close should be allowed: %+v", res)
	}

	// One more minute and it spills past close.
	res = Validate(Request{Date: sunday, Start: "09:00", DurationMinutes: 181}, fullHours, policy)
	if res.Allowed || res.Reason != ReasonOutsideHours {
		t.Fatalf("slot ending past close should be rejected: %+v", res)
	}
}

func TestValidateStartBeforeOpen(t *testing.T) {
	res := Validate(Request{Date: tuesday, Start: "07:59", DurationMinutes: 30},
		weekdayHours, Policy{DefaultSlotMinutes: 30})
	if res.Allowed || res.Reason != ReasonOutsideHours {
		t.Fatalf("expected outside_hours, got %+v", res)
	}
}

func TestValidateDefaultsDuration(t *testing.T) {
	// No duration on the request: the policy's 60-minute default applies,
	// so a 16:30 start runs to 17:30 and misses the window.
	res := Validate(Request{Date: tuesday, Start: "16:30"},
		weekdayHours, Policy{DefaultSlotMinutes: 60})
	if res.Allowed || res.Reason != ReasonOutsideHours {
		t.Fatalf("expected outside_hours with default duration, got %+v", res)
	}

	res = Validate(Request{Date: tuesday, Start: "16:00"},
		weekdayHours, Policy{DefaultSlotMinutes: 60})
	if !res.Allowed {
		t.Fatalf("expected allowed with default duration, got %+v", res)
	}
}

func TestValidateSlotPastMidnight(t *testing.T) {
	// 23-hour window, but an 8-hour slot starting 23:00 runs past midnight.
	hours := Hours{Weekday: &Window{Open: "00:00", Close: "23:59"}}
	res := Validate(Request{Date: tuesday, Start: "23:00", DurationMinutes: 480},
		hours, Policy{DefaultSlotMinutes: 30})
	if res.Allowed || res.Reason != ReasonOutsideHours {
		t.Fatalf("slot past midnight should be outside hours: %+v", res)
	}
}
