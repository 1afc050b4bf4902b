// Package tenant owns per-clinic settings: identity, operating hours, and
// the booking policy. Settings are sourced from the tenant admin screens
// and consumed by the booking rules engine.
package tenant

import (
	"github.com/clinichq/booking-platform/internal/schedule"
)

// Settings holds one tenant's configuration. Open/close fields hold
// canonical "HH:mm" strings; they are normalized and validated when the
// settings are written, so readers can trust them.
type Settings struct {
	OrgID    string `json:"org_id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // e.g., "America/New_York"
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`

	// Operating hours per day kind. Empty means not configured.
	WeekdayOpen  string `json:"weekday_open,omitempty"`
	WeekdayClose string `json:"weekday_close,omitempty"`
	WeekendOpen  string `json:"weekend_open,omitempty"`
	WeekendClose string `json:"weekend_close,omitempty"`

	AllowWeekendBooking        bool `json:"allow_weekend_booking"`
	DefaultSlotDurationMinutes int  `json:"default_slot_duration_minutes"`
	MaxAdvanceBookingDays      int  `json:"max_advance_booking_days"`
	MinAdvanceBookingHours     int  `json:"min_advance_booking_hours"`
	MaxCancellationHours       int  `json:"max_cancellation_hours"`
}

// PolicyDefaults are operator-level fallbacks applied to tenants that
// have not saved their own settings, sourced from service configuration.
// Zero fields fall back to the built-in values.
type PolicyDefaults struct {
	SlotDurationMinutes    int
	MaxAdvanceBookingDays  int
	MinAdvanceBookingHours int
	MaxCancellationHours   int
}

func (d PolicyDefaults) withBuiltins() PolicyDefaults {
	if d.SlotDurationMinutes <= 0 {
		d.SlotDurationMinutes = 30
	}
	if d.MaxAdvanceBookingDays <= 0 {
		d.MaxAdvanceBookingDays = 90
	}
	if d.MinAdvanceBookingHours <= 0 {
		d.MinAdvanceBookingHours = 1
	}
	if d.MaxCancellationHours <= 0 {
		d.MaxCancellationHours = 24
	}
	return d
}

// DefaultSettings returns the configuration a tenant starts with before
// its admin has touched anything: weekday hours only, weekends off.
func DefaultSettings(orgID string) *Settings {
	return DefaultSettingsWith(orgID, PolicyDefaults{})
}

// DefaultSettingsWith is DefaultSettings with the operator's policy
// fallbacks applied.
func DefaultSettingsWith(orgID string, defaults PolicyDefaults) *Settings {
	d := defaults.withBuiltins()
	return &Settings{
		OrgID:                      orgID,
		Name:                       "Clinic",
		Timezone:                   "America/New_York",
		WeekdayOpen:                "09:00",
		WeekdayClose:               "17:00",
		AllowWeekendBooking:        false,
		DefaultSlotDurationMinutes: d.SlotDurationMinutes,
		MaxAdvanceBookingDays:      d.MaxAdvanceBookingDays,
		MinAdvanceBookingHours:     d.MinAdvanceBookingHours,
		MaxCancellationHours:       d.MaxCancellationHours,
	}
}

// Hours converts the stored open/close strings to operating windows. A
// pair that is incomplete, fails to parse, or is inverted resolves to
// not-configured for that day kind, the same as if it were never set.
func (s *Settings) Hours() schedule.Hours {
	return schedule.Hours{
		Weekday: windowFromStrings(s.WeekdayOpen, s.WeekdayClose),
		Weekend: windowFromStrings(s.WeekendOpen, s.WeekendClose),
	}
}

// Policy returns the tenant's booking policy for the rules engine.
func (s *Settings) Policy() schedule.Policy {
	return schedule.Policy{
		AllowWeekendBooking: s.AllowWeekendBooking,
		DefaultSlotMinutes:  s.DefaultSlotDurationMinutes,
	}
}

func windowFromStrings(open, close string) *schedule.Window {
	if open == "" || close == "" {
		return nil
	}
	openTime, err := schedule.ParseTime(open)
	if err != nil {
		return nil
	}
	closeTime, err := schedule.ParseTime(close)
	if err != nil {
		return nil
	}
	w, err := schedule.NewWindow(openTime, closeTime)
	if err != nil {
		return nil
	}
	return &w
}
