package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/clinichq/booking-platform/internal/observability/metrics"
	"github.com/clinichq/booking-platform/internal/phone"
	"github.com/clinichq/booking-platform/internal/schedule"
	"github.com/clinichq/booking-platform/internal/tenant"
	"github.com/clinichq/booking-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("clinichq.internal.bookings")

// SettingsSource supplies the tenant settings a booking is validated
// against.
type SettingsSource interface {
	Get(ctx context.Context, orgID string) (*tenant.Settings, error)
}

// RuleError is a booking rejected by policy rather than a system failure.
// The code and message are safe to render to the patient.
type RuleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("bookings: rejected (%s): %s", e.Code, e.Message)
}

// Rejection codes beyond the schedule reasons.
const (
	CodeMalformedTime    = "malformed_time"
	CodeInvalidPhone     = "invalid_phone"
	CodeTooSoon          = "too_soon"
	CodeTooFarAhead      = "too_far_ahead"
	CodeCancelTooLate    = "cancellation_window_closed"
	CodeAlreadyCancelled = "already_cancelled"
)

// ScheduleRequest is one booking attempt. StartTime may be free-form; it
// is normalized here.
type ScheduleRequest struct {
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	Date            string `json:"date"`       // YYYY-MM-DD
	StartTime       string `json:"start_time"` // free-form HH:mm
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Service runs the booking rules and persists the outcomes.
type Service struct {
	repo     *Repository
	settings SettingsSource
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewService constructs a bookings service. metrics may be nil.
func NewService(repo *Repository, settings SettingsSource, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if settings == nil {
		panic("bookings: settings source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, settings: settings, metrics: m, logger: logger, now: time.Now}
}

// Schedule validates a requested slot against the tenant's hours and
// policy and, when it passes, persists a confirmed booking. Policy
// rejections come back as *RuleError; anything else is a system failure.
func (s *Service) Schedule(ctx context.Context, orgID string, req ScheduleRequest) (*Booking, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.schedule")
	defer span.End()
	span.SetAttributes(attribute.String("clinichq.org_id", orgID))

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, &RuleError{Code: CodeMalformedTime, Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date)}
	}
	start, err := schedule.ParseTime(req.StartTime)
	if err != nil {
		return nil, &RuleError{Code: CodeMalformedTime, Message: err.Error()}
	}
	patientPhone, ok := phone.Normalize(req.PatientPhone)
	if !ok {
		return nil, &RuleError{Code: CodeInvalidPhone, Message: fmt.Sprintf("invalid phone number %q", req.PatientPhone)}
	}

	settings, err := s.settings.Get(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: load tenant settings: %w", err)
	}

	result := schedule.Validate(schedule.Request{
		Date:            date,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
	}, settings.Hours(), settings.Policy())
	if !result.Allowed {
		s.metrics.ObserveValidation(string(result.Reason))
		s.metrics.ObserveBooking("schedule", "rejected")
		return nil, &RuleError{Code: string(result.Reason), Message: result.Message}
	}
	s.metrics.ObserveValidation("allowed")

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = settings.DefaultSlotDurationMinutes
	}

	slotStart := s.slotStart(date, start, settings.Timezone)
	now := s.now()
	if settings.MinAdvanceBookingHours > 0 {
		earliest := now.Add(time.Duration(settings.MinAdvanceBookingHours) * time.Hour)
		if slotStart.Before(earliest) {
			s.metrics.ObserveBooking("schedule", "rejected")
			return nil, &RuleError{
				Code:    CodeTooSoon,
				Message: fmt.Sprintf("bookings need at least %d hours notice", settings.MinAdvanceBookingHours),
			}
		}
	}
	if settings.MaxAdvanceBookingDays > 0 {
		latest := now.AddDate(0, 0, settings.MaxAdvanceBookingDays)
		if slotStart.After(latest) {
			s.metrics.ObserveBooking("schedule", "rejected")
			return nil, &RuleError{
				Code:    CodeTooFarAhead,
				Message: fmt.Sprintf("bookings open at most %d days ahead", settings.MaxAdvanceBookingDays),
			}
		}
	}

	booking := &Booking{
		ID:              uuid.New(),
		OrgID:           orgID,
		PatientName:     req.PatientName,
		PatientPhone:    patientPhone,
		Date:            date,
		StartTime:       string(start),
		DurationMinutes: duration,
		Status:          StatusConfirmed,
	}
	if err := s.repo.Insert(ctx, booking); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("schedule", "error")
		return nil, err
	}

	s.metrics.ObserveBooking("schedule", "confirmed")
	s.logger.Info("booking confirmed",
		"org_id", orgID,
		"booking_id", booking.ID,
		"date", req.Date,
		"start_time", booking.StartTime,
	)
	return booking, nil
}

// Cancel marks a booking cancelled, enforcing the tenant's cancellation
// cutoff.
func (s *Service) Cancel(ctx context.Context, orgID string, bookingID uuid.UUID) error {
	ctx, span := bookingsTracer.Start(ctx, "bookings.cancel")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinichq.org_id", orgID),
		attribute.String("clinichq.booking_id", bookingID.String()),
	)

	booking, err := s.repo.GetForOrg(ctx, orgID, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == StatusCancelled {
		return &RuleError{Code: CodeAlreadyCancelled, Message: "booking is already cancelled"}
	}

	settings, err := s.settings.Get(ctx, orgID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookings: load tenant settings: %w", err)
	}

	if settings.MaxCancellationHours > 0 {
		start, err := schedule.ParseTime(booking.StartTime)
		if err != nil {
			return fmt.Errorf("bookings: stored start time corrupt: %w", err)
		}
		slotStart := s.slotStart(booking.Date, start, settings.Timezone)
		cutoff := slotStart.Add(-time.Duration(settings.MaxCancellationHours) * time.Hour)
		if s.now().After(cutoff) {
			s.metrics.ObserveBooking("cancel", "rejected")
			return &RuleError{
				Code:    CodeCancelTooLate,
				Message: fmt.Sprintf("cancellations close %d hours before the appointment", settings.MaxCancellationHours),
			}
		}
	}

	if err := s.repo.MarkCancelled(ctx, orgID, bookingID); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("cancel", "error")
		return err
	}

	s.metrics.ObserveBooking("cancel", "cancelled")
	s.logger.Info("booking cancelled", "org_id", orgID, "booking_id", bookingID)
	return nil
}

// ListForOrg returns the org's bookings.
func (s *Service) ListForOrg(ctx context.Context, orgID string) ([]Booking, error) {
	return s.repo.ListForOrg(ctx, orgID)
}

// slotStart anchors a booking's date and clock time in the tenant's
// timezone, falling back to UTC when the zone is unknown.
func (s *Service) slotStart(date time.Time, start schedule.TimeOfDay, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	minutes := start.Minutes()
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc)
}
