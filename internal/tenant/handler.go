package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinichq/booking-platform/internal/http/middleware"
	"github.com/clinichq/booking-platform/internal/observability/metrics"
	"github.com/clinichq/booking-platform/internal/phone"
	"github.com/clinichq/booking-platform/internal/schedule"
	"github.com/clinichq/booking-platform/internal/tenancy"
	"github.com/clinichq/booking-platform/pkg/logging"
)

// Storage is the settings persistence surface the handler depends on;
// *Store satisfies it, tests substitute an in-memory map.
type Storage interface {
	Get(ctx context.Context, orgID string) (*Settings, error)
	Set(ctx context.Context, settings *Settings) error
}

// Handler provides HTTP endpoints for tenant settings and booking
// validation.
type Handler struct {
	store   Storage
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewHandler creates a tenant settings HTTP handler. metrics may be nil.
func NewHandler(store Storage, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, metrics: m, logger: logger}
}

// GetSettings returns the tenant settings for an org.
// GET /admin/tenants/{orgID}/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	settings, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get tenant settings", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, settings, h.logger)
}

// UpdateSettingsRequest is the request body for updating tenant settings.
// Pointer fields distinguish "leave alone" from "set to this" so partial
// updates work.
type UpdateSettingsRequest struct {
	Name     *string `json:"name,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`

	WeekdayOpen  *string `json:"weekday_open,omitempty"`
	WeekdayClose *string `json:"weekday_close,omitempty"`
	WeekendOpen  *string `json:"weekend_open,omitempty"`
	WeekendClose *string `json:"weekend_close,omitempty"`

	AllowWeekendBooking        *bool `json:"allow_weekend_booking,omitempty"`
	DefaultSlotDurationMinutes *int  `json:"default_slot_duration_minutes,omitempty"`
	MaxAdvanceBookingDays      *int  `json:"max_advance_booking_days,omitempty"`
	MinAdvanceBookingHours     *int  `json:"min_advance_booking_hours,omitempty"`
	MaxCancellationHours       *int  `json:"max_cancellation_hours,omitempty"`
}

// UpdateSettings creates or updates the settings for an org. Operating
// hours are normalized to canonical "HH:mm" and validated here, once, at
// the boundary; malformed times or inverted windows are a 400.
// PUT /admin/tenants/{orgID}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	settings, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get tenant settings", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Name != nil {
		settings.Name = *req.Name
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown timezone %q", *req.Timezone))
			return
		}
		settings.Timezone = *req.Timezone
	}
	if req.Email != nil {
		settings.Email = *req.Email
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			settings.Phone = ""
		} else {
			normalized, ok := phone.Normalize(*req.Phone)
			if !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid phone number %q", *req.Phone))
				return
			}
			settings.Phone = normalized
		}
	}

	if req.WeekdayOpen != nil {
		settings.WeekdayOpen = *req.WeekdayOpen
	}
	if req.WeekdayClose != nil {
		settings.WeekdayClose = *req.WeekdayClose
	}
	if req.WeekendOpen != nil {
		settings.WeekendOpen = *req.WeekendOpen
	}
	if req.WeekendClose != nil {
		settings.WeekendClose = *req.WeekendClose
	}
	if msg, ok := normalizeHourPair(&settings.WeekdayOpen, &settings.WeekdayClose, "weekday"); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if msg, ok := normalizeHourPair(&settings.WeekendOpen, &settings.WeekendClose, "weekend"); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if req.AllowWeekendBooking != nil {
		settings.AllowWeekendBooking = *req.AllowWeekendBooking
	}
	if req.DefaultSlotDurationMinutes != nil {
		if *req.DefaultSlotDurationMinutes <= 0 {
			writeError(w, http.StatusBadRequest, "default_slot_duration_minutes must be positive")
			return
		}
		settings.DefaultSlotDurationMinutes = *req.DefaultSlotDurationMinutes
	}
	if req.MaxAdvanceBookingDays != nil {
		settings.MaxAdvanceBookingDays = *req.MaxAdvanceBookingDays
	}
	if req.MinAdvanceBookingHours != nil {
		settings.MinAdvanceBookingHours = *req.MinAdvanceBookingHours
	}
	if req.MaxCancellationHours != nil {
		settings.MaxCancellationHours = *req.MaxCancellationHours
	}

	if err := h.store.Set(r.Context(), settings); err != nil {
		h.logger.Error("failed to save tenant settings", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "failed to save settings"}`, http.StatusInternalServerError)
		return
	}

	actor := "unknown"
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		actor = claims.Subject
	}
	h.logger.Info("tenant settings updated", "org_id", orgID, "name", settings.Name, "admin", actor)
	writeJSON(w, settings, h.logger)
}

// ValidateBookingRequest is the request body for a dry-run booking check.
type ValidateBookingRequest struct {
	Date            string `json:"date"`       // YYYY-MM-DD
	StartTime       string `json:"start_time"` // free-form, normalized here
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// ValidateBooking runs the booking rules for a requested slot without
// persisting anything, so the front-end can block submission early.
// POST /bookings/validate
func (h *Handler) ValidateBooking(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var req ValidateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
		return
	}
	start, err := schedule.ParseTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must not be negative")
		return
	}

	settings, err := h.store.Get(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to get tenant settings", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	result := schedule.Validate(schedule.Request{
		Date:            date,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
	}, settings.Hours(), settings.Policy())

	if result.Allowed {
		h.metrics.ObserveValidation("allowed")
	} else {
		h.metrics.ObserveValidation(string(result.Reason))
	}

	writeJSON(w, result, h.logger)
}

// orgID resolves the org from the URL (admin routes) or the tenancy
// context (X-Org-Id scoped routes).
func (h *Handler) orgID(r *http.Request) string {
	if orgID := chi.URLParam(r, "orgID"); orgID != "" {
		return orgID
	}
	orgID, _ := tenancy.OrgIDFromContext(r.Context())
	return orgID
}

func writeJSON(w http.ResponseWriter, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// normalizeHourPair canonicalizes one day kind's open/close pair in place.
// Both must be set or both empty; close must come after open.
func normalizeHourPair(open, close *string, kind string) (string, bool) {
	if *open == "" && *close == "" {
		return "", true
	}
	if *open == "" || *close == "" {
		return fmt.Sprintf("%s hours need both open and close", kind), false
	}
	openTime, err := schedule.ParseTime(*open)
	if err != nil {
		return err.Error(), false
	}
	closeTime, err := schedule.ParseTime(*close)
	if err != nil {
		return err.Error(), false
	}
	if _, err := schedule.NewWindow(openTime, closeTime); err != nil {
		return fmt.Sprintf("%s close must be after open", kind), false
	}
	*open = string(openTime)
	*close = string(closeTime)
	return "", true
}
