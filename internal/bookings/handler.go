package bookings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/booking-platform/internal/tenancy"
	"github.com/clinichq/booking-platform/pkg/logging"
)

// Handler provides HTTP endpoints for scheduling and managing bookings.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a bookings HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create schedules a booking for the calling org.
// POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	booking, err := h.service.Schedule(r.Context(), orgID, req)
	if err != nil {
		h.writeServiceError(w, r, orgID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(booking); err != nil {
		h.logger.Error("failed to encode booking", "org_id", orgID, "error", err)
	}
}

// List returns the org's bookings.
// GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}

	list, err := h.service.ListForOrg(r.Context(), orgID)
	if err != nil {
		h.logger.Error("failed to list bookings", "org_id", orgID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Booking{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"bookings": list}); err != nil {
		h.logger.Error("failed to encode bookings", "org_id", orgID, "error", err)
	}
}

// Cancel cancels a booking.
// DELETE /bookings/{bookingID}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	orgID := h.orgID(r)
	if orgID == "" {
		http.Error(w, `{"error": "org_id required"}`, http.StatusBadRequest)
		return
	}
	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		http.Error(w, `{"error": "invalid booking id"}`, http.StatusBadRequest)
		return
	}

	if err := h.service.Cancel(r.Context(), orgID, bookingID); err != nil {
		h.writeServiceError(w, r, orgID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) orgID(r *http.Request) string {
	if orgID := chi.URLParam(r, "orgID"); orgID != "" {
		return orgID
	}
	orgID, _ := tenancy.OrgIDFromContext(r.Context())
	return orgID
}

// writeServiceError maps service failures onto HTTP statuses: policy
// rejections are 422 with the code and message in the body, missing rows
// are 404, everything else is a 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, orgID string, err error) {
	var ruleErr *RuleError
	switch {
	case errors.As(err, &ruleErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": ruleErr})
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error": "booking not found"}`, http.StatusNotFound)
	default:
		h.logger.Error("booking operation failed", "org_id", orgID, "path", r.URL.Path, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
	}
}
