// Package router wires the HTTP surface of the booking platform: public
// health and metrics endpoints, tenant-scoped booking routes keyed by the
// X-Org-Id header, and JWT-protected admin routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clinichq/booking-platform/internal/bookings"
	httpmiddleware "github.com/clinichq/booking-platform/internal/http/middleware"
	"github.com/clinichq/booking-platform/internal/tenant"
	"github.com/clinichq/booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	BookingsHandler *bookings.Handler
	TenantHandler   *tenant.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP rate limiter for tenant-facing routes. Nil disables limiting.
	// The caller owns its lifecycle and closes it on shutdown.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Tenant-scoped booking routes.
	r.Route("/bookings", func(br chi.Router) {
		br.Use(requireOrgID)
		if cfg.RateLimiter != nil {
			br.Use(cfg.RateLimiter.Middleware())
		}
		br.Post("/", cfg.BookingsHandler.Create)
		br.Get("/", cfg.BookingsHandler.List)
		br.Post("/validate", cfg.TenantHandler.ValidateBooking)
		br.Delete("/{bookingID}", cfg.BookingsHandler.Cancel)
	})

	// Admin routes.
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		ar.Route("/tenants/{orgID}", func(tr chi.Router) {
			tr.Get("/settings", cfg.TenantHandler.GetSettings)
			tr.Put("/settings", cfg.TenantHandler.UpdateSettings)
			tr.Get("/bookings", cfg.BookingsHandler.List)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
