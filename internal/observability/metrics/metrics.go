package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for booking validation and lifecycle
// operations.
type BookingMetrics struct {
	validationsTotal *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		validationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinichq",
			Subsystem: "bookings",
			Name:      "validations_total",
			Help:      "Booking validation outcomes by rejection reason",
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinichq",
			Subsystem: "bookings",
			Name:      "operations_total",
			Help:      "Booking operations by type and status",
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.validationsTotal, m.bookingsTotal)
	return m
}

// ObserveValidation records one validation outcome. Allowed requests use
// the outcome "allowed"; rejections use their reason code.
func (m *BookingMetrics) ObserveValidation(outcome string) {
	if m == nil {
		return
	}
	m.validationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBooking records one booking operation.
func (m *BookingMetrics) ObserveBooking(operation, status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(operation, status).Inc()
}
