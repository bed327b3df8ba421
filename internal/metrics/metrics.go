package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ninsaude_bridge"

// Metrics holds the booking bridge collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	bookingsTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	unauthorized     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking requests by inbound channel and outcome",
		}, []string{"channel", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the Ninsaude API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_unauthorized_total",
			Help:      "Webhook calls rejected for a wrong or missing secret",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.upstreamDuration, m.unauthorized)
	return m
}

func (m *Metrics) ObserveBooking(channel, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(channel, outcome).Inc()
}

// ObserveUpstream records one outbound call. status 0 means the request never got a response.
func (m *Metrics) ObserveUpstream(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamDuration.WithLabelValues(operation, label).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUnauthorized() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}
