package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for backend calls.
const (
	OutcomeOK             = "ok"
	OutcomeServerError    = "server_error"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed"
)

// Backend holds metrics for outbound calls to the search backend.
// A nil *Backend is valid and records nothing.
type Backend struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	uploadedBytes prometheus.Counter
}

// NewBackend registers backend call metrics on reg.
func NewBackend(reg prometheus.Registerer) (*Backend, error) {
	m := &Backend{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total backend requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "uploaded_bytes_total",
			Help:      "Total file bytes sent to the upload endpoint.",
		}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.uploadedBytes); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished call.
func (m *Backend) Observe(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// AddUploadedBytes counts file bytes handed to the upload endpoint.
func (m *Backend) AddUploadedBytes(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.uploadedBytes.Add(float64(n))
}
