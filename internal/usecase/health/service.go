package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the backend answered.
	Healthy Status = "ok"
	// Unhealthy indicates the backend did not answer successfully.
	Unhealthy Status = "error"
)

// Report aggregates the health check outcome.
type Report struct {
	Status  Status
	Backend string
	Latency time.Duration
	// Error is the failure text, empty when healthy.
	Error string
}

// Service probes the backend on demand. It never retries.
type Service struct {
	backend BackendPinger
	baseURL string
}

// New creates a Service for the backend at baseURL.
func New(backend BackendPinger, baseURL string) *Service {
	return &Service{backend: backend, baseURL: baseURL}
}

// Check probes the backend once.
func (s *Service) Check(ctx context.Context) Report {
	start := time.Now()
	err := s.backend.Ping(ctx)

	r := Report{
		Status:  Healthy,
		Backend: s.baseURL,
		Latency: time.Since(start),
	}
	if err != nil {
		r.Status = Unhealthy
		r.Error = err.Error()
	}
	return r
}
