package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submit outcome labels.
const (
	SubmitAccepted = "accepted"
	SubmitInvalid  = "invalid"
	SubmitBusy     = "busy"
)

// Widgets counts submit attempts per widget. A nil *Widgets records nothing.
type Widgets struct {
	submits  *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewWidgets registers widget metrics on reg.
func NewWidgets(reg prometheus.Registerer) (*Widgets, error) {
	m := &Widgets{
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "widget",
			Name:      "submits_total",
			Help:      "Submit attempts by widget and outcome.",
		}, []string{"widget", "outcome"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "widget",
			Name:      "in_flight",
			Help:      "1 while the widget has a request outstanding.",
		}, []string{"widget"}),
	}
	if err := registerOrReuse(reg, &m.submits); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.inFlight); err != nil {
		return nil, err
	}
	return m, nil
}

// Submit counts a submit attempt.
func (m *Widgets) Submit(widget, outcome string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(widget, outcome).Inc()
}

// SetBusy mirrors the widget busy flag.
func (m *Widgets) SetBusy(widget string, busy bool) {
	if m == nil {
		return
	}
	v := 0.0
	if busy {
		v = 1
	}
	m.inFlight.WithLabelValues(widget).Set(v)
}
