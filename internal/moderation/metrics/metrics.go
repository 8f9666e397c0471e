package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the moderation module.
type Metrics struct {
	Transitions          *prometheus.CounterVec
	ConstraintViolations prometheus.Counter
	EventsEmitted        prometheus.Counter
}

// New creates a new Metrics instance with all moderation module metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "electorate_moderation_transitions_total",
			Help: "Total number of recorded moderation transitions, by resulting status",
		}, []string{"status"}),
		ConstraintViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electorate_moderation_constraint_violations_total",
			Help: "Total number of hierarchy constraint violations detected",
		}),
		EventsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electorate_moderation_events_emitted_total",
			Help: "Total number of outbound events emitted on soft delete",
		}),
	}
}

// IncrementTransition records a recorded status transition.
func (m *Metrics) IncrementTransition(status string) {
	m.Transitions.WithLabelValues(status).Inc()
}

// IncrementViolation records a detected constraint violation.
func (m *Metrics) IncrementViolation() {
	m.ConstraintViolations.Inc()
}

// IncrementEventEmitted records an emitted outbound event.
func (m *Metrics) IncrementEventEmitted() {
	m.EventsEmitted.Inc()
}
