package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the elections module.
// Tracks id creation and cancellation counts and the ladder write path.
type Metrics struct {
	ElectionsCreated   *prometheus.CounterVec
	ElectionsCancelled prometheus.Counter
	CreateIDsDuration  prometheus.Histogram
}

// New creates a new Metrics instance with all elections module metrics registered.
func New() *Metrics {
	return &Metrics{
		ElectionsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "electorate_elections_created_total",
			Help: "Total number of election rows created, by group type",
		}, []string{"group_type"}),
		ElectionsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "electorate_elections_cancelled_total",
			Help: "Total number of election rows cancelled",
		}),
		CreateIDsDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "electorate_create_ids_duration_seconds",
			Help:    "Duration of CreateIDs ladder writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a created election row. Ballots report the
// group type "ballot".
func (m *Metrics) IncrementCreated(groupType string) {
	if groupType == "" {
		groupType = "ballot"
	}
	m.ElectionsCreated.WithLabelValues(groupType).Inc()
}

// IncrementCancelled records a cancelled election row.
func (m *Metrics) IncrementCancelled() {
	m.ElectionsCancelled.Inc()
}

// ObserveCreateIDs records the duration of a CreateIDs operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateIDs(start time.Time) {
	m.CreateIDsDuration.Observe(time.Since(start).Seconds())
}
