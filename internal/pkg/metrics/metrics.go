package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	admissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roombook",
			Name:      "admissions_total",
			Help:      "Count of booking admission attempts by outcome.",
		},
		[]string{"outcome"},
	)

	cancellations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roombook",
			Name:      "cancellations_total",
			Help:      "Count of bookings cancelled by owners or admins.",
		},
	)

	sweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roombook",
			Name:      "sweep_runs_total",
			Help:      "Count of reconciliation sweeps executed.",
		},
	)

	completions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roombook",
			Name:      "completions_total",
			Help:      "Count of bookings aged to completed by the reconciler.",
		},
	)

	reminders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roombook",
			Name:      "reminders_total",
			Help:      "Count of reminder dispatch attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics on the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(admissions, cancellations, sweepRuns, completions, reminders)
	})
}

func IncAdmission(outcome string) {
	admissions.WithLabelValues(outcome).Inc()
}

func IncCancellation() {
	cancellations.Inc()
}

func IncSweepRun() {
	sweepRuns.Inc()
}

func AddCompletions(n int) {
	completions.Add(float64(n))
}

func IncReminder(outcome string) {
	reminders.WithLabelValues(outcome).Inc()
}
