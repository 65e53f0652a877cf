package billing

import "github.com/prometheus/client_golang/prometheus"

var (
	reconcileRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "reconcile_runs_total",
		Help:      "Total completed reconciliation passes.",
	})

	reconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "reconcile_duration_seconds",
		Help:      "Duration of reconciliation passes in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	})

	reconcileErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "reconcile_errors_total",
		Help:      "Total reconciliation errors (store failures, list failures).",
	})

	remindersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "reminders_total",
		Help:      "Total renewal reminder notifications attempted.",
	})

	pausesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "pauses_total",
		Help:      "Total subscription pauses by reason (expired, manual).",
	}, []string{"reason"})

	reactivationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "billing",
		Name:      "reactivations_total",
		Help:      "Total mark-paid reactivations.",
	})
)

func init() {
	prometheus.MustRegister(
		reconcileRuns,
		reconcileDuration,
		reconcileErrors,
		remindersTotal,
		pausesTotal,
		reactivationsTotal,
	)
}
