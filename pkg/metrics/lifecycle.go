package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Slot transitions by target status (LIVE, ENDED)
	SlotTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flashmarket_slot_transitions_total",
		Help: "Total number of slot status transitions",
	}, []string{"to"})

	// Moderator decisions by outcome (APPROVE, REJECT, REMOVE)
	ModerationDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flashmarket_moderation_decisions_total",
		Help: "Total number of applied moderation decisions",
	}, []string{"decision"})

	// Duration of a full reconciliation sweep
	ReconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flashmarket_reconcile_duration_seconds",
		Help:    "Duration of slot reconciliation sweeps",
		Buckets: prometheus.DefBuckets,
	})

	// Slots whose status changed per sweep
	ReconcileChangedSlots = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flashmarket_reconcile_changed_slots_total",
		Help: "Total number of slots changed by reconciliation sweeps",
	})
)

// NewReconcileTimer times one reconciliation sweep.
func NewReconcileTimer() *prometheus.Timer {
	return prometheus.NewTimer(ReconcileDuration)
}

func Init() {
	prometheus.MustRegister(
		SlotTransitions,
		ModerationDecisions,
		ReconcileDuration,
		ReconcileChangedSlots,
	)
}
