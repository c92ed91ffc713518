package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the combat core. Label cardinality is bounded by
// construction: event types and violation kinds are small fixed enums.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "combat_tick_duration_seconds",
		Help:    "Wall time spent inside a single simulation tick",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14),
	})

	actorCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "combat_actor_count",
		Help: "Live actors in the simulation",
	})

	hitboxCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "combat_hitbox_count",
		Help: "Live hitboxes in the simulation",
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_events_total",
		Help: "Combat events emitted, by type",
	}, []string{"type"})

	invariantViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_invariant_violations_total",
		Help: "Internal consistency checks that fired, by kind",
	}, []string{"kind"})

	journalDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "combat_journal_dropped_total",
		Help: "Journal entries dropped by rate limiting or backpressure",
	})
)

// ObserveTick records the wall time of one tick.
func ObserveTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// SetActorCount updates the live actor gauge.
func SetActorCount(n int) {
	actorCount.Set(float64(n))
}

// SetHitboxCount updates the live hitbox gauge.
func SetHitboxCount(n int) {
	hitboxCount.Set(float64(n))
}

// CountEvent increments the per-type event counter.
func CountEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}

// CountInvariantViolation increments the violation counter for a kind.
func CountInvariantViolation(kind string) {
	invariantViolations.WithLabelValues(kind).Inc()
}

// CountJournalDropped increments the dropped journal entry counter.
func CountJournalDropped() {
	journalDropped.Inc()
}
