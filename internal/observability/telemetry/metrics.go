package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	CallsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaway_calls_started_total",
		Help: "Calls answered by the voice agent",
	})

	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "takeaway_turns_total",
		Help: "Conversation turns processed, by outcome",
	}, []string{"outcome"})

	ExtractionFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaway_extraction_failures_total",
		Help: "Extraction-service calls that errored",
	})

	FallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaway_fallbacks_total",
		Help: "Sessions escalated to a human operator",
	})

	OrdersCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaway_orders_completed_total",
		Help: "Orders confirmed and finalized",
	})

	// Infrastructure metrics
	ExtractionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "takeaway_extraction_latency_seconds",
		Help:    "Latency of extraction-service calls",
		Buckets: prometheus.DefBuckets,
	})

	PrintFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaway_print_failures_total",
		Help: "Ticket print attempts that failed",
	})
)
