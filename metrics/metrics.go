package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// StageDurationSeconds is the time spent in each pipeline stage.
	StageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vedalipi",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Time spent in each manuscript pipeline stage, labeled by stage and result.",
		// Upstream calls dominate; keep buckets coarse.
		Buckets: []float64{0.01, 0.05, 0.25, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"stage", "result"})

	// ProcessedTotal counts upload processing requests by outcome.
	ProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vedalipi",
		Subsystem: "pipeline",
		Name:      "processed_total",
		Help:      "Total number of uploads processed, labeled by result (ok or the failing stage).",
	}, []string{"result"})

	// ChatRepliesTotal counts chat replies by outcome.
	ChatRepliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vedalipi",
		Subsystem: "chat",
		Name:      "replies_total",
		Help:      "Total number of chat replies, labeled by result (ok, empty, error).",
	}, []string{"result"})

	// ActiveSessions is the number of session contexts currently held.
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vedalipi",
		Subsystem: "session",
		Name:      "active",
		Help:      "Number of session contexts held in memory.",
	})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			StageDurationSeconds,
			ProcessedTotal,
			ChatRepliesTotal,
			ActiveSessions,
		)
	})
}
