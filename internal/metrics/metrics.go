// Package metrics exposes Prometheus metrics for the Mudra analysis
// service on a custom registry, keeping the default Go collectors out of
// the scrape.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "mudra"
	subsystem = "analysis"
)

// Analysis path labels.
const (
	PathFrame     = "frame"
	PathLandmarks = "landmarks"
)

var registry = prometheus.NewRegistry()

var (
	framesAnalyzed = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frames_total",
		Help:      "Frames analyzed, by ingestion path",
	}, []string{"path"})

	zoneResults = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "zone_results_total",
		Help:      "Result records emitted, by zone",
	}, []string{"zone"})

	analysisDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "duration_seconds",
		Help:      "Per-frame analysis duration, by ingestion path",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	droppedFrames = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dropped_frames_total",
		Help:      "Queued frames replaced by a newer submission before processing",
	})

	hookFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "hook_failures_total",
		Help:      "Zone hook executions that failed or timed out",
	})

	activeSessions = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_sessions",
		Help:      "Analysis sessions currently open",
	})

	activeTracks = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_tracks",
		Help:      "Hand tracks currently live across all sessions",
	})
)

// Handler serves the registry for GET /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one evaluated frame: its ingestion path, the
// emitted zone, and how long analysis took.
func ObserveAnalysis(path, zone string, d time.Duration) {
	framesAnalyzed.WithLabelValues(path).Inc()
	zoneResults.WithLabelValues(zone).Inc()
	analysisDuration.WithLabelValues(path).Observe(d.Seconds())
}

// FrameDropped counts a keep-latest mailbox replacement.
func FrameDropped() {
	droppedFrames.Inc()
}

// HookFailed counts a failed hook execution.
func HookFailed() {
	hookFailures.Inc()
}

// SetActiveSessions publishes the current session count.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// SetActiveTracks publishes the current live track count.
func SetActiveTracks(n int) {
	activeTracks.Set(float64(n))
}
