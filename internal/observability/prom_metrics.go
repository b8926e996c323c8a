package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the sync counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	uploaded     prometheus.Counter
	authFailures *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coffee_sync_runs_total",
		Help: "Sync invocations by resulting status code.",
	}, []string{"status"})
	uploaded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coffee_sync_shots_uploaded_total",
		Help: "Shot records created in Airtable (or staged in dry-run).",
	})
	authFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coffee_sync_auth_failures_total",
		Help: "Rejected HMAC-authenticated triggers by reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coffee_sync_run_duration_seconds",
		Help:    "Wall time of a sync invocation.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	reg.MustRegister(runs, uploaded, authFailures, duration)

	return &Metrics{
		runs:         runs,
		uploaded:     uploaded,
		authFailures: authFailures,
		duration:     duration,
	}
}

func (m *Metrics) RecordRun(statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) AddUploaded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.uploaded.Add(float64(n))
}

func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}
