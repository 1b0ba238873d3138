// Package metrics exposes Prometheus instruments for the nexus pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds application-level instruments.
type Metrics struct {
	registry *prometheus.Registry

	BucketsRecomputed   prometheus.Counter
	BucketFailures      prometheus.Counter
	ExposureRuns        prometheus.Counter
	AlertsCreated       *prometheus.CounterVec
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
	PipelineDuration    prometheus.Histogram
}

// New builds the pipeline instruments on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		BucketsRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_buckets_recomputed_total",
			Help: "Sales summary buckets recomputed.",
		}),
		BucketFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_bucket_failures_total",
			Help: "Sales summary bucket recomputes that failed after retry.",
		}),
		ExposureRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_exposure_runs_total",
			Help: "Exposure calculations performed.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexus_alerts_created_total",
			Help: "Threshold alerts created, by level.",
		}, []string{"level"}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_notifications_sent_total",
			Help: "Alert notifications dispatched successfully.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nexus_notifications_failed_total",
			Help: "Alert notification dispatch failures.",
		}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexus_pipeline_duration_seconds",
			Help:    "Duration of a full orchestrator run.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.BucketsRecomputed,
		m.BucketFailures,
		m.ExposureRuns,
		m.AlertsCreated,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.PipelineDuration,
	)

	return m
}

// Registry returns the backing registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
