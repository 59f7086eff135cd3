// Package metrics provides Prometheus metrics for the debate pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debate_scoring"

// Metrics holds all Prometheus metrics for both services.
type Metrics struct {
	// Gateway upload metrics
	UploadsTotal    prometheus.Counter
	UploadBytes     prometheus.Counter
	UploadsRejected prometheus.Counter

	// Job outcome metrics
	JobsTotal   *prometheus.CounterVec
	JobDuration prometheus.Histogram

	// Transcription metrics
	TranscriptionDuration prometheus.Histogram
	TranscriptionErrors   *prometheus.CounterVec

	// Storage metrics
	StorageOps *prometheus.CounterVec

	// Scored-event publish metrics
	PublishTotal   *prometheus.CounterVec
	PublishErrors  *prometheus.CounterVec
	PublishLatency prometheus.Histogram
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of audio uploads accepted",
		}),
		UploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Total audio bytes accepted for processing",
		}),
		UploadsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Total number of uploads rejected before processing",
		}),

		JobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of debate jobs by terminal status",
		}, []string{"status"}),
		JobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "End-to-end duration of debate jobs in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Duration of speech-to-text operations in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 90, 120},
		}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total speech-to-text failures by reason",
		}, []string{"reason"}),

		StorageOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_ops_total",
			Help:      "Total blob storage operations by op and status",
		}, []string{"op", "status"}),

		PublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_total",
			Help:      "Total scored-debate events published",
		}, []string{"topic"}),
		PublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total scored-debate event publish failures",
		}, []string{"topic"}),
		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_latency_seconds",
			Help:      "Latency of scored-debate event publishes in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// RecordUpload records an accepted upload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadsTotal.Inc()
	m.UploadBytes.Add(float64(bytes))
}

// RecordUploadRejected records an upload rejected before processing.
func (m *Metrics) RecordUploadRejected() {
	m.UploadsRejected.Inc()
}

// RecordJob records a terminal job outcome and its duration.
func (m *Metrics) RecordJob(status string, seconds float64) {
	m.JobsTotal.WithLabelValues(status).Inc()
	m.JobDuration.Observe(seconds)
}

// RecordTranscription records a completed speech-to-text operation.
func (m *Metrics) RecordTranscription(seconds float64) {
	m.TranscriptionDuration.Observe(seconds)
}

// RecordTranscriptionError records a speech-to-text failure.
func (m *Metrics) RecordTranscriptionError(reason string) {
	m.TranscriptionErrors.WithLabelValues(reason).Inc()
}

// RecordStorageOp records a blob storage operation.
func (m *Metrics) RecordStorageOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StorageOps.WithLabelValues(op, status).Inc()
}

// RecordPublish records a scored-event publish attempt.
func (m *Metrics) RecordPublish(topic string, err error, seconds float64) {
	m.PublishTotal.WithLabelValues(topic).Inc()
	m.PublishLatency.Observe(seconds)
	if err != nil {
		m.PublishErrors.WithLabelValues(topic).Inc()
	}
}
