package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	JobsInQueue         prometheus.Gauge
	DocumentsTotal      *prometheus.CounterVec
	ElementCaptures     *prometheus.CounterVec
	DocumentDuration    prometheus.Histogram

	initOnce sync.Once
)

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		JobsInQueue = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "capture_jobs_in_queue",
				Help: "Current number of capture jobs waiting for the worker.",
			},
		)

		DocumentsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capture_documents_total",
				Help: "Total number of documents processed.",
			},
			[]string{"status"}, // done, failed
		)

		ElementCaptures = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capture_elements_total",
				Help: "Total number of element capture attempts.",
			},
			[]string{"status", "error_type"},
		)

		DocumentDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "capture_document_duration_seconds",
				Help:    "Time from opening a document to its last element capture.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
		)
	})
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
