// Package metrics records model, embedding and benchmark counters and exports
// them as a Prometheus textfile at the end of a run.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vqabench"

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds every vqabench collector. It is separate from the default
// registry so the textfile only contains harness metrics.
var Registry = prometheus.NewRegistry()

var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_requests_total",
			Help:      "Total number of chat model requests",
		},
		[]string{"provider", "model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Chat model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Total chat model tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider", "model"},
	)

	BenchmarkItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "benchmark_items_total",
			Help:      "Benchmark items evaluated per strategy and outcome",
		},
		[]string{"dataset", "strategy", "outcome"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		Registry.MustRegister(
			ModelRequestsTotal,
			ModelRequestDuration,
			ModelTokensTotal,
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			BenchmarkItemsTotal,
		)
	})
}

// RecordItem counts one evaluated benchmark answer.
func RecordItem(dataset, strategy string, correct bool, failed bool) {
	outcome := "incorrect"
	switch {
	case failed:
		outcome = StatusError
	case correct:
		outcome = "correct"
	}
	BenchmarkItemsTotal.WithLabelValues(dataset, strategy, outcome).Inc()
}

// WriteTextfile writes the current state of Registry in the Prometheus text
// exposition format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	Register()
	return prometheus.WriteToTextfile(path, Registry)
}
