package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phishguard"

// Metrics holds the collectors of one service on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Predictions     *prometheus.CounterVec
	BatchSize       prometheus.Histogram
	ModelFallbacks  prometheus.Counter
	PublishFailures prometheus.Counter
	Indexed         *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers every collector together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Classified texts by endpoint, prediction and confidence.",
		}, []string{"endpoint", "prediction", "confidence"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of texts per batch request.",
			Buckets:   []float64{1, 5, 10, 25, 50, 75, 100},
		}),
		ModelFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_fallbacks_total",
			Help:      "Texts scored by the heuristic while a remote model was configured.",
		}),
		PublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Analysis events that could not be published.",
		}),
		Indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexed_events_total",
			Help:      "Consumed analysis events by outcome.",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Predictions,
		m.BatchSize,
		m.ModelFallbacks,
		m.PublishFailures,
		m.Indexed,
		m.RequestDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction counts one classified text.
func (m *Metrics) ObservePrediction(endpoint, prediction, confidence string) {
	m.Predictions.WithLabelValues(endpoint, prediction, confidence).Inc()
}
