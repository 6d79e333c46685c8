package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	ModelCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_call_latency_ms",
			Help:    "Language model call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	ClassificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_count",
			Help: "Total number of classifications produced",
		},
		[]string{"label"},
	)

	ClassifierFallbackCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "classifier_fallback_count",
			Help: "Total number of model-mode failures that fell back to the heuristic",
		},
	)

	TaskGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_generation_count",
			Help: "Total number of tasks generated",
		},
		[]string{"label"}, // classification label the task came from
	)

	BriefGenerationCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brief_generation_count",
			Help: "Total number of briefs built",
		},
	)
)

// RecordHTTPRequestDuration records HTTP handler latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordMQConsumeLatency records MQ handler latency.
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// RecordModelCallLatency records language-model call latency.
func RecordModelCallLatency(status string, duration time.Duration) {
	ModelCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// IncrementClassification counts a produced classification by label.
func IncrementClassification(label string) {
	ClassificationCount.WithLabelValues(label).Inc()
}

// IncrementTaskGeneration counts a generated task by source label.
func IncrementTaskGeneration(label string) {
	TaskGenerationCount.WithLabelValues(label).Inc()
}
