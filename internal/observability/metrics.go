package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	AnswersTotal       *prometheus.CounterVec
	RateLimitedTotal   prometheus.Counter
	ModelProbeFailures *prometheus.CounterVec
	ModelCalls         *prometheus.CounterVec
	AnswerLatency      prometheus.Histogram
	ActiveClients      prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AnswersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answered questions by resolving pipeline stage.",
		}, []string{"stage"}),
		RateLimitedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		ModelProbeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_probe_failures_total",
			Help:      "Failed liveness probes by model candidate.",
		}, []string{"model"}),
		ModelCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "External model calls by kind and result.",
		}, []string{"kind", "result"}),
		AnswerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_latency_ms",
			Help:      "End-to-end question answering latency in milliseconds.",
			Buckets:   []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}),
		ActiveClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limiter_active_clients",
			Help:      "Distinct clients currently tracked by the rate limiter.",
		}),
	}
}

func (m *Metrics) ObserveAnswerLatency(d time.Duration) {
	m.AnswerLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
