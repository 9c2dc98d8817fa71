package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	// Completion metrics
	CompletionRequestsTotal *prometheus.CounterVec
	CompletionDuration      *prometheus.HistogramVec
	CompletionErrorsTotal   *prometheus.CounterVec
	CompletionTokensTotal   *prometheus.CounterVec

	// Conversation metrics
	SessionsTotal           prometheus.Counter
	ConversationResetsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		CompletionRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_requests_total",
				Help: "Total number of chat completion requests",
			},
			[]string{"provider", "model", "status"},
		),
		CompletionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "completion_duration_seconds",
				Help:    "Duration of chat completion requests in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
			},
			[]string{"provider"},
		),
		CompletionErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_errors_total",
				Help: "Total number of failed chat completion requests",
			},
			[]string{"provider", "error_type"},
		),
		CompletionTokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "completion_tokens_total",
				Help: "Tokens reported by the provider, by direction (prompt, completion)",
			},
			[]string{"provider", "direction"},
		),

		SessionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chat_sessions_total",
				Help: "Total number of chat sessions created",
			},
		),
		ConversationResetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversation_resets_total",
				Help: "Total number of history resets by kind (clear, system)",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.CompletionRequestsTotal,
		m.CompletionDuration,
		m.CompletionErrorsTotal,
		m.CompletionTokensTotal,
		m.SessionsTotal,
		m.ConversationResetsTotal,
	)

	return m
}

// ObserveCompletion records one finished completion call.
// errorType is ignored when success is true.
func (m *Metrics) ObserveCompletion(provider, model string, duration time.Duration, success bool, errorType string) {
	if m == nil {
		return
	}
	status := "error"
	if success {
		status = "success"
	} else {
		m.CompletionErrorsTotal.WithLabelValues(provider, errorType).Inc()
	}
	m.CompletionRequestsTotal.WithLabelValues(provider, model, status).Inc()
	m.CompletionDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveTokens adds provider-reported token counts
func (m *Metrics) ObserveTokens(provider string, prompt, completion int) {
	if m == nil {
		return
	}
	m.CompletionTokensTotal.WithLabelValues(provider, "prompt").Add(float64(prompt))
	m.CompletionTokensTotal.WithLabelValues(provider, "completion").Add(float64(completion))
}

// RecordSession counts a newly created chat session
func (m *Metrics) RecordSession() {
	if m == nil {
		return
	}
	m.SessionsTotal.Inc()
}

// RecordReset counts a history reset
func (m *Metrics) RecordReset(kind string) {
	if m == nil {
		return
	}
	m.ConversationResetsTotal.WithLabelValues(kind).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
