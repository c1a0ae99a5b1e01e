package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"storefront-api/internal/apperr"
)

const namespace = "storefront"

type Metrics struct {
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	WebhookEvents   *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Calls made to external providers by capability, provider and outcome.",
		}, []string{"capability", "provider", "outcome"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of external provider calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"capability", "provider"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook deliveries by source, event type and outcome.",
		}, []string{"source", "type", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(m.ProviderCalls, m.ProviderLatency, m.WebhookEvents, m.HTTPRequests, m.HTTPDuration)
	return m
}

// NewNop returns collectors registered on a private registry, for tests and
// tools that do not expose /metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) ObserveProviderCall(capability, provider string, start time.Time, err error) {
	m.ProviderLatency.WithLabelValues(capability, provider).Observe(time.Since(start).Seconds())
	m.ProviderCalls.WithLabelValues(capability, provider, outcome(err)).Inc()
}

func (m *Metrics) WebhookEvent(source, eventType, outcome string) {
	m.WebhookEvents.WithLabelValues(source, eventType, outcome).Inc()
}

func outcome(err error) string {
	var verr *apperr.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "rejected"
	default:
		return "error"
	}
}
