// Package metrics holds the Prometheus collectors of the engine. Every method
// is safe to call on a nil *Metrics so that services and tests can run without
// a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fx"

// Metrics contains the engine's collectors.
type Metrics struct {
	ProviderRequestsTotal    *prometheus.CounterVec
	ProviderRequestDuration  *prometheus.HistogramVec
	SyntheticFallbacksTotal  *prometheus.CounterVec
	RateCacheLookupsTotal    *prometheus.CounterVec
	QuotesIssuedTotal        *prometheus.CounterVec
	ExchangeOrdersTotal      *prometheus.CounterVec
	ExchangeVolumeTotal      *prometheus.CounterVec
	OrderCompletionsTotal    *prometheus.CounterVec
	OutboxEventsTotal        *prometheus.CounterVec
	RateAlertsTriggeredTotal prometheus.Counter
	HTTPRequestDuration      *prometheus.HistogramVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Rate provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		ProviderRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Rate provider call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		SyntheticFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthetic_fallbacks_total",
			Help:      "Rates produced by the synthetic generator, by base currency",
		}, []string{"base"}),
		RateCacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_cache_lookups_total",
			Help:      "Rate cache lookups per pair by result (hit or miss)",
		}, []string{"result"}),
		QuotesIssuedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_issued_total",
			Help:      "Quotes issued by pair",
		}, []string{"pair"}),
		ExchangeOrdersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_orders_total",
			Help:      "Exchange executions by resulting status",
		}, []string{"status"}),
		ExchangeVolumeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exchange_volume_total",
			Help:      "Settled exchange volume in the source currency",
		}, []string{"currency"}),
		OrderCompletionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_completions_total",
			Help:      "Processing orders driven to a terminal state",
		}, []string{"status"}),
		OutboxEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox events relayed by outcome",
		}, []string{"outcome"}),
		RateAlertsTriggeredTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_alerts_triggered_total",
			Help:      "Rate alerts fired",
		}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) ObserveProviderRequest(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) IncSyntheticFallback(base string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SyntheticFallbacksTotal.WithLabelValues(base).Add(float64(n))
}

func (m *Metrics) ObserveCacheLookups(hits, misses int) {
	if m == nil {
		return
	}
	m.RateCacheLookupsTotal.WithLabelValues("hit").Add(float64(hits))
	m.RateCacheLookupsTotal.WithLabelValues("miss").Add(float64(misses))
}

func (m *Metrics) IncQuoteIssued(pair string) {
	if m == nil {
		return
	}
	m.QuotesIssuedTotal.WithLabelValues(pair).Inc()
}

// ObserveExchange counts an execution outcome. volume is only added for settled orders.
func (m *Metrics) ObserveExchange(status, currency string, volume float64) {
	if m == nil {
		return
	}
	m.ExchangeOrdersTotal.WithLabelValues(status).Inc()
	if volume > 0 {
		m.ExchangeVolumeTotal.WithLabelValues(currency).Add(volume)
	}
}

func (m *Metrics) IncOrderCompletion(status string) {
	if m == nil {
		return
	}
	m.OrderCompletionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveOutbox(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OutboxEventsTotal.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) IncAlertsTriggered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RateAlertsTriggeredTotal.Add(float64(n))
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
