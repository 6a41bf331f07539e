package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveProviderRequest("frankfurter", "ok", time.Millisecond)
		m.IncSyntheticFallback("EUR", 2)
		m.ObserveCacheLookups(1, 1)
		m.IncQuoteIssued("EUR/XOF")
		m.ObserveExchange("processing", "EUR", 10)
		m.IncOrderCompletion("completed")
		m.ObserveOutbox("published", 3)
		m.IncAlertsTriggered(1)
		m.ObserveHTTPRequest("GET", "/api/v1/rates", "200", time.Millisecond)
	})
}

func TestMetricsCount(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveExchange("processing", "EUR", 10)
	m.ObserveExchange("rejected_slippage", "EUR", 0)
	m.ObserveCacheLookups(3, 1)
	m.IncAlertsTriggered(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExchangeOrdersTotal.WithLabelValues("processing")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.ExchangeVolumeTotal.WithLabelValues("EUR")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RateCacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateAlertsTriggeredTotal))
}
