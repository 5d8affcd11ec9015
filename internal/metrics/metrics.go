package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelResult    = "result"
	labelOperation = "operation"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Catalog groups the connector's instrumentation. A nil *Catalog is valid
// and records nothing, so tests can pass nil.
type Catalog struct {
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	GatewayRequests *prometheus.CounterVec
}

func NewCatalog(reg *prometheus.Registry) *Catalog {
	m := &Catalog{
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_refreshes_total",
				Help: "Total catalog cache refresh attempts",
			},
			[]string{labelResult},
		),
		RefreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "catalog_cache_refresh_duration_seconds",
				Help: "Duration of successful catalog cache refreshes",
			},
		),
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_gateway_requests_total",
				Help: "Total GraphQL gateway requests",
			},
			[]string{labelOperation, labelResult},
		),
	}

	reg.MustRegister(m.Refreshes, m.RefreshDuration, m.GatewayRequests)
	return m
}

func (m *Catalog) ObserveRefresh(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		m.RefreshDuration.Observe(d.Seconds())
	}
}

func (m *Catalog) IncGateway(operation, result string) {
	if m == nil {
		return
	}
	m.GatewayRequests.WithLabelValues(operation, result).Inc()
}
