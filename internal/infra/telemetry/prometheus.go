package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"toolagentd/internal/domain"
)

type PrometheusMetrics struct {
	dispatchDuration *prometheus.HistogramVec
	connectDuration  *prometheus.HistogramVec
	catalogRefreshes *prometheus.CounterVec
	catalogTools     *prometheus.GaugeVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		dispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolagent_dispatch_duration_seconds",
				Help:    "Duration of tool invocations in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"origin", "status"},
		),
		connectDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolagent_gateway_connect_duration_seconds",
				Help:    "Duration of gateway connect attempts in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"status"},
		),
		catalogRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolagent_catalog_refresh_total",
				Help: "Total number of catalog rebuilds",
			},
			[]string{"mode", "remote"},
		),
		catalogTools: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "toolagent_catalog_tools",
				Help: "Current number of tools in the merged catalog",
			},
			[]string{"origin"},
		),
	}
}

func (p *PrometheusMetrics) ObserveDispatch(origin domain.ToolOrigin, duration time.Duration, err error) {
	p.dispatchDuration.WithLabelValues(string(origin), statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveGatewayConnect(duration time.Duration, err error) {
	p.connectDuration.WithLabelValues(statusLabel(err)).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveCatalogRefresh(forced bool, remoteAvailable bool) {
	mode := "stale"
	if forced {
		mode = "force"
	}
	remote := "available"
	if !remoteAvailable {
		remote = "degraded"
	}
	p.catalogRefreshes.WithLabelValues(mode, remote).Inc()
}

func (p *PrometheusMetrics) SetCatalogSize(origin domain.ToolOrigin, count int) {
	p.catalogTools.WithLabelValues(string(origin)).Set(float64(count))
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
