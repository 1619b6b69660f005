package telemetry

import (
	"time"

	"toolagentd/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveDispatch(_ domain.ToolOrigin, _ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveGatewayConnect(_ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveCatalogRefresh(_ bool, _ bool) {}

func (n *NoopMetrics) SetCatalogSize(_ domain.ToolOrigin, _ int) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
