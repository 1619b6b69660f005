package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"toolagentd/internal/domain"
	"toolagentd/internal/infra/gateway"
	"toolagentd/internal/infra/localtools"
	"toolagentd/internal/infra/telemetry"
)

// Connector is the slice of the connection manager the cache needs.
type Connector interface {
	EnsureConnected(ctx context.Context, force bool) (*gateway.Handle, bool)
	EnsureConnectedIfStale(ctx context.Context) (*gateway.Handle, bool)
}

// Cache holds the merged, read-mostly catalog snapshot. Rebuilds are
// pull-based: they happen inside the request that observed staleness
// or asked for a force refresh, never on a background timer. The
// rebuild mutex serializes writers only; the snapshot is published
// through an atomic swap so readers never wait on gateway I/O.
type Cache struct {
	registry  *localtools.Registry
	connector Connector
	staleness time.Duration
	logger    *zap.Logger
	metrics   domain.Metrics
	now       func() time.Time

	rebuildMu sync.Mutex
	snapshot  atomic.Pointer[domain.CatalogSnapshot]
}

type CacheOptions struct {
	Staleness time.Duration
	Logger    *zap.Logger
	Metrics   domain.Metrics
	Now       func() time.Time
}

func NewCache(registry *localtools.Registry, connector Connector, opts CacheOptions) *Cache {
	staleness := opts.Staleness
	if staleness <= 0 {
		staleness = domain.DefaultStalenessSeconds * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		registry:  registry,
		connector: connector,
		staleness: staleness,
		logger:    logger.Named("catalog"),
		metrics:   metrics,
		now:       now,
	}
}

// Snapshot returns the merged catalog, rebuilding it first when forced
// or when the cached snapshot is empty or older than the staleness
// window. A fresh-enough snapshot is returned unchanged with no remote
// traffic.
func (c *Cache) Snapshot(ctx context.Context, force bool) domain.CatalogSnapshot {
	if snap := c.snapshot.Load(); snap != nil && !force && c.fresh(*snap) {
		return *snap
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	// another caller may have published a rebuild while we waited
	if snap := c.snapshot.Load(); snap != nil && !force && c.fresh(*snap) {
		return *snap
	}
	return c.rebuild(ctx, force)
}

// Current returns the cached snapshot without triggering any refresh.
// It never waits on an in-flight rebuild.
func (c *Cache) Current() domain.CatalogSnapshot {
	if snap := c.snapshot.Load(); snap != nil {
		return *snap
	}
	return domain.CatalogSnapshot{}
}

func (c *Cache) fresh(snap domain.CatalogSnapshot) bool {
	return len(snap.Tools) > 0 && c.now().Sub(snap.UpdatedAt) <= c.staleness
}

// rebuild runs with rebuildMu held. The gateway I/O happens before the
// snapshot swap, so concurrent readers keep seeing the previous value.
func (c *Cache) rebuild(ctx context.Context, force bool) domain.CatalogSnapshot {
	var (
		handle *gateway.Handle
		ok     bool
	)
	if force {
		handle, ok = c.connector.EnsureConnected(ctx, true)
	} else {
		handle, ok = c.connector.EnsureConnectedIfStale(ctx)
	}

	// Local entries always survive; remote entries are additive and
	// vanish cleanly when the connection is unavailable.
	tools := c.registry.Descriptors()
	local := make(map[string]struct{}, len(tools))
	for _, tool := range tools {
		local[tool.Name] = struct{}{}
	}
	remoteCount := 0
	if ok {
		for _, tool := range handle.Descriptors() {
			if _, shadowed := local[tool.Name]; shadowed {
				continue
			}
			tools = append(tools, tool)
			remoteCount++
		}
	} else {
		c.logger.Warn("catalog rebuilt without remote tools",
			telemetry.EventField(telemetry.EventCatalogDegraded),
		)
	}

	snapshot := domain.CatalogSnapshot{
		Tools:     tools,
		UpdatedAt: c.now(),
	}
	c.snapshot.Store(&snapshot)
	c.metrics.ObserveCatalogRefresh(force, ok)
	c.metrics.SetCatalogSize(domain.OriginLocal, len(local))
	c.metrics.SetCatalogSize(domain.OriginMCP, remoteCount)
	c.logger.Debug("catalog refreshed",
		telemetry.EventField(telemetry.EventCatalogRefresh),
		zap.Int("local", len(local)),
		zap.Int("remote", remoteCount),
		zap.Bool("force", force),
	)
	return snapshot
}
