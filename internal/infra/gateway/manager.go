package gateway

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"toolagentd/internal/domain"
	"toolagentd/internal/infra/telemetry"
)

// ConnState is the tagged connection state owned by the Manager.
type ConnState string

const (
	StateUnconnected ConnState = "unconnected"
	StateConnected   ConnState = "connected"
	StateFailed      ConnState = "failed"
)

// Manager owns the lifecycle of the single logical gateway connection:
// connect, liveness probe, forced reconnect, close. Connect and
// reconnect are serialized by the manager mutex so concurrent callers
// wait for the in-flight attempt instead of racing to dial twice.
type Manager struct {
	dialer  domain.GatewayDialer
	url     string
	logger  *zap.Logger
	metrics domain.Metrics

	mu          sync.Mutex
	state       ConnState
	handle      *Handle
	lastRefresh time.Time

	// generation increments on every successful connect so a caller
	// that waited out another caller's reconnect can reuse its result
	// instead of dialing again.
	generation atomic.Uint64
}

type ManagerOptions struct {
	GatewayURL string
	Logger     *zap.Logger
	Metrics    domain.Metrics
}

func NewManager(dialer domain.GatewayDialer, opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Manager{
		dialer:  dialer,
		url:     opts.GatewayURL,
		logger:  logger.Named("gateway"),
		metrics: metrics,
		state:   StateUnconnected,
	}
}

// EnsureConnected returns a validated handle, dialing or re-dialing as
// needed. When force is false an existing connection is kept and only
// the descriptor set is re-pulled over it; force always redials. It
// never returns an error: failure is expressed as a false second
// return, with the descriptor set degrading to local-only.
func (m *Manager) EnsureConnected(ctx context.Context, force bool) (*Handle, bool) {
	observed := m.generation.Load()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller finished a reconnect while we waited on the lock.
	if force && m.handle != nil && m.generation.Load() != observed {
		return m.handle, true
	}
	return m.connectLocked(ctx, force)
}

func (m *Manager) connectLocked(ctx context.Context, force bool) (*Handle, bool) {
	start := time.Now()

	var conn domain.GatewayConn
	if m.handle != nil && !force {
		conn = m.handle.conn
	} else {
		if m.handle != nil {
			_ = m.handle.conn.Close()
			m.handle = nil
		}
		dialed, err := m.dialer.Dial(ctx)
		if err != nil {
			m.logger.Warn("failed to connect to MCP gateway",
				telemetry.EventField(telemetry.EventConnectFailure),
				zap.String("gateway", m.url),
				zap.Error(err),
			)
			m.failLocked(start, err)
			return nil, false
		}
		conn = dialed
	}

	tools, err := conn.ListTools(ctx)
	if err != nil {
		m.logger.Warn("failed to list gateway tools",
			telemetry.EventField(telemetry.EventConnectFailure),
			zap.String("gateway", m.url),
			zap.Error(err),
		)
		_ = conn.Close()
		m.failLocked(start, err)
		return nil, false
	}

	m.handle = NewHandle(conn, tools)
	m.state = StateConnected
	m.lastRefresh = time.Now()
	m.generation.Add(1)
	m.metrics.ObserveGatewayConnect(time.Since(start), nil)
	m.metrics.SetCatalogSize(domain.OriginMCP, len(tools))
	return m.handle, true
}

func (m *Manager) failLocked(start time.Time, err error) {
	m.handle = nil
	m.state = StateFailed
	m.lastRefresh = time.Now()
	m.metrics.ObserveGatewayConnect(time.Since(start), err)
	m.metrics.SetCatalogSize(domain.OriginMCP, 0)
}

// EnsureConnectedIfStale is the hot path used before every remote
// invocation: it probes an existing connection and reuses it as-is on
// success, skipping the expensive descriptor refresh. Any probe
// failure falls through to a forced reconnect.
func (m *Manager) EnsureConnectedIfStale(ctx context.Context) (*Handle, bool) {
	m.mu.Lock()
	handle := m.handle
	m.mu.Unlock()

	if handle != nil {
		err := handle.conn.Ping(ctx)
		if err == nil {
			return handle, true
		}
		m.logger.Debug("gateway ping failed",
			telemetry.EventField(telemetry.EventPingFailure),
			zap.Error(err),
		)
	}
	return m.EnsureConnected(ctx, true)
}

// Close releases the connection if one is established. Idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return nil
	}
	err := m.handle.conn.Close()
	m.handle = nil
	m.state = StateUnconnected
	return err
}

// State reports the current connection state.
func (m *Manager) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastRefresh reports when the remote descriptor set was last
// (re)pulled, successfully or not.
func (m *Manager) LastRefresh() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRefresh
}

// GatewayURL reports the configured gateway address.
func (m *Manager) GatewayURL() string {
	return m.url
}
