package router

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"toolagentd/internal/domain"
	"toolagentd/internal/infra/gateway"
	"toolagentd/internal/infra/localtools"
	"toolagentd/internal/infra/telemetry"
)

// Connector is the slice of the connection manager the router needs.
type Connector interface {
	EnsureConnectedIfStale(ctx context.Context) (*gateway.Handle, bool)
}

// Router decides local-vs-remote per call, invokes the matching
// handler, and normalizes the result. The local registry is always
// consulted first: a local tool shadows a remote tool of the same
// name unconditionally, so the remote side is never contacted for it.
type Router struct {
	registry  *localtools.Registry
	connector Connector
	logger    *zap.Logger
	metrics   domain.Metrics
}

type Options struct {
	Logger  *zap.Logger
	Metrics domain.Metrics
}

func New(registry *localtools.Registry, connector Connector, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Router{
		registry:  registry,
		connector: connector,
		logger:    logger.Named("router"),
		metrics:   metrics,
	}
}

// Invoke dispatches a tool call by name. Failures carry one of the
// domain error codes: INVALID_ARGUMENT, UNAVAILABLE, NOT_FOUND, or
// INTERNAL for a located handler that failed.
func (r *Router) Invoke(ctx context.Context, name string, args map[string]any) (domain.ToolCallResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	start := time.Now()

	if r.registry.Has(name) {
		out, err := r.registry.Invoke(ctx, name, args)
		r.observe(domain.OriginLocal, name, start, err)
		if err != nil {
			return domain.ToolCallResult{}, err
		}
		return Normalize(name, domain.OriginLocal, out), nil
	}

	handle, ok := r.connector.EnsureConnectedIfStale(ctx)
	if !ok {
		err := domain.E(domain.CodeUnavailable, "router.invoke",
			"MCP tools are not available right now", nil)
		r.observe(domain.OriginMCP, name, start, err)
		return domain.ToolCallResult{}, err
	}

	if _, found := handle.Tool(name); !found {
		err := domain.E(domain.CodeNotFound, "router.invoke",
			fmt.Sprintf("tool %q is not registered", name), nil)
		r.observe(domain.OriginMCP, name, start, err)
		return domain.ToolCallResult{}, err
	}

	out, err := handle.Call(ctx, name, args)
	r.observe(domain.OriginMCP, name, start, err)
	if err != nil {
		return domain.ToolCallResult{}, domain.Wrap(domain.CodeInternal, "router.invoke", err)
	}
	return Normalize(name, domain.OriginMCP, out), nil
}

func (r *Router) observe(origin domain.ToolOrigin, name string, start time.Time, err error) {
	duration := time.Since(start)
	r.metrics.ObserveDispatch(origin, duration, err)
	if err != nil {
		r.logger.Warn("tool dispatch failed",
			telemetry.EventField(telemetry.EventDispatchError),
			telemetry.ToolField(name),
			telemetry.OriginField(string(origin)),
			telemetry.DurationField(duration),
			zap.Error(err),
		)
	}
}
