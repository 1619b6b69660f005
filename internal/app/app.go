package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"toolagentd/internal/domain"
	"toolagentd/internal/infra/catalog"
	"toolagentd/internal/infra/config"
	"toolagentd/internal/infra/gateway"
	"toolagentd/internal/infra/httpapi"
	"toolagentd/internal/infra/localtools"
	"toolagentd/internal/infra/router"
	"toolagentd/internal/infra/telemetry"
	"toolagentd/internal/infra/transport"
)

// App wires the core runtime and its collaborators.
type App struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{logger: logger}
}

type ServeOptions struct {
	ConfigPath string
}

// Serve runs the tool agent service until ctx is canceled.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := config.NewLoader(a.logger).Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	registry, err := localtools.NewRegistry(logger, localtools.BuiltinSpecs()...)
	if err != nil {
		return err
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewPrometheusMetrics(promRegistry)

	dialer := transport.NewMCPDialer(cfg.Gateway, logger)
	manager := gateway.NewManager(dialer, gateway.ManagerOptions{
		GatewayURL: cfg.Gateway.URL,
		Logger:     logger,
		Metrics:    metrics,
	})
	defer func() { _ = manager.Close() }()

	cache := catalog.NewCache(registry, manager, catalog.CacheOptions{
		Staleness: time.Duration(cfg.Catalog.StalenessSeconds) * time.Second,
		Logger:    logger,
		Metrics:   metrics,
	})
	dispatcher := router.New(registry, manager, router.Options{
		Logger:  logger,
		Metrics: metrics,
	})

	// Eager first refresh so the catalog is warm before traffic
	// arrives; a gateway failure here degrades to local-only.
	snapshot := cache.Snapshot(ctx, true)
	logger.Info("tool service ready",
		zap.Int("tools", len(snapshot.Tools)),
		zap.String("gateway", cfg.Gateway.URL),
	)

	server := httpapi.NewServer(httpapi.ServerOptions{
		Addr:       cfg.HTTP.ListenAddress,
		GatewayURL: cfg.Gateway.URL,
		Catalog:    cache,
		Invoker:    dispatcher,
		Logger:     logger,
		Gatherer:   promRegistry,
	})
	return server.Run(ctx)
}

// Validate checks a configuration file without serving.
func (a *App) Validate(_ context.Context, path string) error {
	_, err := config.NewLoader(a.logger).Load(path)
	return err
}

func newLogger(cfg domain.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
