package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"toolagentd/internal/domain"
)

// CatalogProvider is the slice of the catalog cache the API needs.
type CatalogProvider interface {
	Snapshot(ctx context.Context, force bool) domain.CatalogSnapshot
	Current() domain.CatalogSnapshot
}

// ToolInvoker is the slice of the dispatch router the API needs.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (domain.ToolCallResult, error)
}

// Server fronts the three core operations (health, list, call) over
// HTTP and serves Prometheus metrics on the same listener.
type Server struct {
	addr       string
	gatewayURL string
	catalog    CatalogProvider
	invoker    ToolInvoker
	logger     *zap.Logger
	gatherer   prometheus.Gatherer
}

type ServerOptions struct {
	Addr       string
	GatewayURL string
	Catalog    CatalogProvider
	Invoker    ToolInvoker
	Logger     *zap.Logger
	Gatherer   prometheus.Gatherer
}

func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	addr := opts.Addr
	if addr == "" {
		addr = domain.DefaultHTTPListenAddress
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		addr:       addr,
		gatewayURL: opts.GatewayURL,
		catalog:    opts.Catalog,
		invoker:    opts.Invoker,
		logger:     logger.Named("httpapi"),
		gatherer:   gatherer,
	}
}

// Handler builds the routing table with CORS and request-ID middleware
// applied to every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.HandleFunc("POST /call-tool", s.handleCallTool)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return corsMiddleware(requestIDMiddleware(s.accessLog(mux)))
}

// Run serves until ctx is canceled, then drains with a short timeout.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed to start: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", zap.Error(err))
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	}
}
