package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"toolagentd/internal/domain"
)

// MCPDialer establishes gateway connections over the MCP protocol
// using the transport kind fixed in configuration.
type MCPDialer struct {
	cfg     domain.GatewayConfig
	logger  *zap.Logger
	client  *http.Client
	timeout time.Duration
}

func NewMCPDialer(cfg domain.GatewayConfig, logger *zap.Logger) *MCPDialer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = domain.DefaultGatewayTimeoutSeconds * time.Second
	}
	return &MCPDialer{
		cfg:    cfg,
		logger: logger.Named("transport"),
		// streamable HTTP holds the GET stream open, so the per-request
		// deadline comes from contexts rather than http.Client.Timeout
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (d *MCPDialer) Dial(ctx context.Context) (domain.GatewayConn, error) {
	var t mcp.Transport
	switch d.cfg.Transport {
	case domain.TransportSSE:
		t = &mcp.SSEClientTransport{
			Endpoint:   d.cfg.URL,
			HTTPClient: d.client,
		}
	case "", domain.TransportStreamableHTTP:
		t = &mcp.StreamableClientTransport{
			Endpoint:   d.cfg.URL,
			HTTPClient: d.client,
		}
	default:
		return nil, fmt.Errorf("unsupported gateway transport %q", d.cfg.Transport)
	}

	dialCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "toolagentd",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(dialCtx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect gateway: %w", err)
	}

	return &mcpConn{
		session: session,
		timeout: d.timeout,
		logger:  d.logger,
	}, nil
}
