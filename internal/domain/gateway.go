package domain

import "context"

// GatewayConn is a live connection to the remote tool gateway. All
// methods are safe for concurrent use once the connection is handed
// out by the manager.
type GatewayConn interface {
	// Ping is a lightweight liveness probe, cheaper than a reconnect.
	Ping(ctx context.Context) error
	// ListTools returns the current remote descriptor set.
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	// CallTool invokes a remote tool by name.
	CallTool(ctx context.Context, name string, args map[string]any) (ToolOutput, error)
	Close() error
}

// GatewayDialer establishes gateway connections using fixed
// configuration decided at process start.
type GatewayDialer interface {
	Dial(ctx context.Context) (GatewayConn, error)
}
