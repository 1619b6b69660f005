package gateway

import (
	"context"

	"toolagentd/internal/domain"
)

// Handle is a validated, ready-to-use gateway connection paired with
// the remote descriptor set captured when it was established. Handles
// are replaced wholesale on reconnect, never mutated.
type Handle struct {
	conn  domain.GatewayConn
	tools map[string]domain.ToolDescriptor
	order []string
}

func NewHandle(conn domain.GatewayConn, tools []domain.ToolDescriptor) *Handle {
	h := &Handle{
		conn:  conn,
		tools: make(map[string]domain.ToolDescriptor, len(tools)),
	}
	for _, tool := range tools {
		if _, exists := h.tools[tool.Name]; exists {
			continue
		}
		h.tools[tool.Name] = tool
		h.order = append(h.order, tool.Name)
	}
	return h
}

// Tool returns the remote descriptor registered under name.
func (h *Handle) Tool(name string) (domain.ToolDescriptor, bool) {
	tool, ok := h.tools[name]
	return tool, ok
}

// Descriptors lists the remote descriptor set in discovery order.
func (h *Handle) Descriptors() []domain.ToolDescriptor {
	descriptors := make([]domain.ToolDescriptor, 0, len(h.order))
	for _, name := range h.order {
		descriptors = append(descriptors, h.tools[name])
	}
	return descriptors
}

// Call invokes a remote tool over the underlying connection.
func (h *Handle) Call(ctx context.Context, name string, args map[string]any) (domain.ToolOutput, error) {
	return h.conn.CallTool(ctx, name, args)
}
