package transport

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"toolagentd/internal/domain"
)

// mcpConn adapts an MCP client session to domain.GatewayConn.
type mcpConn struct {
	session *mcp.ClientSession
	timeout time.Duration
	logger  *zap.Logger
}

func (c *mcpConn) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.session.Ping(pingCtx, nil)
}

func (c *mcpConn) ListTools(ctx context.Context) ([]domain.ToolDescriptor, error) {
	listCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var descriptors []domain.ToolDescriptor
	params := &mcp.ListToolsParams{}
	for {
		result, err := c.session.ListTools(listCtx, params)
		if err != nil {
			return nil, err
		}
		for _, tool := range result.Tools {
			if tool == nil || tool.Name == "" {
				continue
			}
			var schema any = tool.InputSchema
			if tool.InputSchema == nil {
				schema = domain.DefaultInputSchema()
			}
			descriptors = append(descriptors, domain.ToolDescriptor{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: schema,
				Origin:      domain.OriginMCP,
			})
		}
		if result.NextCursor == "" {
			break
		}
		params = &mcp.ListToolsParams{Cursor: result.NextCursor}
	}
	return descriptors, nil
}

func (c *mcpConn) CallTool(ctx context.Context, name string, args map[string]any) (domain.ToolOutput, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.session.CallTool(callCtx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return domain.ToolOutput{}, err
	}
	out := outputFromResult(result)
	if result.IsError {
		msg := out.Content
		if msg == "" {
			msg = "tool reported an error"
		}
		return domain.ToolOutput{}, domain.E(domain.CodeInternal, "transport.call", msg, nil)
	}
	return out, nil
}

func (c *mcpConn) Close() error {
	return c.session.Close()
}

// outputFromResult flattens an MCP tool result into the shared output
// shape: text parts concatenated verbatim, non-text parts bucketed by
// attachment category. MCP has no video content type, so image parts
// with a video MIME type count as videos.
func outputFromResult(result *mcp.CallToolResult) domain.ToolOutput {
	var out domain.ToolOutput
	if result == nil {
		return out
	}
	var text strings.Builder
	for _, item := range result.Content {
		switch v := item.(type) {
		case *mcp.TextContent:
			text.WriteString(v.Text)
		case *mcp.ImageContent:
			attachment := domain.Attachment{MIMEType: v.MIMEType, Data: v.Data}
			if strings.HasPrefix(v.MIMEType, "video/") {
				out.Videos = append(out.Videos, attachment)
			} else {
				out.Images = append(out.Images, attachment)
			}
		case *mcp.AudioContent:
			out.Audios = append(out.Audios, domain.Attachment{MIMEType: v.MIMEType, Data: v.Data})
		case *mcp.EmbeddedResource:
			attachment := domain.Attachment{}
			if v.Resource != nil {
				attachment.URI = v.Resource.URI
				attachment.MIMEType = v.Resource.MIMEType
				attachment.Data = v.Resource.Blob
			}
			out.Files = append(out.Files, attachment)
		case *mcp.ResourceLink:
			out.Files = append(out.Files, domain.Attachment{URI: v.URI, MIMEType: v.MIMEType})
		}
	}
	out.Content = text.String()
	return out
}

var _ domain.GatewayConn = (*mcpConn)(nil)
