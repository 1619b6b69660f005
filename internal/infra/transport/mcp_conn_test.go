package transport

import (
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolagentd/internal/domain"
)

func gatewayConfig(kind string) domain.GatewayConfig {
	return domain.GatewayConfig{
		URL:            "http://gw:8080",
		Transport:      domain.GatewayTransport(kind),
		TimeoutSeconds: 1,
	}
}

func TestOutputFromResult_TextConcatenation(t *testing.T) {
	out := outputFromResult(&mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "first "},
			&mcp.TextContent{Text: "second"},
		},
	})
	assert.Equal(t, "first second", out.Content)
	assert.Empty(t, out.Images)
}

func TestOutputFromResult_AttachmentCategories(t *testing.T) {
	out := outputFromResult(&mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "mixed"},
			&mcp.ImageContent{MIMEType: "image/png", Data: []byte{1}},
			&mcp.ImageContent{MIMEType: "video/mp4", Data: []byte{2}},
			&mcp.AudioContent{MIMEType: "audio/wav", Data: []byte{3}},
			&mcp.ResourceLink{URI: "file:///tmp/report.txt", MIMEType: "text/plain"},
			&mcp.EmbeddedResource{Resource: &mcp.ResourceContents{URI: "mem://blob", MIMEType: "application/octet-stream"}},
		},
	})

	assert.Equal(t, "mixed", out.Content)
	require.Len(t, out.Images, 1)
	assert.Equal(t, "image/png", out.Images[0].MIMEType)
	require.Len(t, out.Videos, 1)
	assert.Equal(t, "video/mp4", out.Videos[0].MIMEType)
	require.Len(t, out.Audios, 1)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "file:///tmp/report.txt", out.Files[0].URI)
	assert.Equal(t, "mem://blob", out.Files[1].URI)
}

func TestOutputFromResult_Nil(t *testing.T) {
	out := outputFromResult(nil)
	assert.Empty(t, out.Content)
	assert.Empty(t, out.Files)
}

func TestNewMCPDialer_UnsupportedTransport(t *testing.T) {
	dialer := NewMCPDialer(gatewayConfig("ws"), nil)
	_, err := dialer.Dial(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gateway transport")
}
