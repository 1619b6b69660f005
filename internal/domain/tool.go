package domain

import "time"

// ToolOrigin identifies which backend serves a tool.
type ToolOrigin string

const (
	OriginLocal ToolOrigin = "local"
	OriginMCP   ToolOrigin = "mcp"
)

// ToolDescriptor describes a callable tool in the merged catalog.
// Name is the lookup key; a local and a remote tool may share a name,
// in which case the local one shadows the remote one.
type ToolDescriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	InputSchema any        `json:"parameters"`
	Origin      ToolOrigin `json:"origin"`
}

// ToolCallRequest is an invocation request. Arguments default to an
// empty mapping when omitted.
type ToolCallRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCallResult is the normalized response shape shared by both
// backends. Metadata is sparse: only attachment categories that were
// present on the backend result contribute a key.
type ToolCallResult struct {
	Name     string         `json:"name"`
	Content  string         `json:"content"`
	Origin   ToolOrigin     `json:"origin"`
	Metadata map[string]any `json:"metadata"`
}

// Attachment is a non-text artifact produced by a tool invocation.
type Attachment struct {
	MIMEType string
	Data     []byte
	URI      string
}

// ToolOutput is the raw result of a tool handler before normalization.
type ToolOutput struct {
	Content string
	Images  []Attachment
	Videos  []Attachment
	Audios  []Attachment
	Files   []Attachment
}

// CatalogSnapshot is an immutable merged tool listing. Snapshots are
// replaced wholesale on refresh, never mutated in place.
type CatalogSnapshot struct {
	Tools     []ToolDescriptor `json:"tools"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// DefaultInputSchema is the schema reported for tools that declare none.
func DefaultInputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
