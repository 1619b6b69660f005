package router

import "toolagentd/internal/domain"

// Normalize maps a backend result into the shared response shape. The
// textual content is carried verbatim; attachment categories present
// and non-empty contribute only their count under a same-named
// metadata key, absent categories contribute nothing.
func Normalize(name string, origin domain.ToolOrigin, out domain.ToolOutput) domain.ToolCallResult {
	metadata := map[string]any{}
	if n := len(out.Images); n > 0 {
		metadata["images"] = n
	}
	if n := len(out.Videos); n > 0 {
		metadata["videos"] = n
	}
	if n := len(out.Audios); n > 0 {
		metadata["audios"] = n
	}
	if n := len(out.Files); n > 0 {
		metadata["files"] = n
	}
	return domain.ToolCallResult{
		Name:     name,
		Content:  out.Content,
		Origin:   origin,
		Metadata: metadata,
	}
}
