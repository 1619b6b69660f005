package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"toolagentd/internal/domain"
)

type healthResponse struct {
	Status           string  `json:"status"`
	Tools            int     `json:"tools"`
	LastRefreshEpoch float64 `json:"lastRefreshEpoch"`
	GatewayURL       string  `json:"gatewayUrl"`
}

type listToolsResponse struct {
	Tools     []domain.ToolDescriptor `json:"tools"`
	UpdatedAt float64                 `json:"updatedAt"`
}

type errorResponse struct {
	Error string           `json:"error"`
	Code  domain.ErrorCode `json:"code"`
}

// handleHealth never fails: it reports current cache state even when
// the remote backend is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.catalog.Current()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Tools:            len(snapshot.Tools),
		LastRefreshEpoch: epoch(snapshot.UpdatedAt),
		GatewayURL:       s.gatewayURL,
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.tools",
				"force must be a boolean", err))
			return
		}
		force = parsed
	}

	snapshot := s.catalog.Snapshot(r.Context(), force)
	tools := snapshot.Tools
	if tools == nil {
		tools = []domain.ToolDescriptor{}
	}
	writeJSON(w, http.StatusOK, listToolsResponse{
		Tools:     tools,
		UpdatedAt: epoch(snapshot.UpdatedAt),
	})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var payload domain.ToolCallRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		s.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.call",
			"request body is not valid JSON", err))
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		s.writeError(w, r, domain.E(domain.CodeInvalidArgument, "httpapi.call",
			"name is required", nil))
		return
	}

	result, err := s.invoker.Invoke(r.Context(), payload.Name, payload.Arguments)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	status := httpStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

// httpStatus maps the error taxonomy to stable status classes so a
// client can tell bad input, a missing tool, a degraded remote, and a
// crashed tool apart.
func httpStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func epoch(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / float64(time.Second)
}
