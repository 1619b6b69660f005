package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldTool       = "tool"
	FieldOrigin     = "origin"
	FieldDurationMs = "duration_ms"
	FieldRequestID  = "request_id"
)

const (
	EventConnectFailure  = "connect_failure"
	EventPingFailure     = "ping_failure"
	EventDispatchError   = "dispatch_error"
	EventCatalogRefresh  = "catalog_refresh"
	EventCatalogDegraded = "catalog_degraded"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func ToolField(name string) zap.Field {
	return zap.String(FieldTool, name)
}

func OriginField(origin string) zap.Field {
	return zap.String(FieldOrigin, origin)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}
