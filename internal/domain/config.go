package domain

// GatewayTransport selects how the gateway connection is established.
type GatewayTransport string

const (
	TransportStreamableHTTP GatewayTransport = "streamable-http"
	TransportSSE            GatewayTransport = "sse"
)

// ServiceConfig is the full process configuration. It is loaded once
// at startup and never re-read per request.
type ServiceConfig struct {
	Gateway GatewayConfig
	Catalog CatalogConfig
	HTTP    HTTPConfig
	Logging LoggingConfig
}

type GatewayConfig struct {
	URL            string
	Transport      GatewayTransport
	TimeoutSeconds int
}

type CatalogConfig struct {
	StalenessSeconds int
}

type HTTPConfig struct {
	ListenAddress string
}

type LoggingConfig struct {
	Level string
}
