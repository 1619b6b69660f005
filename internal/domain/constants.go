package domain

const (
	DefaultGatewayURL            = "http://mcp-gateway:8080"
	DefaultGatewayTransport      = string(TransportStreamableHTTP)
	DefaultGatewayTimeoutSeconds = 15
	DefaultStalenessSeconds      = 60
	DefaultHTTPListenAddress     = "0.0.0.0:8000"
	DefaultLogLevel              = "info"
)
