package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"toolagentd/internal/domain"
)

// Loader reads service configuration from an optional YAML file with
// environment overrides. Configuration is fixed at process start.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

type rawConfig struct {
	Gateway rawGatewayConfig `mapstructure:"gateway"`
	Catalog rawCatalogConfig `mapstructure:"catalog"`
	HTTP    rawHTTPConfig    `mapstructure:"http"`
	Logging rawLoggingConfig `mapstructure:"logging"`
}

type rawGatewayConfig struct {
	URL            string `mapstructure:"url"`
	Transport      string `mapstructure:"transport"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type rawCatalogConfig struct {
	StalenessSeconds int `mapstructure:"stalenessSeconds"`
}

type rawHTTPConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
}

type rawLoggingConfig struct {
	Level string `mapstructure:"level"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("gateway.url", domain.DefaultGatewayURL)
	v.SetDefault("gateway.transport", domain.DefaultGatewayTransport)
	v.SetDefault("gateway.timeoutSeconds", domain.DefaultGatewayTimeoutSeconds)
	v.SetDefault("catalog.stalenessSeconds", domain.DefaultStalenessSeconds)
	v.SetDefault("http.listenAddress", domain.DefaultHTTPListenAddress)
	v.SetDefault("logging.level", domain.DefaultLogLevel)

	v.SetEnvPrefix("TOOLAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// legacy environment names kept from the previous deployment
	_ = v.BindEnv("gateway.url", "TOOLAGENT_GATEWAY_URL", "MCP_GATEWAY_URL")
	_ = v.BindEnv("gateway.transport", "TOOLAGENT_GATEWAY_TRANSPORT", "MCP_TRANSPORT")
	_ = v.BindEnv("gateway.timeoutSeconds", "TOOLAGENT_GATEWAY_TIMEOUTSECONDS", "MCP_TIMEOUT_SECONDS")
	_ = v.BindEnv("logging.level", "TOOLAGENT_LOGGING_LEVEL", "LOG_LEVEL")

	return v
}

// Load reads configuration from path. An empty path means defaults
// plus environment only.
func (l *Loader) Load(path string) (domain.ServiceConfig, error) {
	v := newConfigViper()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.ServiceConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return domain.ServiceConfig{}, fmt.Errorf("parse config: %w", err)
		}
		l.logger.Debug("config file loaded", zap.String("path", path))
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return domain.ServiceConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(raw)
}

func normalize(raw rawConfig) (domain.ServiceConfig, error) {
	var errs []string

	transport := domain.GatewayTransport(strings.ToLower(strings.TrimSpace(raw.Gateway.Transport)))
	switch transport {
	case "":
		transport = domain.TransportStreamableHTTP
	case domain.TransportStreamableHTTP, domain.TransportSSE:
	default:
		errs = append(errs, fmt.Sprintf("gateway.transport: unsupported transport %q", raw.Gateway.Transport))
	}

	if strings.TrimSpace(raw.Gateway.URL) == "" {
		errs = append(errs, "gateway.url: address is required")
	}
	if raw.Gateway.TimeoutSeconds <= 0 {
		errs = append(errs, "gateway.timeoutSeconds: must be positive")
	}
	if raw.Catalog.StalenessSeconds <= 0 {
		errs = append(errs, "catalog.stalenessSeconds: must be positive")
	}
	if strings.TrimSpace(raw.HTTP.ListenAddress) == "" {
		errs = append(errs, "http.listenAddress: address is required")
	}
	if _, err := zapcore.ParseLevel(raw.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level: %v", err))
	}

	if len(errs) > 0 {
		return domain.ServiceConfig{}, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}

	return domain.ServiceConfig{
		Gateway: domain.GatewayConfig{
			URL:            strings.TrimSpace(raw.Gateway.URL),
			Transport:      transport,
			TimeoutSeconds: raw.Gateway.TimeoutSeconds,
		},
		Catalog: domain.CatalogConfig{
			StalenessSeconds: raw.Catalog.StalenessSeconds,
		},
		HTTP: domain.HTTPConfig{
			ListenAddress: strings.TrimSpace(raw.HTTP.ListenAddress),
		},
		Logging: domain.LoggingConfig{
			Level: raw.Logging.Level,
		},
	}, nil
}
