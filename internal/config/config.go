package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tejusbharadwaj/climatewidget/internal/scheduler"
)

// EnvPrefix prefixes environment overrides, e.g. CLIMATE_WIDGET_INTERVAL.
const EnvPrefix = "CLIMATE"

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Widget   WidgetConfig   `mapstructure:"widget"`
	Stream   StreamConfig   `mapstructure:"stream"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	GRPCPort       int     `mapstructure:"grpc_port"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// UpstreamConfig is the sensor API proxied at /v1/climate/latest.
type UpstreamConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WidgetConfig is the endpoint the widget polls and how often. A non-empty
// Schedule (cron expression) takes precedence over Interval.
type WidgetConfig struct {
	URL      string        `mapstructure:"url"`
	Interval time.Duration `mapstructure:"interval"`
	Schedule string        `mapstructure:"schedule"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StreamConfig is the camera websocket relayed at /v1/stream/ws.
type StreamConfig struct {
	CameraURL            string        `mapstructure:"camera_url"`
	MaxReconnectAttempts int           `mapstructure:"max_reconnect_attempts"`
	ReconnectDelay       time.Duration `mapstructure:"reconnect_delay"`
	FrameInterval        time.Duration `mapstructure:"frame_interval"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GRPCAddr returns the gRPC health listen address.
func (s ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort)
}

// Load reads configuration from file and environment variables.
//
// ${VAR} references in the file are expanded first, then CLIMATE_* variables
// override individual keys (CLIMATE_WIDGET_URL overrides widget.url). An
// empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// First unmarshal into a map to reject malformed YAML early
		var rawConfig map[string]interface{}
		if err := yaml.Unmarshal(data, &rawConfig); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
		}

		expandedData := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewReader([]byte(expandedData))); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid server.grpc_port: %d", c.Server.GRPCPort)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("invalid server.rate_limit: %v", c.Server.RateLimit)
	}
	if c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("invalid server.rate_limit_burst: %d", c.Server.RateLimitBurst)
	}
	if err := validateURL("upstream.url", c.Upstream.URL, "http", "https"); err != nil {
		return err
	}
	if err := validateURL("widget.url", c.Widget.URL, "http", "https"); err != nil {
		return err
	}
	if c.Widget.Interval < scheduler.MinInterval {
		return fmt.Errorf("invalid widget.interval: %s (minimum %s)", c.Widget.Interval, scheduler.MinInterval)
	}
	if c.Widget.Schedule != "" {
		if _, err := scheduler.ParseSpec(c.Widget.Schedule); err != nil {
			return fmt.Errorf("invalid widget.schedule: %w", err)
		}
	}
	if err := validateURL("stream.camera_url", c.Stream.CameraURL, "ws", "wss"); err != nil {
		return err
	}
	if c.Stream.MaxReconnectAttempts <= 0 {
		return fmt.Errorf("invalid stream.max_reconnect_attempts: %d", c.Stream.MaxReconnectAttempts)
	}
	if c.Stream.ReconnectDelay < 0 || c.Stream.FrameInterval < 0 {
		return fmt.Errorf("invalid stream delays: reconnect_delay=%s frame_interval=%s",
			c.Stream.ReconnectDelay, c.Stream.FrameInterval)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format %q (allowed: json, text)", c.Logging.Format)
	}
	return nil
}

func validateURL(key, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if !slices.Contains(schemes, u.Scheme) {
		return fmt.Errorf("invalid %s %q: scheme must be one of %s", key, raw, strings.Join(schemes, ", "))
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s %q: missing host", key, raw)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.rate_limit", 5.0)
	v.SetDefault("server.rate_limit_burst", 10)

	v.SetDefault("upstream.url", "http://192.168.1.29:8085/v1/liwaisi-iot/api/climate/latest")
	v.SetDefault("upstream.timeout", "30s")

	v.SetDefault("widget.url", "http://127.0.0.1:8000/v1/climate/latest")
	v.SetDefault("widget.interval", "60s")
	v.SetDefault("widget.schedule", "")
	v.SetDefault("widget.timeout", "30s")

	v.SetDefault("stream.camera_url", "ws://192.168.1.48/ws")
	v.SetDefault("stream.max_reconnect_attempts", 3)
	v.SetDefault("stream.reconnect_delay", "5s")
	v.SetDefault("stream.frame_interval", "33ms")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
