/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment variables,
including the running environment, the chat listener port, handshake and write bounds,
per-connection buffer sizes, and the HTTP gateway address.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort               = 12345
	DefaultHTTPHost           = "127.0.0.1"
	DefaultHTTPPort           = 12346
	DefaultHandshakeTimeout   = 30 * time.Second
	DefaultWriteTimeout       = 10 * time.Second
	DefaultMaxLineBytes       = 8192
	DefaultSendQueueSize      = 256
	DefaultMetricsLogInterval = 60 * time.Second
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	LogLevel    string

	// Chat Listener Settings
	Port             int
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	MaxLineBytes     int
	SendQueueSize    int

	// HTTP Gateway Settings (HTTPPort 0 disables the gateway)
	HTTPHost       string
	HTTPPort       int
	AllowedOrigins []string

	// Observability Settings (0 disables periodic metrics logging)
	MetricsLogInterval time.Duration
}

// Default returns the configuration used when no environment variable is set.
func Default() *AppConfig {
	return &AppConfig{
		Environment:        "development",
		Port:               DefaultPort,
		HandshakeTimeout:   DefaultHandshakeTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		MaxLineBytes:       DefaultMaxLineBytes,
		SendQueueSize:      DefaultSendQueueSize,
		HTTPHost:           DefaultHTTPHost,
		HTTPPort:           DefaultHTTPPort,
		AllowedOrigins:     []string{},
		MetricsLogInterval: DefaultMetricsLogInterval,
	}
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// ListenAddr returns the TCP address of the chat listener.
func (c *AppConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// HTTPAddr returns the gateway address, or "" when the gateway is disabled.
func (c *AppConfig) HTTPAddr() string {
	if c.HTTPPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := Default()

	// --- General Server Settings ---
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		cfg.Environment = env
	}
	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	// --- Chat Listener Settings ---
	port, err := intEnv("PORT", cfg.Port)
	if err != nil {
		return nil, err
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", port, 1024, 65535)
	}
	cfg.Port = port

	if cfg.HandshakeTimeout, err = durationEnv("HANDSHAKE_TIMEOUT", cfg.HandshakeTimeout); err != nil {
		return nil, err
	}
	if cfg.HandshakeTimeout <= 0 {
		return nil, fmt.Errorf("HANDSHAKE_TIMEOUT must be positive, got %s", cfg.HandshakeTimeout)
	}

	if cfg.WriteTimeout, err = durationEnv("WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout <= 0 {
		return nil, fmt.Errorf("WRITE_TIMEOUT must be positive, got %s", cfg.WriteTimeout)
	}

	if cfg.MaxLineBytes, err = intEnv("MAX_LINE_BYTES", cfg.MaxLineBytes); err != nil {
		return nil, err
	}
	if cfg.MaxLineBytes < 64 {
		return nil, fmt.Errorf("MAX_LINE_BYTES must be at least 64, got %d", cfg.MaxLineBytes)
	}

	if cfg.SendQueueSize, err = intEnv("SEND_QUEUE_SIZE", cfg.SendQueueSize); err != nil {
		return nil, err
	}
	if cfg.SendQueueSize < 1 {
		return nil, fmt.Errorf("SEND_QUEUE_SIZE must be positive, got %d", cfg.SendQueueSize)
	}

	// --- HTTP Gateway Settings ---
	if host, ok := os.LookupEnv("HTTP_HOST"); ok {
		cfg.HTTPHost = strings.TrimSpace(host)
	}

	httpPort, err := intEnv("HTTP_PORT", cfg.HTTPPort)
	if err != nil {
		return nil, err
	}
	if httpPort != 0 && (httpPort < 1024 || httpPort > 65535) {
		return nil, fmt.Errorf("HTTP_PORT %d is outside the recommended range (%d-%d)", httpPort, 1024, 65535)
	}
	if httpPort != 0 && httpPort == cfg.Port {
		return nil, fmt.Errorf("HTTP_PORT and PORT must differ (both %d)", httpPort)
	}
	cfg.HTTPPort = httpPort

	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	// --- Observability Settings ---
	if cfg.MetricsLogInterval, err = durationEnv("METRICS_LOG_INTERVAL", cfg.MetricsLogInterval); err != nil {
		return nil, err
	}
	if cfg.MetricsLogInterval < 0 {
		return nil, fmt.Errorf("METRICS_LOG_INTERVAL must not be negative, got %s", cfg.MetricsLogInterval)
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

// durationEnv accepts Go duration strings ("45s") and bare integers as seconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return d, nil
}
