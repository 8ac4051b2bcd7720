package configs

import (
	"strings"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"ENVIRONMENT", "LOG_LEVEL", "PORT", "HANDSHAKE_TIMEOUT", "WRITE_TIMEOUT",
	"MAX_LINE_BYTES", "SEND_QUEUE_SIZE", "HTTP_HOST", "HTTP_PORT", "ALLOWED_ORIGINS",
	"METRICS_LOG_INTERVAL",
}

// clearEnv blanks every variable LoadConfig reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != DefaultPort || cfg.ListenAddr() != ":12345" {
		t.Errorf("Port = %d (%s), want %d", cfg.Port, cfg.ListenAddr(), DefaultPort)
	}
	if cfg.HandshakeTimeout != DefaultHandshakeTimeout {
		t.Errorf("HandshakeTimeout = %s", cfg.HandshakeTimeout)
	}
	if cfg.HTTPAddr() != "127.0.0.1:12346" {
		t.Errorf("HTTPAddr() = %q", cfg.HTTPAddr())
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development environment by default")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %q, want empty", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "2000")
	t.Setenv("HANDSHAKE_TIMEOUT", "45")
	t.Setenv("WRITE_TIMEOUT", "1500ms")
	t.Setenv("MAX_LINE_BYTES", "1024")
	t.Setenv("SEND_QUEUE_SIZE", "8")
	t.Setenv("HTTP_HOST", "0.0.0.0")
	t.Setenv("HTTP_PORT", "2001")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	t.Setenv("METRICS_LOG_INTERVAL", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("expected production environment")
	}
	if cfg.Port != 2000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.HandshakeTimeout != 45*time.Second {
		t.Errorf("HandshakeTimeout = %s, want 45s", cfg.HandshakeTimeout)
	}
	if cfg.WriteTimeout != 1500*time.Millisecond {
		t.Errorf("WriteTimeout = %s, want 1.5s", cfg.WriteTimeout)
	}
	if cfg.MaxLineBytes != 1024 || cfg.SendQueueSize != 8 {
		t.Errorf("MaxLineBytes/SendQueueSize = %d/%d", cfg.MaxLineBytes, cfg.SendQueueSize)
	}
	if cfg.HTTPAddr() != "0.0.0.0:2001" {
		t.Errorf("HTTPAddr() = %q", cfg.HTTPAddr())
	}
	if strings.Join(cfg.AllowedOrigins, "|") != "https://a.example.com|https://b.example.com" {
		t.Errorf("AllowedOrigins = %q", cfg.AllowedOrigins)
	}
	if cfg.MetricsLogInterval != 0 {
		t.Errorf("MetricsLogInterval = %s, want 0", cfg.MetricsLogInterval)
	}
}

func TestLoadConfigDisablesGateway(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr() != "" {
		t.Fatalf("HTTPAddr() = %q, want disabled", cfg.HTTPAddr())
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "non numeric port", key: "PORT", val: "chat"},
		{name: "privileged port", key: "PORT", val: "80"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "bad duration", key: "HANDSHAKE_TIMEOUT", val: "soon"},
		{name: "zero handshake timeout", key: "HANDSHAKE_TIMEOUT", val: "0"},
		{name: "negative write timeout", key: "WRITE_TIMEOUT", val: "-1s"},
		{name: "tiny line limit", key: "MAX_LINE_BYTES", val: "10"},
		{name: "empty send queue", key: "SEND_QUEUE_SIZE", val: "0"},
		{name: "gateway port out of range", key: "HTTP_PORT", val: "99"},
		{name: "gateway port equals chat port", key: "HTTP_PORT", val: "12345"},
		{name: "negative metrics interval", key: "METRICS_LOG_INTERVAL", val: "-5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected an error for %s=%q", tt.key, tt.val)
			}
		})
	}
}
