package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "text",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      10 * 1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*Config)
		expectError   bool
		expectedError string
	}{
		{
			name:        "valid config",
			modify:      func(*Config) {},
			expectError: false,
		},
		{
			name:          "zero AI timeout",
			modify:        func(c *Config) { c.AI.Timeout = 0 },
			expectError:   true,
			expectedError: "AI timeout must be positive",
		},
		{
			name:          "missing server port",
			modify:        func(c *Config) { c.Server.Port = "" },
			expectError:   true,
			expectedError: "server port is required",
		},
		{
			name:          "unsupported default format",
			modify:        func(c *Config) { c.App.DefaultFormat = "xml" },
			expectError:   true,
			expectedError: "invalid default format",
		},
		{
			name: "TLS enabled without cert",
			modify: func(c *Config) {
				c.Server.TLS.Enabled = true
				c.Server.TLS.KeyFile = "key.pem"
			},
			expectError:   true,
			expectedError: "TLS certificate and key files are required",
		},
		{
			name: "TLS with bad min version",
			modify: func(c *Config) {
				c.Server.TLS.Enabled = true
				c.Server.TLS.CertFile = "cert.pem"
				c.Server.TLS.KeyFile = "key.pem"
				c.Server.TLS.MinVersion = "1.1"
			},
			expectError:   true,
			expectedError: "invalid TLS minVersion",
		},
		{
			name: "TLS with valid min version",
			modify: func(c *Config) {
				c.Server.TLS.Enabled = true
				c.Server.TLS.CertFile = "cert.pem"
				c.Server.TLS.KeyFile = "key.pem"
				c.Server.TLS.MinVersion = "1.3"
			},
			expectError: false,
		},
		{
			name: "storage enabled without path",
			modify: func(c *Config) {
				c.Storage.Enabled = true
			},
			expectError:   true,
			expectedError: "storage path is required",
		},
		{
			name: "storage enabled with path",
			modify: func(c *Config) {
				c.Storage.Enabled = true
				c.Storage.Path = "analyses.db"
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.expectedError)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyFallbacksAPIKeys(t *testing.T) {
	t.Setenv("RESUMESCORE_SERVER_APIKEYS", "key-one, key-two ,key-three")

	cfg := validConfig()
	cfg.applyFallbacks()

	want := []string{"key-one", "key-two", "key-three"}
	if len(cfg.Server.APIKeys) != len(want) {
		t.Fatalf("APIKeys = %v, want %v", cfg.Server.APIKeys, want)
	}
	for i, key := range want {
		if cfg.Server.APIKeys[i] != key {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Server.APIKeys[i], key)
		}
	}
}

func TestApplyFallbacksAPIKeysNotOverridden(t *testing.T) {
	t.Setenv("RESUMESCORE_SERVER_APIKEYS", "env-key")

	cfg := validConfig()
	cfg.Server.APIKeys = []string{"config-key"}
	cfg.applyFallbacks()

	if len(cfg.Server.APIKeys) != 1 || cfg.Server.APIKeys[0] != "config-key" {
		t.Errorf("APIKeys = %v, config value should win over environment", cfg.Server.APIKeys)
	}
}

func TestApplyFallbacksGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg := validConfig()
	cfg.applyFallbacks()

	if cfg.AI.APIKey != "legacy-key" {
		t.Errorf("AI.APIKey = %q, want legacy-key", cfg.AI.APIKey)
	}

	cfg2 := validConfig()
	cfg2.AI.APIKey = "configured-key"
	cfg2.applyFallbacks()

	if cfg2.AI.APIKey != "configured-key" {
		t.Errorf("AI.APIKey = %q, configured value should win", cfg2.AI.APIKey)
	}
}

func TestApplyFallbacksTLSMinVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Server.TLS.Enabled = true
	cfg.applyFallbacks()

	if cfg.Server.TLS.MinVersion != "1.2" {
		t.Errorf("TLS.MinVersion = %q, want default 1.2", cfg.Server.TLS.MinVersion)
	}

	cfg2 := validConfig()
	cfg2.applyFallbacks()
	if cfg2.Server.TLS.MinVersion != "" {
		t.Errorf("TLS.MinVersion = %q, should stay empty when TLS disabled", cfg2.Server.TLS.MinVersion)
	}
}

func TestApplyFallbacksConsoleOutput(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "debug"
	cfg.applyFallbacks()

	if !cfg.Observability.ConsoleOutput {
		t.Error("debug log level should enable console observability output")
	}
}

func TestApplyFallbacksServiceInstance(t *testing.T) {
	cfg := validConfig()
	cfg.Observability.ServiceName = "resumescore"
	cfg.applyFallbacks()

	if cfg.Observability.ServiceInstance == "" {
		t.Error("ServiceInstance should be derived when unset")
	}
	if !strings.HasPrefix(cfg.Observability.ServiceInstance, "resumescore-") {
		t.Errorf("ServiceInstance = %q, want resumescore- prefix", cfg.Observability.ServiceInstance)
	}
}
