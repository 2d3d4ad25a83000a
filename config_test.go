package goConsole

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "https base url",
			mutate:    func(c *Config) { c.API.BaseURL = "https://console.example.com" },
			wantValid: true,
		},
		{
			name:      "empty base url",
			mutate:    func(c *Config) { c.API.BaseURL = "  " },
			wantValid: false,
		},
		{
			name:      "base url without scheme",
			mutate:    func(c *Config) { c.API.BaseURL = "console.example.com" },
			wantValid: false,
		},
		{
			name:      "base url ftp",
			mutate:    func(c *Config) { c.API.BaseURL = "ftp://console.example.com" },
			wantValid: false,
		},
		{
			name:      "negative timeout",
			mutate:    func(c *Config) { c.API.Timeout = -time.Second },
			wantValid: false,
		},
		{
			name:      "blank header name",
			mutate:    func(c *Config) { c.API.Headers = map[string]string{" ": "x"} },
			wantValid: false,
		},
		{
			name: "file backend with path",
			mutate: func(c *Config) {
				c.Session.Backend = SessionFile
				c.Session.FilePath = "/tmp/session"
			},
			wantValid: true,
		},
		{
			name:      "file backend without path",
			mutate:    func(c *Config) { c.Session.Backend = SessionFile },
			wantValid: false,
		},
		{
			name:      "redis backend",
			mutate:    func(c *Config) { c.Session.Backend = SessionRedis },
			wantValid: true,
		},
		{
			name:      "unknown backend",
			mutate:    func(c *Config) { c.Session.Backend = "etcd" },
			wantValid: false,
		},
		{
			name:      "negative default ttl",
			mutate:    func(c *Config) { c.Session.DefaultTTL = -time.Minute },
			wantValid: false,
		},
		{
			name: "async notify without buffer",
			mutate: func(c *Config) {
				c.Notify.Async = true
				c.Notify.BufferSize = 0
			},
			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goconsole.yaml")
	data := `
api:
  base_url: https://console.example.com
  headers:
    X-Tenant: acme
  timeout: 15s
session:
  backend: file
  file_path: /var/lib/goconsole/session
  default_ttl: 12h
notify:
  async: true
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://console.example.com" || cfg.API.Headers["X-Tenant"] != "acme" {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.API.Timeout != 15*time.Second || cfg.Session.DefaultTTL != 12*time.Hour {
		t.Fatalf("durations not parsed: %+v %+v", cfg.API, cfg.Session)
	}
	if cfg.Session.Backend != SessionFile || cfg.Session.FilePath != "/var/lib/goconsole/session" {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.API.UserAgent != "goconsole" || cfg.Session.RedisPrefix != "gc" || cfg.Notify.BufferSize != 64 {
		t.Fatal("keys absent from the file must keep defaults")
	}
	if !cfg.Notify.Async {
		t.Fatal("expected async notify")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("api: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("session:\n  backend: file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(invalid)
	if err == nil || !strings.Contains(err.Error(), "FilePath") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://env.example.com")
	t.Setenv(EnvSessionBackend, "REDIS")
	t.Setenv(EnvRedisAddr, "redis:6379")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvMetrics, "true")
	t.Setenv(EnvDownloadDir, "")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" || cfg.Session.Backend != SessionRedis || cfg.Session.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.API.Timeout != 5*time.Second || !cfg.Metrics.Enabled {
		t.Fatalf("unexpected parsed overrides %+v", cfg)
	}
	if cfg.API.DownloadDir != "." {
		t.Fatal("empty variables must not change the config")
	}

	t.Setenv(EnvTimeout, "soon")
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}
