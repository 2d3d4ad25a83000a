package goConsole

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full client configuration. Start from [DefaultConfig] or
// [LoadConfig]; [Builder.Build] validates it.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Notify  NotifyConfig  `yaml:"notify"`
	Metrics MetricsConfig `yaml:"metrics"`
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig describes the backend.
type APIConfig struct {
	// BaseURL is prefixed to every endpoint path, e.g. "http://localhost:8007".
	BaseURL string `yaml:"base_url"`
	// Headers are sent with every call.
	Headers   map[string]string `yaml:"headers"`
	UserAgent string            `yaml:"user_agent"`
	// DownloadDir receives exported files.
	DownloadDir string `yaml:"download_dir"`
	// Timeout applies to the default HTTP client only. Zero means none.
	Timeout time.Duration `yaml:"timeout"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionBackend selects where the session is persisted.
type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionRedis  SessionBackend = "redis"
	SessionFile   SessionBackend = "file"
)

// SessionConfig controls session persistence.
type SessionConfig struct {
	Backend SessionBackend `yaml:"backend"`
	// FilePath is used by the file backend.
	FilePath string `yaml:"file_path"`
	// RedisAddr is only read by callers that build their own client from
	// config, such as the CLI.
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	RedisKey    string `yaml:"redis_key"`
	// DefaultTTL bounds sessions whose token carries no exp claim. Zero
	// keeps them until cleared.
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

/*
====================================
NOTIFY CONFIG
====================================
*/

// NotifyConfig controls notice delivery.
type NotifyConfig struct {
	// Async delivers notices on a background goroutine.
	Async      bool `yaml:"async"`
	BufferSize int  `yaml:"buffer_size"`
	DropIfFull bool `yaml:"drop_if_full"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls in-process metrics.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

// DefaultConfig returns the defaults used by [New].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8007",
			UserAgent:   "goconsole",
			DownloadDir: ".",
		},
		Session: SessionConfig{
			Backend:     SessionMemory,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "gc",
			RedisKey:    "default",
			DefaultTTL:  0,
		},
		Notify: NotifyConfig{
			Async:      false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.API.Headers != nil {
		out.API.Headers = make(map[string]string, len(cfg.API.Headers))
		for k, v := range cfg.API.Headers {
			out.API.Headers[k] = v
		}
	}
	return out
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the file
// keep their default values. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// EnvPrefix is prepended to the keys [Config.ApplyEnv] reads.
const EnvPrefix = "GOCONSOLE"

// Environment variables read by [Config.ApplyEnv].
const (
	EnvBaseURL        = "GOCONSOLE_BASE_URL"
	EnvDownloadDir    = "GOCONSOLE_DOWNLOAD_DIR"
	EnvSessionBackend = "GOCONSOLE_SESSION_BACKEND"
	EnvSessionFile    = "GOCONSOLE_SESSION_FILE"
	EnvRedisAddr      = "GOCONSOLE_REDIS_ADDR"
	EnvTimeout        = "GOCONSOLE_TIMEOUT"
	EnvMetrics        = "GOCONSOLE_METRICS"
)

// ApplyEnv overrides fields from non-empty GOCONSOLE_* environment
// variables.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if v.IsSet("base_url") {
		c.API.BaseURL = v.GetString("base_url")
	}
	if v.IsSet("download_dir") {
		c.API.DownloadDir = v.GetString("download_dir")
	}
	if v.IsSet("session_backend") {
		c.Session.Backend = SessionBackend(strings.ToLower(v.GetString("session_backend")))
	}
	if v.IsSet("session_file") {
		c.Session.FilePath = v.GetString("session_file")
	}
	if v.IsSet("redis_addr") {
		c.Session.RedisAddr = v.GetString("redis_addr")
	}
	// cast swallows parse errors, so durations and booleans are parsed here.
	if v.IsSet("timeout") {
		d, err := time.ParseDuration(v.GetString("timeout"))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v.IsSet("metrics") {
		b, err := strconv.ParseBool(v.GetString("metrics"))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMetrics, err)
		}
		c.Metrics.Enabled = b
	}
	return nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// API
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API BaseURL must be set")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("API BaseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API BaseURL must use http or https")
	}
	if u.Host == "" {
		return errors.New("API BaseURL must include a host")
	}
	if c.API.Timeout < 0 {
		return errors.New("API Timeout must be >= 0")
	}
	for k := range c.API.Headers {
		if strings.TrimSpace(k) == "" {
			return errors.New("API Headers must not contain blank names")
		}
	}

	// Session
	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	case SessionFile:
		if strings.TrimSpace(c.Session.FilePath) == "" {
			return errors.New("Session FilePath must be set for the file backend")
		}
	default:
		return fmt.Errorf("Session Backend must be one of memory, redis, file; got %q", c.Session.Backend)
	}
	if c.Session.DefaultTTL < 0 {
		return errors.New("Session DefaultTTL must be >= 0")
	}

	// Notify
	if c.Notify.Async && c.Notify.BufferSize <= 0 {
		return errors.New("Notify BufferSize must be > 0 when Async is enabled")
	}

	return nil
}
