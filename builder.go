package goConsole

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrEthical07/goConsole/dispatch"
	"github.com/MrEthical07/goConsole/internal/notify"
	"github.com/MrEthical07/goConsole/jwt"
	"github.com/MrEthical07/goConsole/session"
	"github.com/redis/go-redis/v9"
)

// Builder collects configuration and collaborators for a [Client]. A
// Builder can be built once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	httpClient *http.Client
	notifier   dispatch.Notifier
	backend    session.Backend
	logger     *slog.Logger
	verifier   *jwt.Manager

	built bool
}

// New returns a Builder holding [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client used by the redis session backend.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient replaces the default client. Timeouts, proxies and TLS are
// configured there.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNotifier sets where user-facing notices go. The default logs them.
func (b *Builder) WithNotifier(n dispatch.Notifier) *Builder {
	b.notifier = n
	return b
}

// WithBackend overrides the session backend selected by Config.Session.
func (b *Builder) WithBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithTokenVerifier makes [Client.Restore] drop persisted tokens whose
// signature m does not accept. Useful when the session backend is shared.
func (b *Builder) WithTokenVerifier(m *jwt.Manager) *Builder {
	b.verifier = m
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Client. It performs
// no I/O; call [Client.Restore] to load a persisted session.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// -------- SESSION STORE --------
	backend := b.backend
	if backend == nil {
		switch cfg.Session.Backend {
		case SessionRedis:
			if b.redis == nil {
				return nil, errors.New("redis session backend requires a redis client")
			}
			backend = session.NewRedisBackend(b.redis, cfg.Session.RedisPrefix, cfg.Session.RedisKey)
		case SessionFile:
			backend = session.NewFileBackend(cfg.Session.FilePath)
		default:
			backend = session.NewMemoryBackend()
		}
	}

	metrics := NewMetrics(cfg.Metrics)
	store := session.NewStore(backend, cfg.Session.DefaultTTL)
	store.OnClear(func() { metrics.Inc(MetricSessionCleared) })
	if b.verifier != nil {
		store.SetVerifier(b.verifier)
	}

	// -------- NOTIFIER --------
	var notifier dispatch.Notifier = NewLogNotifier(logger)
	if b.notifier != nil {
		notifier = b.notifier
	}
	var async *notify.Dispatcher
	if cfg.Notify.Async {
		async = notify.NewDispatcher(notify.Config{
			BufferSize: cfg.Notify.BufferSize,
			DropIfFull: cfg.Notify.DropIfFull,
		}, notifier)
		notifier = async
	}

	// -------- DISPATCHER --------
	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.Timeout}
	}

	d := dispatch.New(dispatch.Config{
		BaseURL:   cfg.API.BaseURL,
		Headers:   cfg.API.Headers,
		UserAgent: cfg.API.UserAgent,
	}, dispatch.Deps{
		HTTPClient: httpClient,
		Session:    store,
		Notifier:   notifier,
		Observer:   metrics,
		Logger:     logger,
	})

	b.built = true

	return &Client{
		config:     cfg,
		store:      store,
		dispatcher: d,
		notify:     async,
		metrics:    metrics,
		logger:     logger,
	}, nil
}
