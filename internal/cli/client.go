package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/dispatch"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// sessionFileName is created under the user config directory when no
// session file is configured.
const sessionFileName = "goconsole/session"

// loadConfig resolves configuration in order: defaults, --config file,
// GOCONSOLE_* environment, then flags. A memory session backend becomes a
// file backend since nothing would survive the process otherwise.
func loadConfig(opts *RootOptions) (goConsole.Config, error) {
	cfg := goConsole.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := goConsole.LoadConfig(opts.ConfigPath)
		if err != nil {
			return goConsole.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return goConsole.Config{}, err
	}
	if opts.BaseURL != "" {
		cfg.API.BaseURL = opts.BaseURL
	}

	if cfg.Session.Backend == goConsole.SessionMemory {
		cfg.Session.Backend = goConsole.SessionFile
	}
	if cfg.Session.Backend == goConsole.SessionFile && cfg.Session.FilePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return goConsole.Config{}, fmt.Errorf("locate session file: %w", err)
		}
		cfg.Session.FilePath = filepath.Join(dir, sessionFileName)
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// noticePrinter shows notices on w, one per line.
func noticePrinter(w io.Writer) dispatch.Notifier {
	return dispatch.NotifierFunc(func(_ context.Context, n dispatch.Notice) {
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	})
}

// openClient builds a client for one command and restores the persisted
// session. The returned func releases it.
func openClient(cmd *cobra.Command, opts *RootOptions) (*goConsole.Client, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	b := goConsole.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithNotifier(noticePrinter(cmd.ErrOrStderr()))

	var rdb redis.UniversalClient
	if cfg.Session.Backend == goConsole.SessionRedis {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{cfg.Session.RedisAddr},
		})
		b = b.WithRedis(rdb)
	}

	client, err := b.Build()
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}

	release := func() {
		_ = client.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	if err := client.Restore(cmd.Context()); err != nil {
		logger.Warn("session restore failed", "error", err)
	}
	return client, release, nil
}

// withClient runs fn with a client that is released afterwards.
func withClient(cmd *cobra.Command, opts *RootOptions, fn func(*goConsole.Client) error) error {
	client, release, err := openClient(cmd, opts)
	if err != nil {
		return err
	}
	defer release()
	return fn(client)
}
