package goConsole

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goConsole/jwt"
	"github.com/MrEthical07/goConsole/session"
)

func TestBuilderSingleUse(t *testing.T) {
	b := New()
	c, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer c.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected invalid config to fail the build")
	}
}

func TestBuilderRedisBackendRequiresClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.Backend = SessionRedis
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected error without redis client")
	}
}

func TestBuilderRedisBackendPersistsLogin(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	_, srv := newFakeConsole(t)
	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.Session.Backend = SessionRedis
	cfg.Session.RedisPrefix = "console"
	cfg.Session.RedisKey = "ops"

	c, err := New().WithConfig(cfg).WithRedis(rdb).WithHTTPClient(srv.Client()).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()

	if _, err := c.Auth().Login(context.Background(), LoginRequest{Username: "admin", Password: "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	key := session.NewRedisBackend(rdb, "console", "ops").Key()
	if !mr.Exists(key) {
		t.Fatalf("expected session persisted at %s", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected ttl from token expiry, got %v", ttl)
	}

	if err := c.Auth().Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("expected persisted session deleted on logout")
	}
}

func TestBuilderTokenVerifierGuardsRestore(t *testing.T) {
	f, srv := newFakeConsole(t)
	backend := session.NewMemoryBackend()

	c := newTestClient(t, srv, func(b *Builder) { b.WithBackend(backend) })
	if _, err := c.Auth().Login(context.Background(), LoginRequest{Username: "admin", Password: "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	restored := newTestClient(t, srv, func(b *Builder) {
		b.WithBackend(backend).WithTokenVerifier(f.tokens)
	})
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored.Session().Authenticated() {
		t.Fatal("expected token signed by the backend key to be restored")
	}

	other, err := jwt.NewManager(jwt.Config{AccessTTL: time.Hour, PrivateKey: []byte("some-other-secret")})
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	rejected := newTestClient(t, srv, func(b *Builder) {
		b.WithBackend(backend).WithTokenVerifier(other)
	})
	if err := rejected.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if rejected.Session().Authenticated() {
		t.Fatal("expected token with a foreign signature to be discarded")
	}
}

func TestBuilderCopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Headers = map[string]string{"X-Tenant": "a"}
	c, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer c.Close()

	cfg.API.Headers["X-Tenant"] = "b"
	if got := c.Config().API.Headers["X-Tenant"]; got != "a" {
		t.Fatalf("client config must not alias caller maps, got %q", got)
	}
}
