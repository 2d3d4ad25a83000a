package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps Redis transport failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Backend persists the encoded session.
//
// Load returns (nil, nil) when nothing is stored. ttl <= 0 means no expiry.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// MemoryBackend keeps the encoded session in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryBackend returns an empty [MemoryBackend].
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryBackend) Save(_ context.Context, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// RedisBackend stores the session under a single Redis key. Expiry is
// delegated to Redis key TTLs.
type RedisBackend struct {
	redis redis.UniversalClient
	key   string
}

// NewRedisBackend stores the session at "<prefix>:session:<name>".
func NewRedisBackend(client redis.UniversalClient, prefix, name string) *RedisBackend {
	if prefix == "" {
		prefix = "gc"
	}
	if name == "" {
		name = "default"
	}
	return &RedisBackend{redis: client, key: prefix + ":session:" + name}
}

// Key returns the Redis key holding the session.
func (r *RedisBackend) Key() string {
	return r.key
}

func (r *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

func (r *RedisBackend) Save(ctx context.Context, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.redis.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// FileBackend stores the session in a single file readable only by its
// owner. Expiry is enforced by [Store.Load] from the encoded ExpiresAt.
type FileBackend struct {
	path string
}

// NewFileBackend stores the session at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the session file location.
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return data, nil
}

func (f *FileBackend) Save(_ context.Context, data []byte, _ time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileBackend) Delete(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
