package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goConsole/jwt"
	"github.com/MrEthical07/goConsole/permission"
)

var (
	// ErrEmptyToken is returned when a login carries no token.
	ErrEmptyToken = errors.New("empty token")
	// ErrNoSession is returned by user mutations while no token is held.
	ErrNoSession = errors.New("no active session")
	// ErrNoUser is returned by UpdateAvatar while no user record is held.
	ErrNoUser = errors.New("no user record")
	// ErrStoreClosed is returned by mutations after Close.
	ErrStoreClosed = errors.New("session store closed")
)

// TokenVerifier checks the signature of a restored token. [jwt.Manager]
// satisfies it.
type TokenVerifier interface {
	Verify(token string) (*jwt.AccessClaims, error)
}

// Store is the process-scoped holder of the current [Session].
//
// Mutations update the in-memory copy before returning, so subsequent reads
// observe them immediately, and then write through to the [Backend]. A
// backend failure is returned but does not roll back the in-memory state.
// Store is safe for concurrent use.
type Store struct {
	backend    Backend
	defaultTTL time.Duration
	now        func() time.Time
	verifier   TokenVerifier

	mu      sync.RWMutex
	current Session
	perms   permission.Set
	closed  bool

	onClearMu sync.Mutex
	onClear   []func()
}

// NewStore creates an empty [Store]. defaultTTL bounds persisted sessions
// whose token carries no exp claim; zero disables expiry for them.
func NewStore(backend Backend, defaultTTL time.Duration) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{
		backend:    backend,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// SetVerifier makes Load discard persisted tokens that v rejects. Call it
// before Load.
func (s *Store) SetVerifier(v TokenVerifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = v
}

// Load restores the persisted session. A stale, undecodable or, with a
// verifier set, unverifiable copy is deleted and the store stays empty.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 {
		s.set(Session{})
		return nil
	}

	sess, err := Decode(data)
	if err != nil || !sess.Authenticated() || s.expired(sess) || !s.verified(sess.Token) {
		s.set(Session{})
		if delErr := s.backend.Delete(ctx); delErr != nil {
			return fmt.Errorf("discard stale session: %w", delErr)
		}
		return nil
	}

	s.set(*sess)
	return nil
}

// SetOnLogin replaces the session with token and user.
func (s *Store) SetOnLogin(ctx context.Context, token string, user *UserInfo) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.mutate(ctx, func(cur *Session) error {
		cur.Token = token
		cur.User = user.Clone()
		return nil
	})
}

// UpdateToken swaps the access token, keeping the user record. An empty
// token clears the session.
func (s *Store) UpdateToken(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	return s.mutate(ctx, func(cur *Session) error {
		cur.Token = token
		return nil
	})
}

// UpdateAvatar merges avatarURL into the current user record.
func (s *Store) UpdateAvatar(ctx context.Context, avatarURL string) error {
	return s.mutate(ctx, func(cur *Session) error {
		if cur.User == nil {
			return ErrNoUser
		}
		cur.User.AvatarURL = avatarURL
		return nil
	})
}

// UpdateUserInfo replaces the current user record.
func (s *Store) UpdateUserInfo(ctx context.Context, user *UserInfo) error {
	return s.mutate(ctx, func(cur *Session) error {
		if !cur.Authenticated() {
			return ErrNoSession
		}
		cur.User = user.Clone()
		return nil
	})
}

// Clear drops the token and user. The in-memory state is always cleared,
// even after Close or when the backend fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = Session{}
	s.perms = permission.Set{}
	s.mu.Unlock()

	s.fireOnClear()

	if err := s.backend.Delete(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// OnClear registers fn to run after every Clear.
func (s *Store) OnClear(fn func()) {
	s.onClearMu.Lock()
	defer s.onClearMu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Token returns the current access token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns a copy of the current user record, or nil.
func (s *Store) User() *UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User.Clone()
}

// Permissions returns the granted permission set of the current user.
func (s *Store) Permissions() permission.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perms
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// Close stops further mutations other than Clear. The persisted copy is
// kept.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) mutate(ctx context.Context, fn func(*Session) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	next := s.current.clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.SchemaVersion = CurrentSchemaVersion
	next.ExpiresAt = s.expiryFor(next.Token)
	s.current = next
	s.perms = permissionsOf(next.User)
	persisted := next.clone()
	s.mu.Unlock()

	return s.persist(ctx, &persisted)
}

func (s *Store) persist(ctx context.Context, sess *Session) error {
	data, err := Encode(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var ttl time.Duration
	if sess.ExpiresAt > 0 {
		ttl = time.Unix(sess.ExpiresAt, 0).Sub(s.now())
		if ttl <= 0 {
			return s.backend.Delete(ctx)
		}
	}
	if err := s.backend.Save(ctx, data, ttl); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) expiryFor(token string) int64 {
	if exp, ok := jwt.ExpiresAt(token); ok {
		return exp.Unix()
	}
	if s.defaultTTL > 0 {
		return s.now().Add(s.defaultTTL).Unix()
	}
	return 0
}

func (s *Store) expired(sess *Session) bool {
	if exp, ok := jwt.ExpiresAt(sess.Token); ok && !exp.After(s.now()) {
		return true
	}
	return sess.ExpiresAt > 0 && sess.ExpiresAt <= s.now().Unix()
}

func (s *Store) verified(token string) bool {
	s.mu.RLock()
	v := s.verifier
	s.mu.RUnlock()
	if v == nil {
		return true
	}
	_, err := v.Verify(token)
	return err == nil
}

func (s *Store) set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.perms = permissionsOf(sess.User)
}

func (s *Store) fireOnClear() {
	s.onClearMu.Lock()
	hooks := append([]func(){}, s.onClear...)
	s.onClearMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func permissionsOf(u *UserInfo) permission.Set {
	if u == nil {
		return permission.Set{}
	}
	return permission.NewSet(u.Permissions)
}
