package permission

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Registry is the catalogue of permission codes a console knows about.
// Wildcard grants are expanded against it for display and auditing.
//
// Register all codes before calling [Registry.Freeze].
type Registry struct {
	mu     sync.RWMutex
	codes  map[string]struct{}
	frozen bool
}

// NewRegistry creates an empty, unfrozen [Registry].
func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]struct{})}
}

// Register adds code to the catalogue.
func (r *Registry) Register(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("registry frozen")
	}
	if code == "" {
		return errors.New("permission code cannot be empty")
	}
	if strings.Contains(code, Wildcard) {
		return errors.New("wildcard codes cannot be registered")
	}
	if _, exists := r.codes[code]; exists {
		return errors.New("permission already registered")
	}

	r.codes[code] = struct{}{}
	return nil
}

// Known reports whether code is registered.
func (r *Registry) Known(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[code]
	return ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered codes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// Expand returns, sorted, every registered code that s allows.
func (r *Registry) Expand(s Set) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.codes))
	for code := range r.codes {
		if s.Allows(code) {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// ConsoleRegistry returns a frozen registry holding the codes used by the
// system management pages.
func ConsoleRegistry() *Registry {
	r := NewRegistry()
	for _, resource := range []string{"user", "role", "menu", "dict"} {
		for _, action := range []string{ActionList, ActionCreate, ActionEdit, ActionDelete} {
			_ = r.Register(Code("system", resource, action))
		}
	}
	_ = r.Register(Code("system", "user", "status"))
	_ = r.Register(Code("system", "user", "password"))
	_ = r.Register(Code("system", "log", ActionList))
	r.Freeze()
	return r
}
