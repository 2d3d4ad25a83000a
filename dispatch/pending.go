package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Pending is the set of in-flight cancellable calls, keyed by handle.
type Pending struct {
	mu    sync.Mutex
	calls map[string]context.CancelFunc
}

// NewPending returns an empty set.
func NewPending() *Pending {
	return &Pending{calls: make(map[string]context.CancelFunc)}
}

// Register derives a cancellable context from ctx and records it under a
// fresh handle. release must be called exactly once when the call ends; it
// deregisters the handle and releases the context.
func (p *Pending) Register(ctx context.Context) (callCtx context.Context, handle string, release func()) {
	callCtx, cancel := context.WithCancel(ctx)
	handle = uuid.NewString()

	p.mu.Lock()
	p.calls[handle] = cancel
	p.mu.Unlock()

	var once sync.Once
	return callCtx, handle, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.calls, handle)
			p.mu.Unlock()
			cancel()
		})
	}
}

// Cancel aborts the call registered under handle. It reports whether the
// handle was pending.
func (p *Pending) Cancel(handle string) bool {
	p.mu.Lock()
	cancel, ok := p.calls[handle]
	p.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// CancelAll aborts every pending call except the one registered under
// except, and returns how many were cancelled. Cancelled calls deregister
// themselves as they unwind.
func (p *Pending) CancelAll(except string) int {
	p.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(p.calls))
	for handle, cancel := range p.calls {
		if handle == except {
			continue
		}
		cancels = append(cancels, cancel)
	}
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels)
}

// Len returns the number of pending calls.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
