package dispatch

import "context"

// Future is the pending result of a call started with [Go].
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	value  T
	err    error
}

// Go starts req in its own goroutine and returns immediately.
func Go[T any](ctx context.Context, d *Dispatcher, req Request) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.value, f.err = Send[T](ctx, d, req)
	}()
	return f
}

// Await blocks until the call finishes or ctx is done. Giving up on ctx
// does not cancel the call; use Cancel for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel aborts the call. Await then returns an error matching [ErrAborted]
// unless the call had already finished.
func (f *Future[T]) Cancel() {
	f.cancel()
}

// Done is closed when the call finishes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
