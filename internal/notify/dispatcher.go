package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MrEthical07/goConsole/dispatch"
)

// Config controls buffering.
type Config struct {
	BufferSize int
	// DropIfFull discards notices when the buffer is full instead of
	// blocking the caller.
	DropIfFull bool
}

type entry struct {
	ctx    context.Context
	notice dispatch.Notice
}

// Dispatcher forwards notices to a sink asynchronously. It implements
// [dispatch.Notifier].
type Dispatcher struct {
	cfg       Config
	sink      dispatch.Notifier
	ch        chan entry
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(cfg Config, sink dispatch.Notifier) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = dispatch.NotifierFunc(func(context.Context, dispatch.Notice) {})
	}

	d := &Dispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan entry, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.ch:
			d.sink.Notify(e.ctx, e.notice)
		case <-d.done:
			for {
				select {
				case e := <-d.ch:
					d.sink.Notify(e.ctx, e.notice)
				default:
					return
				}
			}
		}
	}
}

// Notify queues n. After Close it is a no-op.
func (d *Dispatcher) Notify(ctx context.Context, n dispatch.Notice) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e := entry{ctx: context.WithoutCancel(ctx), notice: n}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- e:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- e:
	case <-ctx.Done():
		d.dropped.Add(1)
	case <-d.done:
	}
}

// Close stops accepting notices and waits until the queued ones are
// delivered.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns how many notices were discarded.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
