package dispatch

import (
	"context"
	"time"
)

// Level classifies a [Notice].
type Level uint8

const (
	LevelSuccess Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	default:
		return "error"
	}
}

// Notice is a user-facing message produced by the dispatcher.
type Notice struct {
	Level     Level
	Message   string
	RequestID string
	URL       string
}

// Notifier delivers notices to the user. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notice) {}

// Outcome is the classified result of one call.
type Outcome uint8

const (
	OutcomeSuccess Outcome = iota
	OutcomeEnvelopeError
	OutcomeUnauthorized
	OutcomeServerError
	OutcomeFailed
	OutcomeAborted
)

// Observer receives one callback per finished call.
type Observer interface {
	ObserveCall(outcome Outcome, download bool, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveCall(Outcome, bool, time.Duration) {}

// Session is the view of the session store the dispatcher needs.
type Session interface {
	Token() string
	Clear(ctx context.Context) error
}

type noSession struct{}

func (noSession) Token() string               { return "" }
func (noSession) Clear(context.Context) error { return nil }
