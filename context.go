package goConsole

import (
	"context"

	"github.com/MrEthical07/goConsole/dispatch"
)

type silentContextKey struct{}
type errorMessageContextKey struct{}
type successMessageContextKey struct{}

// WithSilent suppresses every notice for service calls made with ctx. The
// 401 teardown still happens.
func WithSilent(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentContextKey{}, true)
}

// WithErrorMessage replaces the generic failure notice for service calls
// made with ctx.
func WithErrorMessage(ctx context.Context, message string) context.Context {
	return context.WithValue(ctx, errorMessageContextKey{}, message)
}

// WithSuccessMessage adds a success notice to service calls made with ctx.
func WithSuccessMessage(ctx context.Context, message string) context.Context {
	return context.WithValue(ctx, successMessageContextKey{}, message)
}

func applyCallOptions(ctx context.Context, req dispatch.Request) dispatch.Request {
	if ctx == nil {
		return req
	}
	if silent, _ := ctx.Value(silentContextKey{}).(bool); silent {
		req.Silent = true
	}
	if msg, _ := ctx.Value(errorMessageContextKey{}).(string); msg != "" {
		req.ErrorMessage = msg
	}
	if msg, _ := ctx.Value(successMessageContextKey{}).(string); msg != "" {
		req.SuccessMessage = msg
	}
	return req
}
