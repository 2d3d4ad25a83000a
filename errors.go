package goConsole

import (
	"errors"

	"github.com/MrEthical07/goConsole/dispatch"
	"github.com/MrEthical07/goConsole/session"
)

var (
	// ErrAborted marks a call that was cancelled, either by its caller or by
	// a session teardown.
	ErrAborted = dispatch.ErrAborted
	// ErrUnauthorized marks a 401 response. The session is already cleared
	// when a caller sees it.
	ErrUnauthorized = dispatch.ErrUnauthorized
	// ErrServer marks a 5xx response.
	ErrServer = dispatch.ErrServer
	// ErrRequestFailed marks any other failed call.
	ErrRequestFailed = dispatch.ErrRequestFailed

	ErrNoSession  = session.ErrNoSession
	ErrNoUser     = session.ErrNoUser
	ErrEmptyToken = session.ErrEmptyToken

	// ErrClientClosed is returned by services after [Client.Close].
	ErrClientClosed = errors.New("client closed")
	// ErrInvalidID is returned for non-positive record ids.
	ErrInvalidID = errors.New("id must be positive")

	ErrAvatarEmpty    = errors.New("avatar file is empty")
	ErrAvatarType     = errors.New("avatar must be a JPEG or PNG image")
	ErrAvatarTooLarge = errors.New("avatar must be smaller than 1MB")
)

// EnvelopeError is returned when the backend answers with a nonzero code.
type EnvelopeError = dispatch.EnvelopeError

// StatusError is returned for non-2xx responses.
type StatusError = dispatch.StatusError
