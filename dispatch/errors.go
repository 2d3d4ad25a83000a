package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrAborted marks a call cancelled through its context.
	ErrAborted = errors.New("request aborted")
	// ErrUnauthorized marks an HTTP 401 response.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServer marks an HTTP 5xx response.
	ErrServer = errors.New("server error")
	// ErrRequestFailed marks every other failure: non-2xx statuses,
	// transport errors, and undecodable bodies.
	ErrRequestFailed = errors.New("request failed")
)

// EnvelopeError is returned when the backend answers with a nonzero
// envelope code.
type EnvelopeError struct {
	Envelope Envelope[json.RawMessage]
}

func (e *EnvelopeError) Error() string {
	if e.Envelope.Message == "" {
		return "api error code " + strconv.Itoa(e.Envelope.Code)
	}
	return fmt.Sprintf("api error code %d: %s", e.Envelope.Code, e.Envelope.Message)
}

// Code returns the envelope code.
func (e *EnvelopeError) Code() int {
	return e.Envelope.Code
}

// Message returns the envelope message for display.
func (e *EnvelopeError) Message() string {
	return e.Envelope.Message
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	StatusCode int
	StatusText string
	Body       []byte
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, StatusText: text, Body: body}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d %s", e.StatusCode, e.StatusText)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return ErrRequestFailed
	}
}

// IsAborted reports whether err is a cancelled call.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
