package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// HeaderRequestID carries the pending-set handle of a call.
	HeaderRequestID = "X-Request-Id"

	// SessionExpiredMessage is the notice emitted on a 401.
	SessionExpiredMessage = "Invalid session or session expired, please login again."

	maxErrorBody = 4 << 10
)

// Config holds transport-level settings.
type Config struct {
	// BaseURL is prefixed to request URLs starting with "/".
	BaseURL string
	// Headers are sent with every call, after the JSON content type and
	// before per-call headers.
	Headers   map[string]string
	UserAgent string
}

// Deps are the collaborators of a [Dispatcher]. Nil fields get no-op
// defaults; HTTPClient defaults to a client without timeout.
type Deps struct {
	HTTPClient *http.Client
	Session    Session
	Notifier   Notifier
	Observer   Observer
	Logger     *slog.Logger
}

// Request describes one backend call.
type Request struct {
	Method string
	URL    string
	// Params go into the JSON body for PUT and POST and into the query
	// string otherwise.
	Params any
	// Body, when set, is sent verbatim for PUT and POST instead of Params.
	Body    io.Reader
	Headers map[string]string

	// SuccessMessage is notified when the call succeeds.
	SuccessMessage string
	// ErrorMessage replaces the generic failure notice.
	ErrorMessage string
	// Silent suppresses every notice for this call.
	Silent bool

	// Filename is the fallback name for downloads.
	Filename string
}

// Dispatcher issues backend calls. It is safe for concurrent use.
type Dispatcher struct {
	cfg      Config
	client   *http.Client
	session  Session
	notifier Notifier
	observer Observer
	logger   *slog.Logger
	pending  *Pending

	teardownMu sync.Mutex
}

// New builds a [Dispatcher].
func New(cfg Config, deps Deps) *Dispatcher {
	d := &Dispatcher{
		cfg:      cfg,
		client:   deps.HTTPClient,
		session:  deps.Session,
		notifier: deps.Notifier,
		observer: deps.Observer,
		logger:   deps.Logger,
		pending:  NewPending(),
	}
	if d.client == nil {
		d.client = &http.Client{}
	}
	if d.session == nil {
		d.session = noSession{}
	}
	if d.notifier == nil {
		d.notifier = noopNotifier{}
	}
	if d.observer == nil {
		d.observer = noopObserver{}
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Pending returns the number of in-flight calls.
func (d *Dispatcher) Pending() int {
	return d.pending.Len()
}

// CancelAll aborts every in-flight call.
func (d *Dispatcher) CancelAll() int {
	return d.pending.CancelAll("")
}

// Do runs req and hands a 2xx response to consume. The call stays
// registered until consume returns. Errors from consume are classified like
// transport errors unless they are *EnvelopeError.
func (d *Dispatcher) Do(ctx context.Context, req Request, consume func(*http.Response) error) error {
	return d.roundTrip(ctx, req, false, consume)
}

func (d *Dispatcher) roundTrip(ctx context.Context, req Request, download bool, consume func(*http.Response) error) (err error) {
	callCtx, handle, release := d.pending.Register(ctx)
	defer release()

	start := time.Now()
	outcome := OutcomeSuccess
	defer func() {
		d.observer.ObserveCall(outcome, download, time.Since(start))
	}()

	fail := func(cause error) error {
		var classified error
		outcome, classified = d.classify(callCtx, handle, req, cause)
		return classified
	}

	httpReq, err := d.newHTTPRequest(callCtx, handle, req)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrRequestFailed, err))
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(newStatusError(resp, body))
	}

	if consume != nil {
		if err := consume(resp); err != nil {
			return fail(err)
		}
	}

	if req.SuccessMessage != "" && !req.Silent {
		d.notifier.Notify(callCtx, Notice{Level: LevelSuccess, Message: req.SuccessMessage, RequestID: handle, URL: req.URL})
	}
	return nil
}

func (d *Dispatcher) newHTTPRequest(ctx context.Context, handle string, req Request) (*http.Request, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := req.URL
	if strings.HasPrefix(target, "/") && d.cfg.BaseURL != "" {
		target = strings.TrimRight(d.cfg.BaseURL, "/") + target
	}

	var body io.Reader
	if method == http.MethodPut || method == http.MethodPost {
		switch {
		case req.Body != nil:
			body = req.Body
		case req.Params != nil:
			raw, err := json.Marshal(req.Params)
			if err != nil {
				return nil, fmt.Errorf("encode body: %w", err)
			}
			body = bytes.NewReader(raw)
		}
	} else {
		query, err := encodeQuery(req.Params)
		if err != nil {
			return nil, err
		}
		target = appendQuery(target, query)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range d.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if token := d.session.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if d.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", d.cfg.UserAgent)
	}
	httpReq.Header.Set(HeaderRequestID, handle)

	return httpReq, nil
}

// classify maps cause to its failure class, performs the side effects of
// that class, and returns the error handed to the caller.
func (d *Dispatcher) classify(ctx context.Context, handle string, req Request, cause error) (Outcome, error) {
	log := d.logger.With("request_id", handle, "method", req.Method, "url", req.URL)

	var envErr *EnvelopeError
	if errors.As(cause, &envErr) {
		log.Debug("api error", "code", envErr.Code(), "message", envErr.Message())
		return OutcomeEnvelopeError, envErr
	}

	if errors.Is(cause, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		log.Warn("request aborted")
		return OutcomeAborted, fmt.Errorf("%w: %w", ErrAborted, cause)
	}

	var statusErr *StatusError
	if errors.As(cause, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized:
			d.teardown(ctx, handle, req)
			return OutcomeUnauthorized, statusErr
		case statusErr.StatusCode >= 500:
			log.Debug("server error", "status", statusErr.StatusCode)
			d.notifyError(ctx, handle, req, "Server error: "+statusErr.StatusText)
			return OutcomeServerError, statusErr
		}
	}

	log.Debug("request failed", "error", cause)
	d.notifyError(ctx, handle, req, fmt.Sprintf("Request failed: %v", cause))
	if !errors.Is(cause, ErrRequestFailed) {
		cause = fmt.Errorf("%w: %w", ErrRequestFailed, cause)
	}
	return OutcomeFailed, cause
}

// teardown clears the session and cancels every other pending call. Only
// the 401 that finds a live session emits the notice, so a burst of 401s
// produces one. The notice is sent after teardownMu is released so a slow
// notifier never holds up other 401s.
func (d *Dispatcher) teardown(ctx context.Context, handle string, req Request) {
	if d.clearSession(ctx, handle) && !req.Silent {
		d.notifier.Notify(ctx, Notice{Level: LevelError, Message: SessionExpiredMessage, RequestID: handle, URL: req.URL})
	}
}

// clearSession reports whether a session was live when it was cleared.
func (d *Dispatcher) clearSession(ctx context.Context, handle string) bool {
	d.teardownMu.Lock()
	defer d.teardownMu.Unlock()

	hadSession := d.session.Token() != ""
	if err := d.session.Clear(context.WithoutCancel(ctx)); err != nil {
		d.logger.Error("clear session after 401 failed", "error", err)
	}
	cancelled := d.pending.CancelAll(handle)
	d.logger.Info("session expired", "request_id", handle, "cancelled", cancelled)
	return hadSession
}

// notifyError hands ctx, the call's own context, to the notifier so a
// blocking notifier gives up when the call is cancelled or times out.
func (d *Dispatcher) notifyError(ctx context.Context, handle string, req Request, message string) {
	if req.Silent {
		return
	}
	if req.ErrorMessage != "" {
		message = req.ErrorMessage
	}
	d.notifier.Notify(ctx, Notice{Level: LevelError, Message: message, RequestID: handle, URL: req.URL})
}
