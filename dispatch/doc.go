// Package dispatch is the single entry point for console backend calls.
//
// Every call is registered in a pending set before the transport call starts
// and deregistered when it finishes, whatever the outcome. Responses follow
// a uniform envelope ({code, message, data, total}); a nonzero code is an
// application error returned as [*EnvelopeError].
//
// # Failure classes
//
//   - Abort: the call's context was cancelled. Logged, never notified.
//   - Envelope error: returned to the caller, who displays its message.
//   - 401: the session is cleared, every other pending call is cancelled, and
//     a single session-expired notice is emitted.
//   - 5xx: a generic server-error notice.
//   - Anything else: a generic request-failed notice.
//
// No call is ever retried.
package dispatch
