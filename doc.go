// Package goConsole is a client SDK for the admin console backend: login and
// session handling, permission checks, route guarding, and typed access to
// the user, role, menu, dictionary, log and dashboard endpoints.
//
// A [Builder] produces a [Client]. The Client owns one session store, one
// request dispatcher and one notifier, and is safe for concurrent use after
// [Builder.Build].
//
// # Architecture boundaries
//
// Permission semantics live in package permission, transport and response
// classification in package dispatch, and session persistence in package
// session. This package wires them together and exposes the typed services.
//
// # What this package must NOT do
//
//   - Render anything. Notices are handed to a [dispatch.Notifier].
//   - Retry failed calls.
//   - Apply its own timeouts. Those belong to the injected *http.Client.
package goConsole
