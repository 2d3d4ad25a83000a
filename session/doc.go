// Package session holds the console's authenticated identity: the access token
// and the user record with its granted permission codes.
//
// # Lifecycle
//
// A [Store] is created empty, restored with [Store.Load], populated by login,
// updated by profile mutations, and cleared on logout or when the backend
// rejects the token. Every mutation writes through to a [Backend] so the
// session survives process restarts when the backend is persistent.
//
// # Binary encoding
//
// Persisted sessions use a compact versioned binary format (see [Encode]).
// Decoding rejects unknown versions.
//
// # What this package must NOT do
//
//   - Issue HTTP requests or interpret response envelopes.
//   - Verify token signatures; expiry is read for housekeeping only.
//   - Import goConsole or dispatch.
package session
