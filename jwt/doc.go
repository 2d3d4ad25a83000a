// Package jwt reads console access tokens.
//
// The console backend issues HS256 tokens carrying user_id, username, exp and
// iat. A client holds the token opaquely; it only needs the expiry to size
// persisted sessions and to drop stale ones on load. [Inspect] reads claims
// without verifying the signature. [Manager] verifies and issues tokens when
// the signing key is available, which is the case for gateways sharing the
// backend secret and for tests.
package jwt
