// Package middleware adapts a goConsole.Client to net/http.
//
// # Guards
//
//   - [RouteGuard] applies the console route rules and redirects with 302.
//   - [RequirePermission] answers 401 without a session and 403 without the
//     permission code.
//
// Both read the client's process-scoped session; they do not inspect the
// incoming request's credentials.
package middleware
