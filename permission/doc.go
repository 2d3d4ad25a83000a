// Package permission evaluates colon-delimited permission codes such as
// system:user:list against a flat list of granted codes.
//
// # Wildcards
//
// A granted code ending in "*" grants every code sharing the preceding prefix:
// system:* satisfies system:user:list, while system:user:* does not satisfy
// system:role:list. A bare "*" grants everything.
//
// # Route paths
//
// [PathToCode] maps a console route path to the code guarding it, so route
// navigation and action buttons share a single evaluator.
//
// # What this package must NOT do
//
//   - Access the session store, the network, or any I/O.
//   - Import goConsole, dispatch, or session.
package permission
