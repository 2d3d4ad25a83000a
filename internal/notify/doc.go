// Package notify relays user-facing notices to a sink on a background
// goroutine.
//
// The dispatcher owns buffering only. Which notices exist, and whether a
// call is silent, is decided by the request dispatcher before a notice
// reaches this package.
package notify
