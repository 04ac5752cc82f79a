// Package http implements the HTTP webhook surface of p1-alert.
//
// Producer routes push lifecycle events into the queue and return at once;
// they never wait for the controller. /status and /metrics are read-only.
package http
