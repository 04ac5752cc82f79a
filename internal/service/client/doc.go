// Package client implements the p1-alert-ctl operations.
//
// Raise and resolve push an event over the gRPC control surface and retry
// until the service reports the desired lifecycle. Watch polls the state and
// logs every change.
package client
