// Package server wires and runs the p1-alert service.
//
// Run checks the host, loads settings, builds the indicator panel, sequencer,
// banner, queue and controller, and serves the HTTP webhook surface and the
// gRPC control surface until the context is cancelled.
package server
