// Package logger wraps zap for the p1-alert binaries.
//
// It keeps one global sugared logger with a console encoder and lets callers
// carry a scoped logger in a context (WithName, WithKV). Every component takes
// a context and logs through FromContext, so goroutines started by the
// controller and the sequencer keep the name of the unit that owns them.
package logger
