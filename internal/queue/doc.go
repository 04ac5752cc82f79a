// Package queue implements the lifecycle event queue shared by producers and
// the controller.
//
// Any number of goroutines may Push; exactly one consumer calls DrainAll on a
// fixed cadence. A drain hands back the oldest queued event and discards the
// rest, because the lifecycle is binary and only one transition is applied per
// poll.
package queue
