// Package controller implements the alert lifecycle state machine.
//
// The Controller is the single consumer of the event queue. On every tick it
// drains the queue and applies the event: Raise moves Resolved to Active,
// Resolve moves Active to Resolved, and a repeated event is ignored. Leaving
// Active schedules a deferred hide of the banner; a new Raise cancels it.
package controller
