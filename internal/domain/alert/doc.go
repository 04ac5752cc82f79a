// Package alert contains the core domain types of the alert lifecycle.
//
// It defines the two lifecycle events (Raise, Resolve), the controller's
// LifecycleState, the sequencer's observable SequencerState, and the Details
// extracted from a vendor webhook payload.
package alert
