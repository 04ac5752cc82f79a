package alert

import "time"

// Status is a point-in-time view of the alert lifecycle.
type Status struct {
	// Lifecycle is the controller state.
	Lifecycle LifecycleState
	// Sequencer is the observed state of the pattern sequencer.
	Sequencer SequencerState
	// Queued is the number of events waiting for the next poll.
	Queued int
	// HidePending reports whether a deferred hide is scheduled.
	HidePending bool
	// ChangedAt is when the lifecycle last changed; zero before the first change.
	ChangedAt time.Time
}
