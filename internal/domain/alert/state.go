package alert

// LifecycleState is the controller's view of the current alert cycle.
type LifecycleState uint8

const (
	// Resolved means no alert is in progress. It is the initial state.
	Resolved LifecycleState = iota
	// Active means an alert is being displayed and signalled.
	Active
)

// String returns the lowercase state name.
func (s LifecycleState) String() string {
	if s == Active {
		return "active"
	}

	return "resolved"
}

// SequencerState is the observable phase of the indicator pattern sequencer.
type SequencerState uint8

const (
	// SequencerIdle means no pattern has run yet.
	SequencerIdle SequencerState = iota
	// SequencerPhaseOne is the urgent double-pulse phase.
	SequencerPhaseOne
	// SequencerPhaseTwo is the sustained alternation phase.
	SequencerPhaseTwo
	// SequencerStopping means cancellation was requested and the run has not returned yet.
	SequencerStopping
	// SequencerStopped means the last run has returned.
	SequencerStopped
)

// String returns the state name used in status payloads.
func (s SequencerState) String() string {
	switch s {
	case SequencerPhaseOne:
		return "phase_one"
	case SequencerPhaseTwo:
		return "phase_two"
	case SequencerStopping:
		return "stopping"
	case SequencerStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// ParseLifecycleState converts the textual form back into a LifecycleState.
func ParseLifecycleState(s string) (LifecycleState, bool) {
	switch s {
	case "active":
		return Active, true
	case "resolved":
		return Resolved, true
	default:
		return Resolved, false
	}
}

// ParseSequencerState converts the textual form back into a SequencerState.
func ParseSequencerState(s string) (SequencerState, bool) {
	for state := SequencerIdle; state <= SequencerStopped; state++ {
		if state.String() == s {
			return state, true
		}
	}

	return SequencerIdle, false
}
