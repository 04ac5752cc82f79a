package sequencer

import "time"

// PatternP1 is the two-phase priority-one pattern.
const PatternP1 = "p1"

// Timing holds the durations of the two-phase pattern.
type Timing struct {
	// PhaseOne is how long the urgent double-pulse phase lasts.
	PhaseOne time.Duration
	// PulseOn is how long a light stays lit within a pulse.
	PulseOn time.Duration
	// PulseOff is the dark gap after a pulse.
	PulseOff time.Duration
	// Pause separates the double-pulse of one light from the next.
	Pause time.Duration
	// HalfPeriod is the alternation step of the sustained phase.
	HalfPeriod time.Duration
}

// DefaultTiming returns the timings of the priority-one pattern.
func DefaultTiming() Timing {
	return Timing{
		PhaseOne:   10 * time.Second,
		PulseOn:    50 * time.Millisecond,
		PulseOff:   50 * time.Millisecond,
		Pause:      300 * time.Millisecond,
		HalfPeriod: 150 * time.Millisecond,
	}
}

// pulsesPerGroup is the number of pulses in a double-pulse.
const pulsesPerGroup = 2
