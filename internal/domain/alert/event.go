package alert

import (
	"errors"
	"fmt"
	"strings"
)

// Event is a lifecycle signal pushed by producers and consumed by the controller.
type Event uint8

const (
	// Raise opens an alert cycle.
	Raise Event = iota + 1
	// Resolve closes an alert cycle.
	Resolve
)

// ErrUnknownEvent is returned when text does not name a lifecycle event.
var ErrUnknownEvent = errors.New("unknown alert event")

// String returns the lowercase name used in logs, metric labels and the gRPC surface.
func (e Event) String() string {
	switch e {
	case Raise:
		return "raise"
	case Resolve:
		return "resolve"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// Valid reports whether e is one of the declared events.
func (e Event) Valid() bool {
	return e == Raise || e == Resolve
}

// ParseEvent converts text into an Event. The legacy names "start" and "stop" are accepted.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raise", "start":
		return Raise, nil
	case "resolve", "stop":
		return Resolve, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}
