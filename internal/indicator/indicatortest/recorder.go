// Package indicatortest provides an instrumented Panel for tests.
package indicatortest

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/p1-alert/internal/indicator"
)

// Op names the kind of write recorded.
type Op string

const (
	// OpBrightness is a single-light brightness write.
	OpBrightness Op = "brightness"
	// OpManual is a SetManualMode call.
	OpManual Op = "manual"
	// OpDefault is a RestoreDefaultMode call.
	OpDefault Op = "default"
	// OpResolved is a SetResolvedState call.
	OpResolved Op = "resolved"
)

// Write is one recorded Panel call.
type Write struct {
	// At is the wall time of the call.
	At time.Time
	// Op is the kind of call.
	Op Op
	// Target and On are set for OpBrightness.
	Target indicator.Target
	On     bool
}

// Recorder is a Panel that records every call in order.
type Recorder struct {
	writes []Write
	mu     sync.Mutex
}

// New creates an empty Recorder.
func New() *Recorder {
	return new(Recorder)
}

// Brightness records a brightness write.
func (r *Recorder) Brightness(_ context.Context, target indicator.Target, on bool) {
	r.record(Write{Op: OpBrightness, Target: target, On: on})
}

// SetManualMode records a manual mode switch.
func (r *Recorder) SetManualMode(context.Context) {
	r.record(Write{Op: OpManual})
}

// RestoreDefaultMode records a default mode switch.
func (r *Recorder) RestoreDefaultMode(context.Context) {
	r.record(Write{Op: OpDefault})
}

// SetResolvedState records the resolved signal.
func (r *Recorder) SetResolvedState(context.Context) {
	r.record(Write{Op: OpResolved})
}

// Len returns the number of recorded writes.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.writes)
}

// Writes returns a copy of all recorded writes.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Write(nil), r.writes...)
}

// Since returns writes recorded after the first n.
func (r *Recorder) Since(n int) []Write {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n >= len(r.writes) {
		return nil
	}

	return append([]Write(nil), r.writes[n:]...)
}

// Last returns the most recent write of kind op and whether one exists.
func (r *Recorder) Last(op Op) (Write, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.writes) - 1; i >= 0; i-- {
		if r.writes[i].Op == op {
			return r.writes[i], true
		}
	}

	return Write{}, false
}

// Count returns how many writes of kind op were recorded.
func (r *Recorder) Count(op Op) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0

	for _, w := range r.writes {
		if w.Op == op {
			count++
		}
	}

	return count
}

func (r *Recorder) record(w Write) {
	w.At = time.Now()

	r.mu.Lock()
	r.writes = append(r.writes, w)
	r.mu.Unlock()
}
