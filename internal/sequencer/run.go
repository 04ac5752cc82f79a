package sequencer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/indicator"
	"github.com/oshokin/p1-alert/internal/logger"
)

// run is a single execution of the two-phase pattern.
type run struct {
	ctx    context.Context //nolint:containedctx // The run is the goroutine that owns this context.
	panel  indicator.Panel
	clock  clock.Clock
	timing Timing
	state  *atomic.Uint32
}

// execute runs phase one then phase two until cancelled.
func (r *run) execute() {
	defer r.setState(domain.SequencerStopped)

	defer func() {
		if v := recover(); v != nil {
			logger.ErrorKV(r.ctx, "Pattern panicked", "panic", v)
		}
	}()

	logger.Debug(r.ctx, "Pattern started")

	r.panel.SetManualMode(r.ctx)

	if !r.phaseOne() {
		logger.Debug(r.ctx, "Pattern cancelled during phase one")

		return
	}

	r.phaseTwo()
	logger.Debug(r.ctx, "Pattern cancelled during phase two")
}

// phaseOne alternates double-pulses of A and B for the phase window.
// It returns false when cancelled.
func (r *run) phaseOne() bool {
	r.setState(domain.SequencerPhaseOne)

	start := r.clock.Now()
	for r.clock.Since(start) < r.timing.PhaseOne {
		if r.cancelled() {
			return false
		}

		if !r.doublePulse(indicator.A, indicator.B) || !r.wait(r.timing.Pause) {
			return false
		}

		if r.cancelled() {
			return false
		}

		if !r.doublePulse(indicator.B, indicator.A) || !r.wait(r.timing.Pause) {
			return false
		}
	}

	return true
}

// doublePulse flashes lit twice while keeping dark off.
func (r *run) doublePulse(lit, dark indicator.Target) bool {
	for range pulsesPerGroup {
		if r.cancelled() {
			return false
		}

		r.panel.Brightness(r.ctx, lit, true)
		r.panel.Brightness(r.ctx, dark, false)

		if !r.wait(r.timing.PulseOn) {
			return false
		}

		r.panel.Brightness(r.ctx, lit, false)

		if !r.wait(r.timing.PulseOff) {
			return false
		}
	}

	return true
}

// phaseTwo alternates A and B every half-period until cancelled.
func (r *run) phaseTwo() {
	r.setState(domain.SequencerPhaseTwo)

	for {
		if r.cancelled() {
			return
		}

		r.panel.Brightness(r.ctx, indicator.A, true)
		r.panel.Brightness(r.ctx, indicator.B, false)

		if !r.wait(r.timing.HalfPeriod) {
			return
		}

		r.panel.Brightness(r.ctx, indicator.A, false)
		r.panel.Brightness(r.ctx, indicator.B, true)

		if !r.wait(r.timing.HalfPeriod) {
			return
		}
	}
}

// wait sleeps for d or until cancellation, whichever comes first.
// It returns false when cancelled.
func (r *run) wait(d time.Duration) bool {
	timer := r.clock.Timer(d)
	defer timer.Stop()

	select {
	case <-r.ctx.Done():
		r.setState(domain.SequencerStopping)

		return false
	case <-timer.C:
		return !r.cancelled()
	}
}

// cancelled reports whether Stop was requested.
func (r *run) cancelled() bool {
	if r.ctx.Err() == nil {
		return false
	}

	r.setState(domain.SequencerStopping)

	return true
}

func (r *run) setState(state domain.SequencerState) {
	r.state.Store(uint32(state))
}
