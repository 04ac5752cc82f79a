package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/indicator"
	"github.com/oshokin/p1-alert/internal/logger"
)

// ErrUnknownPattern is returned by Start for an unregistered pattern ID.
var ErrUnknownPattern = errors.New("unknown pattern")

// Sequencer owns the pattern goroutine and its cancellation handle.
type Sequencer struct {
	// panel receives every indicator write.
	panel indicator.Panel
	// clock drives all waits.
	clock clock.Clock
	// patterns maps pattern IDs to their timings.
	patterns map[string]Timing

	// cancel and done belong to the current run; both are nil before the first Start.
	cancel context.CancelFunc
	done   chan struct{}
	// mu serialises Start and Stop.
	mu sync.Mutex

	// state is written by the run goroutine only.
	state atomic.Uint32
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPattern registers or overrides the timing of a pattern ID.
func WithPattern(id string, timing Timing) Option {
	return func(s *Sequencer) {
		s.patterns[id] = timing
	}
}

// New creates an idle Sequencer writing to panel.
func New(panel indicator.Panel, opts ...Option) *Sequencer {
	s := &Sequencer{
		panel: panel,
		clock: clock.New(),
		patterns: map[string]Timing{
			PatternP1: DefaultTiming(),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start launches pattern id unless a pattern is already running.
// The run outlives ctx; only Stop ends it. ctx contributes its logger.
func (s *Sequencer) Start(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runningLocked() {
		logger.DebugKV(ctx, "Pattern already running, start ignored", "pattern", id)

		return nil
	}

	timing, ok := s.patterns[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	runCtx = logger.WithKV(logger.WithName(runCtx, "sequencer"), "pattern", id)

	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	r := &run{
		ctx:    runCtx,
		panel:  s.panel,
		clock:  s.clock,
		timing: timing,
		state:  &s.state,
	}

	go func() {
		defer close(done)

		r.execute()
	}()

	return nil
}

// Stop cancels the running pattern and blocks until its goroutine has returned.
// It is a no-op when nothing runs.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return
	}

	s.cancel()
	<-s.done
}

// Running reports whether a pattern goroutine is alive.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runningLocked()
}

// State returns the last phase reported by the run goroutine.
func (s *Sequencer) State() domain.SequencerState {
	return domain.SequencerState(s.state.Load())
}

// SetManualMode detaches both lights from their system triggers.
func (s *Sequencer) SetManualMode(ctx context.Context) {
	s.panel.SetManualMode(ctx)
}

// RestoreDefaultMode hands both lights back to their system triggers.
func (s *Sequencer) RestoreDefaultMode(ctx context.Context) {
	s.panel.RestoreDefaultMode(ctx)
}

// SetResolvedState shows the solid resolved signal.
func (s *Sequencer) SetResolvedState(ctx context.Context) {
	s.panel.SetResolvedState(ctx)
}

func (s *Sequencer) runningLocked() bool {
	if s.done == nil {
		return false
	}

	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
