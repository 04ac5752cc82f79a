package controller

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/oshokin/p1-alert/internal/display"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/metrics"
	"github.com/oshokin/p1-alert/internal/sequencer"
	"github.com/oshokin/p1-alert/internal/sound"
	"github.com/oshokin/p1-alert/internal/ticker"
)

const (
	// DefaultPollInterval is how often the queue is drained.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultHideDelay is how long the resolved banner stays on screen.
	DefaultHideDelay = 10 * time.Second
)

// Queue is the consumer side of the event queue.
type Queue interface {
	DrainAll() (domain.Event, bool)
	Len() int
}

// Sequencer is the part of the pattern sequencer the controller drives.
type Sequencer interface {
	Start(ctx context.Context, id string) error
	Stop()
	State() domain.SequencerState
	SetResolvedState(ctx context.Context)
	RestoreDefaultMode(ctx context.Context)
}

// Options holds the texts, sounds and timings of the lifecycle.
type Options struct {
	// AlertMessage is shown while Active.
	AlertMessage string
	// ResolvedMessage is shown after a Resolve until the deferred hide.
	ResolvedMessage string
	// AlertSound is played when an alert cycle opens.
	AlertSound string
	// ResolvedSound is played when an alert cycle closes.
	ResolvedSound string
	// Pattern is the sequencer pattern started on Raise.
	Pattern string
	// PollInterval is the queue drain cadence.
	PollInterval time.Duration
	// HideDelay is the delay of the deferred hide after Resolve.
	HideDelay time.Duration
}

// Controller is the alert lifecycle state machine.
type Controller struct {
	queue     Queue
	sequencer Sequencer
	display   display.Display
	player    sound.Player
	clock     clock.Clock
	opts      Options

	state     domain.LifecycleState
	changedAt time.Time
	// hide is the pending deferred hide, nil when none is scheduled.
	hide *clock.Timer
	// hideGeneration invalidates hide callbacks that already fired but lost the race for mu.
	hideGeneration uint64

	mu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for polling and the deferred hide.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// New creates a Controller in the Resolved state.
func New(
	queue Queue,
	seq Sequencer,
	disp display.Display,
	player sound.Player,
	opts Options,
	options ...Option,
) *Controller {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	if opts.HideDelay <= 0 {
		opts.HideDelay = DefaultHideDelay
	}

	if opts.Pattern == "" {
		opts.Pattern = sequencer.PatternP1
	}

	c := &Controller{
		queue:     queue,
		sequencer: seq,
		display:   disp,
		player:    player,
		clock:     clock.New(),
		opts:      opts,
		state:     domain.Resolved,
	}

	for _, option := range options {
		option(c)
	}

	c.changedAt = c.clock.Now()

	return c
}

// Run restores the indicators, polls the queue until ctx is done and then runs Shutdown.
func (c *Controller) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "controller")

	c.Startup(ctx)
	defer c.Shutdown(context.WithoutCancel(ctx))

	logger.InfoKV(ctx, "Controller polling event queue", "interval", c.opts.PollInterval.String())

	return ticker.Every(ctx, c.clock, c.opts.PollInterval, c.Poll)
}

// Startup forces the indicators into their default mode.
func (c *Controller) Startup(ctx context.Context) {
	c.sequencer.RestoreDefaultMode(ctx)
}

// Shutdown stops any running pattern, cancels the deferred hide and restores the indicators.
func (c *Controller) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelHideLocked()
	c.sequencer.Stop()
	c.display.SetBlinking(ctx, false)
	c.display.Hide(ctx)
	c.sequencer.RestoreDefaultMode(ctx)

	logger.Info(ctx, "Controller stopped, indicators restored")
}

// Poll drains the queue and applies the dequeued event, if any.
// The drain and the transition share the lock, so Snapshot never reports an
// empty queue before the dequeued event is applied.
func (c *Controller) Poll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	event, ok := c.queue.DrainAll()
	if !ok {
		return
	}

	logger.DebugKV(ctx, "Event dequeued", "event", event.String())
	c.handleLocked(ctx, event)
}

// Handle applies a single event to the state machine.
func (c *Controller) Handle(ctx context.Context, event domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handleLocked(ctx, event)
}

func (c *Controller) handleLocked(ctx context.Context, event domain.Event) {
	switch {
	case event == domain.Raise && c.state == domain.Resolved:
		c.raiseLocked(ctx)
	case event == domain.Resolve && c.state == domain.Active:
		c.resolveLocked(ctx)
	default:
		metrics.IgnoredEvents.WithLabelValues(event.String()).Inc()
		logger.DebugKV(ctx, "Event ignored", "event", event.String(), "state", c.state.String())
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() domain.LifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Snapshot returns the controller status.
func (c *Controller) Snapshot() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return domain.Status{
		Lifecycle:   c.state,
		Sequencer:   c.sequencer.State(),
		Queued:      c.queue.Len(),
		HidePending: c.hide != nil,
		ChangedAt:   c.changedAt,
	}
}

// raiseLocked opens an alert cycle.
func (c *Controller) raiseLocked(ctx context.Context) {
	c.cancelHideLocked()

	c.display.SetText(ctx, c.opts.AlertMessage)
	c.display.SetColor(ctx, display.AlertDim)
	c.display.Show(ctx)
	c.display.SetBlinking(ctx, true)

	if err := c.sequencer.Start(ctx, c.opts.Pattern); err != nil {
		logger.ErrorKV(ctx, "Indicator pattern not started", "pattern", c.opts.Pattern, "error", err)
	}

	sound.PlayBestEffort(ctx, c.player, c.opts.AlertSound)

	c.transitionLocked(ctx, domain.Active)
}

// resolveLocked closes the alert cycle and schedules the deferred hide.
func (c *Controller) resolveLocked(ctx context.Context) {
	// Stop joins the pattern goroutine, so the resolved state below is the last write.
	c.sequencer.Stop()
	c.sequencer.SetResolvedState(ctx)

	c.display.SetBlinking(ctx, false)
	c.display.SetColor(ctx, display.ResolvedGreen)
	c.display.SetText(ctx, c.opts.ResolvedMessage)

	sound.PlayBestEffort(ctx, c.player, c.opts.ResolvedSound)

	c.scheduleHideLocked(ctx)
	c.transitionLocked(ctx, domain.Resolved)
}

// scheduleHideLocked arms the deferred hide of the resolved banner.
func (c *Controller) scheduleHideLocked(ctx context.Context) {
	c.cancelHideLocked()

	generation := c.hideGeneration
	ctx = context.WithoutCancel(ctx)

	c.hide = c.clock.AfterFunc(c.opts.HideDelay, func() {
		c.expireHide(ctx, generation)
	})
}

// expireHide hides the resolved banner unless the hide armed at generation was
// cancelled after its timer fired.
func (c *Controller) expireHide(ctx context.Context, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.hideGeneration || c.state != domain.Resolved {
		return
	}

	c.hide = nil
	c.display.Hide(ctx)
	c.sequencer.RestoreDefaultMode(ctx)

	logger.Debug(ctx, "Resolved banner hidden, indicators restored")
}

// cancelHideLocked stops a pending deferred hide and invalidates any callback in flight.
func (c *Controller) cancelHideLocked() {
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}

	c.hideGeneration++
}

func (c *Controller) transitionLocked(ctx context.Context, state domain.LifecycleState) {
	c.state = state
	c.changedAt = c.clock.Now()

	metrics.Transitions.WithLabelValues(state.String()).Inc()
	logger.InfoKV(ctx, "Alert lifecycle changed", "state", state.String())
}
