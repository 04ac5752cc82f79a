package display

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/oshokin/p1-alert/internal/logger"
)

// DefaultBlinkPeriod is the background toggle period of the alert banner.
const DefaultBlinkPeriod = time.Second

// Banner is a headless Display.
type Banner struct {
	clock  clock.Clock
	period time.Duration

	visible bool
	text    string
	color   Color
	// blink is non-nil while the background blinks.
	blink *clock.Timer
	// bright tracks which alert colour the next toggle shows.
	bright bool

	mu sync.Mutex
}

// BannerOption configures a Banner.
type BannerOption func(*Banner)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) BannerOption {
	return func(b *Banner) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithBlinkPeriod overrides DefaultBlinkPeriod.
func WithBlinkPeriod(period time.Duration) BannerOption {
	return func(b *Banner) {
		if period > 0 {
			b.period = period
		}
	}
}

// NewBanner creates a hidden banner with initialText and a transparent background.
func NewBanner(initialText string, opts ...BannerOption) *Banner {
	b := &Banner{
		clock:  clock.New(),
		period: DefaultBlinkPeriod,
		text:   initialText,
		color:  AlertDim,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// SetText replaces the banner text.
func (b *Banner) SetText(ctx context.Context, text string) {
	b.mu.Lock()
	b.text = text
	b.mu.Unlock()

	logger.DebugKV(ctx, "Banner text set", "text", text)
}

// SetColor replaces the background colour.
func (b *Banner) SetColor(ctx context.Context, color Color) {
	b.mu.Lock()
	b.color = color
	b.mu.Unlock()

	logger.DebugKV(ctx, "Banner color set", "color", color.String())
}

// SetBlinking starts or stops toggling the background between AlertDim and AlertBright.
func (b *Banner) SetBlinking(ctx context.Context, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.blink != nil {
		b.blink.Stop()
		b.blink = nil
	}

	if !on {
		return
	}

	b.bright = true
	b.scheduleToggleLocked(ctx)
}

// Show makes the banner visible.
func (b *Banner) Show(ctx context.Context) {
	b.mu.Lock()
	b.visible = true
	text := b.text
	b.mu.Unlock()

	logger.InfoKV(ctx, "Banner shown", "text", text)
}

// Hide makes the banner invisible.
func (b *Banner) Hide(ctx context.Context) {
	b.mu.Lock()
	b.visible = false
	b.mu.Unlock()

	logger.Info(ctx, "Banner hidden")
}

// Snapshot returns the current banner state.
func (b *Banner) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Snapshot{
		Visible:  b.visible,
		Text:     b.text,
		Color:    b.color.String(),
		Blinking: b.blink != nil,
	}
}

// scheduleToggleLocked arms the next background toggle. b.mu must be held.
func (b *Banner) scheduleToggleLocked(ctx context.Context) {
	var timer *clock.Timer

	timer = b.clock.AfterFunc(b.period, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		// A newer SetBlinking replaced or cancelled this timer.
		if b.blink != timer {
			return
		}

		if b.bright {
			b.color = AlertBright
		} else {
			b.color = AlertDim
		}

		b.bright = !b.bright
		b.scheduleToggleLocked(ctx)
	})

	b.blink = timer
}
