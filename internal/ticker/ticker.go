// Package ticker runs a callback on a fixed interval until its context ends.
//
// It replaces a UI-toolkit timer so the controller loop can run headless and
// be driven by a mock clock in tests.
package ticker

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrInvalidInterval is returned for a non-positive interval.
var ErrInvalidInterval = errors.New("ticker interval must be positive")

// Every calls fn once per interval until ctx is done. Calls never overlap:
// a slow fn delays the next call instead of stacking them.
// It returns nil when ctx ends.
func Every(ctx context.Context, clk clock.Clock, interval time.Duration, fn func(context.Context)) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	if clk == nil {
		clk = clock.New()
	}

	t := clk.Ticker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			fn(ctx)
		}
	}
}
