package controller

import (
	"context"
	"sync"

	"github.com/oshokin/p1-alert/internal/display"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
)

// journal collects the calls of all fakes in a single ordered list.
type journal struct {
	calls []string
	mu    sync.Mutex
}

// add appends a call name.
func (j *journal) add(call string) {
	j.mu.Lock()
	j.calls = append(j.calls, call)
	j.mu.Unlock()
}

// since returns the calls made after the first n.
func (j *journal) since(n int) []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	if n >= len(j.calls) {
		return nil
	}

	return append([]string(nil), j.calls[n:]...)
}

// len returns the number of recorded calls.
func (j *journal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.calls)
}

// count returns how many times call was recorded.
func (j *journal) count(call string) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := 0

	for _, c := range j.calls {
		if c == call {
			n++
		}
	}

	return n
}

// fakeSequencer tracks whether a pattern runs.
type fakeSequencer struct {
	j       *journal
	running bool
	err     error
	mu      sync.Mutex
}

// Start records the call and marks the pattern running.
func (f *fakeSequencer) Start(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.j.add("seq.start:" + id)

	if f.err != nil {
		return f.err
	}

	f.running = true

	return nil
}

// Stop records the call and marks the pattern stopped.
func (f *fakeSequencer) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.j.add("seq.stop")
	f.running = false
}

// State reports phase one while running.
func (f *fakeSequencer) State() domain.SequencerState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return domain.SequencerPhaseOne
	}

	return domain.SequencerStopped
}

// SetResolvedState records the call.
func (f *fakeSequencer) SetResolvedState(context.Context) {
	f.j.add("seq.resolved")
}

// RestoreDefaultMode records the call.
func (f *fakeSequencer) RestoreDefaultMode(context.Context) {
	f.j.add("seq.default")
}

// isRunning reports the fake run flag.
func (f *fakeSequencer) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.running
}

// fakeDisplay wraps a real Banner and journals calls.
type fakeDisplay struct {
	*display.Banner

	j *journal
}

// SetText journals and forwards.
func (f *fakeDisplay) SetText(ctx context.Context, text string) {
	f.j.add("display.text:" + text)
	f.Banner.SetText(ctx, text)
}

// SetColor journals and forwards.
func (f *fakeDisplay) SetColor(ctx context.Context, color display.Color) {
	f.j.add("display.color:" + color.String())
	f.Banner.SetColor(ctx, color)
}

// SetBlinking journals and forwards.
func (f *fakeDisplay) SetBlinking(ctx context.Context, on bool) {
	if on {
		f.j.add("display.blink:on")
	} else {
		f.j.add("display.blink:off")
	}

	f.Banner.SetBlinking(ctx, on)
}

// Show journals and forwards.
func (f *fakeDisplay) Show(ctx context.Context) {
	f.j.add("display.show")
	f.Banner.Show(ctx)
}

// Hide journals and forwards.
func (f *fakeDisplay) Hide(ctx context.Context) {
	f.j.add("display.hide")
	f.Banner.Hide(ctx)
}

// fakePlayer journals played resources.
type fakePlayer struct {
	j *journal
}

// Play journals the resource.
func (f *fakePlayer) Play(_ context.Context, resource string) error {
	f.j.add("sound:" + resource)

	return nil
}
