package indicator

import (
	"context"
	"errors"

	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/metrics"
)

// Target selects one of the two lights of a Panel.
type Target uint8

const (
	// A is the first light (green ACT on a Raspberry Pi).
	A Target = iota
	// B is the second light (red PWR on a Raspberry Pi).
	B
)

// String returns the target label.
func (t Target) String() string {
	if t == B {
		return "b"
	}

	return "a"
}

// Panel is the indicator surface shared by the sequencer and the controller.
// Implementations never fail: write errors are reported out of band.
type Panel interface {
	// Brightness turns a single light on or off.
	Brightness(ctx context.Context, target Target, on bool)
	// SetManualMode detaches both lights from their system triggers.
	SetManualMode(ctx context.Context)
	// RestoreDefaultMode hands both lights back to their system triggers.
	RestoreDefaultMode(ctx context.Context)
	// SetResolvedState shows the solid "resolved" signal: A on, B off.
	SetResolvedState(ctx context.Context)
}

// Pair is a Panel made of two Devices.
type Pair struct {
	a Device
	b Device
}

// NewPair combines two devices into a Panel.
func NewPair(a, b Device) *Pair {
	return &Pair{
		a: a,
		b: b,
	}
}

// Brightness turns the selected light on or off.
func (p *Pair) Brightness(ctx context.Context, target Target, on bool) {
	device := p.device(target)
	report(ctx, device, device.SetBrightness(on))
}

// SetManualMode writes the manual trigger to both lights.
func (p *Pair) SetManualMode(ctx context.Context) {
	report(ctx, p.a, p.a.SetTrigger(ManualTrigger))
	report(ctx, p.b, p.b.SetTrigger(ManualTrigger))
}

// RestoreDefaultMode writes each light's default trigger.
func (p *Pair) RestoreDefaultMode(ctx context.Context) {
	report(ctx, p.a, p.a.SetTrigger(p.a.DefaultTrigger()))
	report(ctx, p.b, p.b.SetTrigger(p.b.DefaultTrigger()))
}

// SetResolvedState switches to manual mode and lights A only.
func (p *Pair) SetResolvedState(ctx context.Context) {
	p.SetManualMode(ctx)
	p.Brightness(ctx, A, true)
	p.Brightness(ctx, B, false)
}

// device maps a Target onto its Device.
func (p *Pair) device(target Target) Device {
	if target == B {
		return p.b
	}

	return p.a
}

// report logs a failed write. Absent hardware is expected on development machines.
func report(ctx context.Context, device Device, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, ErrNotPresent) {
		logger.DebugKV(ctx, "Indicator not present, write skipped", "indicator", device.Name())

		return
	}

	metrics.IndicatorWriteFailures.WithLabelValues(device.Name()).Inc()
	logger.WarnKV(ctx, "Indicator write failed, root privileges are required", "indicator", device.Name(), "error", err)
}
