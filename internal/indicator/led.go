package indicator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ManualTrigger detaches the LED from kernel events so brightness can be driven directly.
	ManualTrigger = "none"

	// triggerFile and brightnessFile are the sysfs attribute names.
	triggerFile    = "trigger"
	brightnessFile = "brightness"

	// attributePermissions is used when an attribute file has to be created (tests, emulation).
	attributePermissions = 0o644
)

// ErrNotPresent is returned when the LED directory does not exist on this machine.
var ErrNotPresent = errors.New("indicator not present")

// Device is a single indicator light.
type Device interface {
	// Name identifies the device in logs and metrics.
	Name() string
	// DefaultTrigger is the trigger the system uses when nobody drives the light.
	DefaultTrigger() string
	// SetTrigger switches the trigger mode.
	SetTrigger(trigger string) error
	// SetBrightness turns the light on or off.
	SetBrightness(on bool) error
}

// LED is a Device backed by a sysfs LED class directory such as /sys/class/leds/ACT.
type LED struct {
	// name is a short label, e.g. "act".
	name string
	// dir is the sysfs directory holding the trigger and brightness attributes.
	dir string
	// defaultTrigger is restored by RestoreDefaultMode, e.g. "mmc0".
	defaultTrigger string
}

// NewLED creates a sysfs LED device.
func NewLED(name, dir, defaultTrigger string) *LED {
	return &LED{
		name:           name,
		dir:            filepath.Clean(dir),
		defaultTrigger: defaultTrigger,
	}
}

// Name returns the device label.
func (l *LED) Name() string {
	return l.name
}

// DefaultTrigger returns the trigger restored in default mode.
func (l *LED) DefaultTrigger() string {
	return l.defaultTrigger
}

// SetTrigger writes the trigger attribute.
func (l *LED) SetTrigger(trigger string) error {
	return l.write(triggerFile, trigger)
}

// SetBrightness writes 1 or 0 to the brightness attribute.
func (l *LED) SetBrightness(on bool) error {
	value := "0"
	if on {
		value = "1"
	}

	return l.write(brightnessFile, value)
}

// write stores value in the named attribute of the LED directory.
func (l *LED) write(attribute, value string) error {
	if _, err := os.Stat(l.dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", l.dir, ErrNotPresent)
		}

		return fmt.Errorf("stat %s: %w", l.dir, err)
	}

	path := filepath.Join(l.dir, attribute)
	if err := os.WriteFile(path, []byte(value), attributePermissions); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
