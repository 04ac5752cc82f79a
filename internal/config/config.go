package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/p1-alert/internal/logger"
)

// Indicator describes one sysfs LED.
type Indicator struct {
	// Dir is the sysfs LED directory, e.g. /sys/class/leds/ACT.
	Dir string `yaml:"dir"`
	// DefaultTrigger is restored when the alert is over, e.g. mmc0.
	DefaultTrigger string `yaml:"default_trigger"`
}

// Indicators holds the two lights driven by the pattern.
type Indicators struct {
	// A is the first light (green ACT on a Raspberry Pi).
	A Indicator `yaml:"a"`
	// B is the second light (red PWR on a Raspberry Pi).
	B Indicator `yaml:"b"`
}

// Config holds every setting of the p1-alert binaries.
type Config struct {
	// ListenAddress is the HTTP webhook listen address.
	ListenAddress string `yaml:"listen_addr"`
	// GRPCAddress is the gRPC control surface address; p1-alert-ctl dials it.
	GRPCAddress string `yaml:"grpc_addr"`
	// AlertMessage is the banner text while an alert is active.
	AlertMessage string `yaml:"alert_message"`
	// ResolvedMessage is the banner text after the alert is resolved.
	ResolvedMessage string `yaml:"resolved_message"`
	// AlertSound is the sound file played when an alert opens.
	AlertSound string `yaml:"alert_sound"`
	// ResolvedSound is the sound file played when an alert is resolved.
	ResolvedSound string `yaml:"resolved_sound"`
	// SoundPlayer is the command used to play sound files; empty disables sound.
	SoundPlayer string `yaml:"sound_player"`
	// AlertLog is the path of the rotating alert log; empty disables it.
	AlertLog string `yaml:"alert_log"`
	// Indicators describes the two LEDs.
	Indicators Indicators `yaml:"indicators"`
	// PollInterval is how often the controller drains the event queue.
	PollInterval time.Duration `yaml:"poll_interval"`
	// HideDelay is how long the resolved banner stays visible.
	HideDelay time.Duration `yaml:"hide_delay"`
	// RateLimit is the sustained producer request rate per second; zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is the producer request burst.
	RateBurst int `yaml:"rate_burst"`
	// Timeout is the duration of client RPC calls and server shutdown.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "p1-alert.yaml"

	// DefaultListenAddress matches the port of the original webhook receiver.
	DefaultListenAddress = ":5002"

	// DefaultGRPCAddress is the loopback control surface.
	DefaultGRPCAddress = "127.0.0.1:5003"

	// DefaultTimeout is the default duration for RPC calls and shutdown.
	DefaultTimeout = 5 * time.Second

	// DefaultPollInterval is the queue drain cadence.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultHideDelay is how long the resolved banner stays up.
	DefaultHideDelay = 10 * time.Second

	// DefaultFilePermissions is the permission of written settings files.
	DefaultFilePermissions = 0o600
)

var (
	// ErrNotFound is returned by Load when the settings file does not exist.
	ErrNotFound = errors.New("settings file not found")
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeRate is returned for a negative rate limit or burst.
	errNegativeRate = errors.New("rate limit and burst must not be negative")
	// errNonPositiveDuration is returned for zero or negative durations.
	errNonPositiveDuration = errors.New("duration must be positive")
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ListenAddress:   DefaultListenAddress,
		GRPCAddress:     DefaultGRPCAddress,
		AlertMessage:    "⚠ Priority 1 Ticket! ⚠",
		ResolvedMessage: "P1 Ticket Resolved ✓",
		AlertSound:      "P1.wav",
		ResolvedSound:   "bomb_defused.wav",
		SoundPlayer:     "aplay",
		AlertLog:        "alert-debug.log",
		Indicators: Indicators{
			A: Indicator{Dir: "/sys/class/leds/ACT", DefaultTrigger: "mmc0"},
			B: Indicator{Dir: "/sys/class/leds/PWR", DefaultTrigger: "input"},
		},
		PollInterval: DefaultPollInterval,
		HideDelay:    DefaultHideDelay,
		RateLimit:    5,
		RateBurst:    10,
		Timeout:      DefaultTimeout,
		LogLevel:     "info",
	}
}

// Load reads settings from path on top of the defaults and validates them.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default with a warning
// when the file does not exist.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		logger.WarnKV(ctx, "Settings file not found, using defaults", "path", path)

		return Default(), nil
	}

	return cfg, err
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks cfg, filling zero durations and empty addresses with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.GRPCAddress == "" {
		cfg.GRPCAddress = DefaultGRPCAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.GRPCAddress); err != nil {
		return fmt.Errorf("invalid gRPC address: %w", err)
	}

	durations := []struct {
		name     string
		value    *time.Duration
		fallback time.Duration
	}{
		{"poll_interval", &cfg.PollInterval, DefaultPollInterval},
		{"hide_delay", &cfg.HideDelay, DefaultHideDelay},
		{"timeout", &cfg.Timeout, DefaultTimeout},
	}

	for _, d := range durations {
		switch {
		case *d.value == 0:
			*d.value = d.fallback
		case *d.value < 0:
			return fmt.Errorf("%s: %w", d.name, errNonPositiveDuration)
		}
	}

	if cfg.RateLimit < 0 || cfg.RateBurst < 0 {
		return errNegativeRate
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	return nil
}

// ListenPort returns the port part of the HTTP listen address.
func (c *Config) ListenPort() string {
	_, port, err := net.SplitHostPort(c.ListenAddress)
	if err != nil {
		return c.ListenAddress
	}

	return port
}
