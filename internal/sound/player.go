package sound

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/metrics"
)

var (
	// ErrDisabled is returned when no player command is configured.
	ErrDisabled = errors.New("sound player disabled")
	// ErrNoResource is returned when the sound file does not exist.
	ErrNoResource = errors.New("sound resource not found")
)

// Player starts playback of a sound resource.
type Player interface {
	Play(ctx context.Context, resource string) error
}

// CommandPlayer plays sounds by starting an external program such as aplay.
// Playback continues in the background; Play returns once the program started.
type CommandPlayer struct {
	// command is the executable name or path.
	command string
	// args precede the resource path on the command line.
	args []string
}

// NewCommandPlayer creates a player running `command args... resource`.
// An empty command disables playback.
func NewCommandPlayer(command string, args ...string) *CommandPlayer {
	return &CommandPlayer{
		command: command,
		args:    args,
	}
}

// Play starts the player for resource.
func (p *CommandPlayer) Play(ctx context.Context, resource string) error {
	if p.command == "" {
		return ErrDisabled
	}

	resource = filepath.Clean(resource)
	if _, err := os.Stat(resource); err != nil {
		return fmt.Errorf("%s: %w", resource, ErrNoResource)
	}

	args := append(append([]string(nil), p.args...), resource)

	// Playback must not be cut short when the triggering request finishes.
	cmd := exec.CommandContext(context.WithoutCancel(ctx), p.command, args...) //nolint:gosec // Player and resource come from local configuration.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.command, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.WarnKV(ctx, "Sound player exited with error", "resource", resource, "error", err)
		}
	}()

	return nil
}

// PlayBestEffort plays resource and logs instead of returning failures.
func PlayBestEffort(ctx context.Context, player Player, resource string) {
	if player == nil || resource == "" {
		return
	}

	err := player.Play(ctx, resource)
	if err == nil {
		logger.DebugKV(ctx, "Sound started", "resource", resource)

		return
	}

	if errors.Is(err, ErrDisabled) {
		return
	}

	metrics.SoundFailures.Inc()
	logger.WarnKV(ctx, "Sound error", "resource", resource, "error", err)
}
