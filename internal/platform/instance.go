package platform

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/p1-alert/internal/logger"
)

// ErrAlreadyRunning is returned when another process with the same executable is running.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister matches ps.Processes.
type processLister func() ([]ps.Process, error)

// EnsureSingleInstance scans the process table and fails with ErrAlreadyRunning
// when another process runs the same executable as this one.
func EnsureSingleInstance(ctx context.Context) error {
	return ensureSingleInstance(ctx, ps.Processes, os.Getpid())
}

func ensureSingleInstance(ctx context.Context, list processLister, self int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	executable := ""

	for _, process := range processList {
		if process.Pid() == self {
			executable = process.Executable()

			break
		}
	}

	// Without our own entry there is nothing to compare against.
	if executable == "" {
		logger.WarnKV(ctx, "Own process not found in process table, skipping instance check", "pid", self)

		return nil
	}

	for _, process := range processList {
		if process.Pid() == self || process.Executable() != executable {
			continue
		}

		return fmt.Errorf("%s (pid %d): %w", executable, process.Pid(), ErrAlreadyRunning)
	}

	return nil
}
