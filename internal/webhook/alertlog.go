package webhook

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"

	"github.com/oshokin/p1-alert/internal/logger"
)

const (
	// alertLogMaxAge is how long rotated alert logs are kept.
	alertLogMaxAge = 30 * 24 * time.Hour
	// alertLogRotationTime is the rotation period of the alert log.
	alertLogRotationTime = 24 * time.Hour
)

// AlertLog appends alert records to a daily rotated file.
// The configured path always links to the current file.
type AlertLog struct {
	writer io.WriteCloser
	mu     sync.Mutex
}

// rotationClock is satisfied by benbjohnson/clock clocks.
type rotationClock interface {
	Now() time.Time
}

// OpenAlertLog opens the rotating alert log at path. A nil clock uses the wall clock.
func OpenAlertLog(path string, clk rotationClock) (*AlertLog, error) {
	options := []rotatelogs.Option{
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(alertLogMaxAge),
		rotatelogs.WithRotationTime(alertLogRotationTime),
	}

	if clk != nil {
		options = append(options, rotatelogs.WithClock(clk))
	}

	writer, err := rotatelogs.New(path+".%Y%m%d", options...)
	if err != nil {
		return nil, fmt.Errorf("open alert log %s: %w", path, err)
	}

	return &AlertLog{writer: writer}, nil
}

// Append writes record. Failures are logged, never returned; a nil AlertLog discards records.
func (l *AlertLog) Append(ctx context.Context, record string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := io.WriteString(l.writer, record); err != nil {
		logger.WarnKV(ctx, "Alert log write failed", "error", err)
	}
}

// Close closes the current file.
func (l *AlertLog) Close() error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.writer.Close()
}
