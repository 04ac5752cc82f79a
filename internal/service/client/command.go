package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	control "github.com/oshokin/p1-alert/internal/api/grpc/alert"
	"github.com/oshokin/p1-alert/internal/config"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/logger"
)

// Options configures the p1-alert-ctl operations.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides the gRPC address from config when specified.
	ServerAddress string
	// Event is the lifecycle event pushed by Run.
	Event domain.Event
	// Interval is the retry delay of Run and the polling interval of Watch.
	Interval time.Duration
}

// DefaultInterval is the retry and polling delay when Options.Interval is unset.
const DefaultInterval = 1 * time.Second

var (
	// ErrSuperseded is returned by Run when the queue drained without reaching
	// the requested lifecycle: the event was coalesced away or overridden by a later one.
	ErrSuperseded = errors.New("event superseded by another producer")

	// errInvalidEvent is returned when Options.Event is not a lifecycle event.
	errInvalidEvent = errors.New("event must be raise or resolve")
)

// Run pushes opts.Event and polls until the queue drains. It returns
// ErrSuperseded when the drained lifecycle differs from the requested one.
// Transport failures are retried until ctx is cancelled.
func Run(ctx context.Context, opts *Options) (domain.Status, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "p1-alert-ctl")

	if !opts.Event.Valid() {
		return domain.Status{}, errInvalidEvent
	}

	desired := domain.Active
	if opts.Event == domain.Resolve {
		desired = domain.Resolved
	}

	// Identify current user and hostname for audit logging.
	actor, err := detectActor()
	if err != nil {
		return domain.Status{}, err
	}

	client, serverAddress, err := connect(ctx, opts)
	if err != nil {
		return domain.Status{}, err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Pushing lifecycle event",
		"server_address", serverAddress,
		"event", opts.Event.String(),
		"actor", actor.String())

	submitted := false

	// attempt submits once, then polls until the event is applied.
	// Re-submitting after a success would toggle state pushed by someone else.
	attempt := func() (domain.Status, bool, error) {
		var (
			st  domain.Status
			err error
		)

		if submitted {
			st, err = client.GetState(ctx)
		} else {
			st, err = submit(ctx, client, opts.Event, actor)
			submitted = err == nil
		}

		if err != nil {
			// Log error but continue retrying for transient failures.
			logger.ErrorKV(ctx, "Control call failed", "error", err)

			return st, false, nil
		}

		if st.Queued > 0 {
			return st, false, nil
		}

		if st.Lifecycle != desired {
			return st, true, fmt.Errorf("%w: lifecycle is %s", ErrSuperseded, st.Lifecycle)
		}

		return st, true, nil
	}

	if st, done, err := attempt(); done {
		return confirm(ctx, st, err)
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(interval(opts))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.Status{}, ctx.Err()
		case <-ticker.C:
			if st, done, err := attempt(); done {
				return confirm(ctx, st, err)
			}
		}
	}
}

// confirm logs the outcome of Run.
func confirm(ctx context.Context, st domain.Status, err error) (domain.Status, error) {
	if err != nil {
		logger.WarnKV(ctx, "Lifecycle event not applied", "status", FormatStatus(st), "error", err)

		return st, err
	}

	logger.Infof(ctx, "Lifecycle confirmed: %s", FormatStatus(st))

	return st, nil
}

// State returns the current lifecycle status.
func State(ctx context.Context, opts *Options) (domain.Status, error) {
	ctx = logger.WithName(ctx, "p1-alert-ctl")

	client, _, err := connect(ctx, opts)
	if err != nil {
		return domain.Status{}, err
	}

	defer func() {
		_ = client.Close()
	}()

	st, err := client.GetState(ctx)
	if err != nil {
		return domain.Status{}, fmt.Errorf("get state: %w", err)
	}

	return st, nil
}

// Watch polls the state until ctx is cancelled and logs every lifecycle change.
func Watch(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "p1-alert-watch")

	client, serverAddress, err := connect(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Watching lifecycle", "server_address", serverAddress, "interval", interval(opts).String())

	ticker := time.NewTicker(interval(opts))
	defer ticker.Stop()

	var (
		last  domain.Status
		known bool
	)

	for {
		st, err := client.GetState(ctx)

		switch {
		case err != nil:
			logger.ErrorKV(ctx, "Get state failed", "error", err)
		case !known || st.Lifecycle != last.Lifecycle || st.Sequencer != last.Sequencer:
			logger.Infof(ctx, "Lifecycle: %s", FormatStatus(st))

			last, known = st, true
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")

			return nil
		case <-ticker.C:
		}
	}
}

// FormatStatus converts a status to a readable line.
func FormatStatus(st domain.Status) string {
	changedAt := "<never>"
	if !st.ChangedAt.IsZero() {
		changedAt = st.ChangedAt.Format(time.RFC3339)
	}

	result := fmt.Sprintf("%s, sequencer %s, %d queued (changed %s)", st.Lifecycle, st.Sequencer, st.Queued, changedAt)
	if st.HidePending {
		result += ", banner hide pending"
	}

	return result
}

// connect loads settings and dials the control surface.
func connect(ctx context.Context, opts *Options) (*control.Client, string, error) {
	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.GRPCAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	client, err := control.Dial(ctx, serverAddress, control.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return nil, "", err
	}

	return client, serverAddress, nil
}

func submit(ctx context.Context, client *control.Client, event domain.Event, actor *domain.Actor) (domain.Status, error) {
	if event == domain.Raise {
		return client.Raise(ctx, actor)
	}

	return client.Resolve(ctx, actor)
}

func interval(opts *Options) time.Duration {
	if opts.Interval <= 0 {
		return DefaultInterval
	}

	return opts.Interval
}
