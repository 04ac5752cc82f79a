package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	control "github.com/oshokin/p1-alert/internal/api/grpc/alert"
	webhookapi "github.com/oshokin/p1-alert/internal/api/http"
	"github.com/oshokin/p1-alert/internal/config"
	"github.com/oshokin/p1-alert/internal/logger"
	"github.com/oshokin/p1-alert/internal/platform"
)

// Options controls the p1-alert process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the HTTP listen address from settings.
	ListenAddress string
	// GRPCAddress overrides the gRPC listen address from settings.
	GRPCAddress string
	// LogLevel overrides the log level from settings.
	LogLevel string
	// SkipPrivilegeCheck allows running without root, for development and tests.
	SkipPrivilegeCheck bool
}

// Run starts the service and blocks until ctx is cancelled or a server fails.
// Host checks run before any goroutine is started.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "p1-alert")

	if !opts.SkipPrivilegeCheck {
		if err := platform.RequireRoot(); err != nil {
			return err
		}
	}

	settings, err := loadSettings(ctx, opts)
	if err != nil {
		return err
	}

	if err = platform.EnsureSingleInstance(ctx); err != nil {
		return err
	}

	// Bind both listeners up front so address errors surface before anything runs.
	lc := net.ListenConfig{}

	httpListener, err := lc.Listen(ctx, "tcp", settings.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", settings.ListenAddress, err)
	}

	grpcListener, err := lc.Listen(ctx, "tcp", settings.GRPCAddress)
	if err != nil {
		_ = httpListener.Close()

		return fmt.Errorf("listen on %s: %w", settings.GRPCAddress, err)
	}

	return serve(ctx, settings, clock.New(), httpListener, grpcListener)
}

// loadSettings reads settings and applies command line overrides.
func loadSettings(ctx context.Context, opts *Options) (*config.Config, error) {
	settings, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if opts.GRPCAddress != "" {
		settings.GRPCAddress = opts.GRPCAddress
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	if err = config.Validate(settings); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	if err = logger.SetLevelName(settings.LogLevel); err != nil {
		return nil, err
	}

	return settings, nil
}

// serve runs the controller loop and both servers on the given listeners.
func serve(ctx context.Context, settings *config.Config, clk clock.Clock, httpListener, grpcListener net.Listener) error {
	app := newApplication(ctx, settings, clk)
	defer app.close(ctx)

	httpServer := webhookapi.NewServer(app.handler, settings.Timeout)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(control.UnaryServerInterceptor()))
	control.Register(grpcServer, control.NewServer(app.control))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(control.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	logger.InfoKV(ctx, "P1 alert service starting",
		"listen_address", httpListener.Addr().String(),
		"grpc_address", grpcListener.Addr().String(),
		"poll_interval", settings.PollInterval.String(),
		"hide_delay", settings.HideDelay.String())

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return app.controller.Run(groupCtx)
	})

	group.Go(func() error {
		return httpServer.Serve(groupCtx, httpListener)
	})

	group.Go(func() error {
		// Done channel is closed after GracefulStop finishes to ensure we block
		// until the server fully stops before returning.
		done := make(chan struct{})

		go func() {
			<-groupCtx.Done()
			logger.Info(ctx, "Shutting down gRPC server")
			healthServer.Shutdown()
			grpcServer.GracefulStop()
			close(done)
		}()

		logger.InfoKV(ctx, "gRPC server listening", "listen_address", grpcListener.Addr().String())

		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		<-done
		logger.Info(ctx, "gRPC server stopped")

		return nil
	})

	return group.Wait()
}
