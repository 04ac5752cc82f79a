package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/p1-alert/internal/config"
	domain "github.com/oshokin/p1-alert/internal/domain/alert"
	"github.com/oshokin/p1-alert/internal/service/client"
	"github.com/oshokin/p1-alert/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the gRPC address from settings.
	serverAddress string
	// interval is the retry and polling delay.
	interval time.Duration

	// rootCmd is the operator CLI of the P1 alert service.
	rootCmd = &cobra.Command{
		Use:   "p1-alert-ctl",
		Short: "Raise, resolve and inspect P1 alerts over gRPC.",
		Long: `Operator CLI for the P1 alert service.

raise and resolve push an event and keep retrying until the service reports the
requested lifecycle. state prints the current lifecycle once; watch logs every change.`,
		SilenceUsage: true,
	}

	raiseCmd = &cobra.Command{
		Use:   "raise",
		Short: "Raise the P1 alert and wait until it is active.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return push(cmd, domain.Raise)
		},
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the P1 alert and wait until it is resolved.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return push(cmd, domain.Resolve)
		},
	}

	stateCmd = &cobra.Command{
		Use:   "state",
		Short: "Print the current lifecycle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			st, err := client.State(ctx, options())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), client.FormatStatus(st))

			return nil
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Poll the lifecycle and log every change until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Watch(ctx, options())
		},
	}
)

// Execute runs the p1-alert-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func options() *client.Options {
	return &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Interval:      interval,
	}
}

func push(cmd *cobra.Command, event domain.Event) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	opts := options()
	opts.Event = event

	st, err := client.Run(ctx, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), client.FormatStatus(st))

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "gRPC address of p1-alert, overrides grpc_addr")
	rootCmd.PersistentFlags().DurationVarP(&interval, "interval", "i", client.DefaultInterval, "retry and polling interval")

	rootCmd.AddCommand(raiseCmd, resolveCmd, stateCmd, watchCmd)
}
