package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/p1-alert/internal/config"
	"github.com/oshokin/p1-alert/internal/service/server"
	"github.com/oshokin/p1-alert/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// listenAddress overrides the HTTP listen address.
	listenAddress string
	// grpcAddress overrides the gRPC listen address.
	grpcAddress string
	// logLevel overrides the log level.
	logLevel string
	// skipPrivilegeCheck allows running without root.
	skipPrivilegeCheck bool

	// rootCmd represents the base command for running the alert service.
	rootCmd = &cobra.Command{
		Use:   "p1-alert",
		Short: "Run the P1 alert banner, sound and LED service.",
		Long: `Starts the P1 alert service.

Webhook producers raise an alert with POST /alert or GET /start_event and resolve it
with /stop_event. While an alert is active the banner is shown and both indicator LEDs
run the P1 pattern. After a resolve the banner turns green and hides after a delay.

The same lifecycle can be driven over gRPC with p1-alert-ctl.
Root privileges are required to drive the sysfs LEDs.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return server.Run(ctx, &server.Options{
				ConfigPath:         configPath,
				ListenAddress:      listenAddress,
				GRPCAddress:        grpcAddress,
				LogLevel:           logLevel,
				SkipPrivilegeCheck: skipPrivilegeCheck,
			})
		},
	}
)

// Execute runs the p1-alert CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&listenAddress, "listen", "l", "", "HTTP listen address, overrides listen_addr")
	rootCmd.Flags().StringVar(&grpcAddress, "grpc", "", "gRPC listen address, overrides grpc_addr")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	// Hidden flag for development machines without LEDs or root.
	rootCmd.Flags().BoolVar(&skipPrivilegeCheck, "skip-privilege-check", false, "run without root privileges")

	err := rootCmd.Flags().MarkHidden("skip-privilege-check")
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(initConfigCmd)
}
