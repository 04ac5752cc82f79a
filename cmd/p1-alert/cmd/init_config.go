package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/p1-alert/internal/config"
)

// errConfigExists is returned when init-config would overwrite a file.
var errConfigExists = errors.New("settings file already exists, use --force to overwrite")

var (
	// force allows overwriting an existing settings file.
	force bool

	// initConfigCmd writes the default settings.
	initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default settings file.",
		Long: `Writes every setting with its default value, ready for editing.
The path defaults to ` + config.DefaultConfigFilename + ` in the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFilename
			if len(args) > 0 {
				path = args[0]
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s: %w", path, errConfigExists)
				}
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default settings written to %s\n", path)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
}
