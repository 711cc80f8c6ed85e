package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/service/register"
	"github.com/auralink/guardian-alert/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// profileDB path to the SQLite profile database.
	profileDB string

	// rootCmd represents the base command for registering a guardian contact.
	rootCmd = &cobra.Command{
		Use:   "guardian-register <uid> <chat-id>",
		Short: "Register the guardian contact for a user.",
		Long: `Stores the guardian chat id in the user's profile record.

A user must have a registered guardian contact before any emergency alert
can be dispatched on their behalf. Registering again replaces the previous
contact.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			opts := &register.Options{
				ConfigPath: cfgPath,
				ProfileDB:  profileDB,
				UID:        args[0],
				ChatID:     args[1],
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			return opts.Run(ctx)
		},
	}
)

// Execute runs the guardian-register CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&profileDB, "profile-db", "p", "", "path to the SQLite profile database")
}
