package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/service/trigger"
	"github.com/auralink/guardian-alert/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// displayName is the optional reporter name shown to the guardian.
	displayName string
	// note is the optional free-text note attached to the alert.
	note string
	// fallbackNote is used when no note is provided.
	fallbackNote string

	// rootCmd represents the base command for dispatching one alert.
	rootCmd = &cobra.Command{
		Use:   "guardian-send <uid>",
		Short: "Dispatch an emergency alert to the registered guardian.",
		Long: `Dispatches a single emergency alert on behalf of the given user.

Resolves the registered guardian contact, gathers the device location and
battery state on a best-effort basis, and relays the composed alert through
the messaging gateway. The command exits non-zero when the dispatch fails;
running it again is the retry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			opts := &trigger.Options{
				ConfigPath:   cfgPath,
				UID:          args[0],
				DisplayName:  displayName,
				FallbackNote: fallbackNote,
				Note:         note,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			return opts.Run(ctx)
		},
	}
)

// Execute runs the guardian-send CLI and exits with non-zero status on error.
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
	rootCmd.Flags().StringVarP(&displayName, "name", "n", "", "reporter name shown to the guardian")
	rootCmd.Flags().StringVar(&note, "note", "", "free-text note attached to the alert")
	rootCmd.Flags().StringVar(&fallbackNote, "fallback-note", "", "note used when --note is empty")
}
