package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/service/server"
	"github.com/auralink/guardian-alert/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// profileDB path to the SQLite profile database.
	profileDB string

	// rootCmd represents the base command for running the dispatch server.
	rootCmd = &cobra.Command{
		Use:   "guardian-server [listen-address]",
		Short: "Run the emergency alert dispatch server.",
		Long: `Starts the HTTP server that dispatches emergency alerts to registered guardians.

The server exposes the dispatch API, a health endpoint and Prometheus metrics.
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Guardian contacts are read from the SQLite profile database; alert texts are
relayed through the configured messaging gateway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			return server.Run(ctx, &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				ProfileDB:     profileDB,
			})
		},
	}
)

// Execute runs the guardian-server CLI and exits with non-zero status on error.
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
	rootCmd.Flags().
		StringVarP(&profileDB, "profile-db", "p", "", "path to the SQLite profile database")
}
