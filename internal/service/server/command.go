package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/auralink/guardian-alert/internal/api/http/emergency"
	"github.com/auralink/guardian-alert/internal/collector"
	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/gateway"
	"github.com/auralink/guardian-alert/internal/logger"
	"github.com/auralink/guardian-alert/internal/repository/profile"
	"github.com/auralink/guardian-alert/internal/service/dispatcher"
)

// Options controls the guardian-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
	// ProfileDB provides an optional profile database path override.
	ProfileDB string
}

const (
	// readHeaderTimeout bounds how long a client may take to send headers.
	readHeaderTimeout = 10 * time.Second

	// shutdownTimeout bounds the graceful drain of in-flight requests.
	shutdownTimeout = 15 * time.Second
)

// Run starts the dispatch HTTP server and blocks until the context is
// canceled or the server stops. Loads configuration first, then wires the
// profile store, collectors and gateway client into the dispatcher.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-server")

	// Load configuration first to get server settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Command line options override config values.
	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	profileDB := cfg.ProfileDB
	if opts.ProfileDB != "" {
		profileDB = opts.ProfileDB
	}

	// Open the profile store holding guardian contacts.
	store, err := profile.Open(profileDB)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	// Wire the best-effort signal collectors. Without a configured
	// location helper the location signal is permanently absent.
	var location collector.LocationProvider
	if len(cfg.LocationCommand) > 0 {
		location = collector.NewCommandLocation(cfg.LocationCommand)
	}

	signals := collector.New(
		location,
		collector.NewSysfsBattery(),
		collector.WithLocationDeadline(cfg.LocationDeadline),
	)

	// Create the delivery client for the messaging gateway.
	deliverer, err := gateway.New(cfg.GatewayURL, gateway.WithCallTimeout(cfg.DeliveryTimeout))
	if err != nil {
		return fmt.Errorf("create gateway client: %w", err)
	}

	service := dispatcher.NewService(store, signals, deliverer)

	mux := http.NewServeMux()
	api.NewHandler(service).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Guardian server listening",
		"listen_address", listenAddress,
		"profile_db", profileDB,
		"location_deadline", cfg.LocationDeadline.String(),
	)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = httpServer.Shutdown(drainCtx)
		close(done)
	}()

	if err = httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}
