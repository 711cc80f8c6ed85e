package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/auralink/guardian-alert/internal/collector"
	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/gateway"
	"github.com/auralink/guardian-alert/internal/logger"
	"github.com/auralink/guardian-alert/internal/repository/profile"
	"github.com/auralink/guardian-alert/internal/service/dispatcher"
)

// Options configures a one-shot alert dispatch from the command line.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// UID is the user on whose behalf the alert is dispatched.
	UID string
	// DisplayName is the optional reporter name.
	DisplayName string
	// FallbackNote is the default note used when Note is absent.
	FallbackNote string
	// Note is the optional free-text note.
	Note string
}

// ErrDispatchFailed indicates the dispatch terminated in a failure state.
var ErrDispatchFailed = errors.New("dispatch failed")

// Run performs exactly one alert dispatch and reports its outcome.
// A failed dispatch returns ErrDispatchFailed wrapped with the localized
// message so the CLI exits non-zero; re-running the command is the retry.
func (o *Options) Run(ctx context.Context) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-send")

	// Load settings from configuration file.
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Open the profile store holding guardian contacts.
	store, err := profile.Open(cfg.ProfileDB)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	// Wire the same collectors the server uses.
	var location collector.LocationProvider
	if len(cfg.LocationCommand) > 0 {
		location = collector.NewCommandLocation(cfg.LocationCommand)
	}

	signals := collector.New(
		location,
		collector.NewSysfsBattery(),
		collector.WithLocationDeadline(cfg.LocationDeadline),
	)

	deliverer, err := gateway.New(cfg.GatewayURL, gateway.WithCallTimeout(cfg.DeliveryTimeout))
	if err != nil {
		return fmt.Errorf("create gateway client: %w", err)
	}

	service := dispatcher.NewService(store, signals, deliverer)

	logger.InfoKV(ctx, "Dispatching emergency alert", "uid", o.UID)

	result := service.Dispatch(ctx, dispatcher.Request{
		UID:          o.UID,
		DisplayName:  o.DisplayName,
		FallbackNote: o.FallbackNote,
		Note:         o.Note,
	})

	if !result.OK() {
		return fmt.Errorf("%w: %s (%s)", ErrDispatchFailed, result.Reason.Message(), result.Reason)
	}

	logger.Info(ctx, "Emergency alert delivered")

	return nil
}

// Validate checks the options before running.
func (o *Options) Validate() error {
	if o.UID == "" {
		return errors.New("uid must be provided")
	}

	return nil
}
