package register

import (
	"context"
	"errors"
	"fmt"

	"github.com/auralink/guardian-alert/internal/config"
	"github.com/auralink/guardian-alert/internal/logger"
	"github.com/auralink/guardian-alert/internal/repository/profile"
)

// Options configures a guardian contact registration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ProfileDB provides an optional profile database path override.
	ProfileDB string
	// UID is the user the guardian contact belongs to.
	UID string
	// ChatID is the guardian contact identifier at the messaging gateway.
	ChatID string
}

// Run registers (or replaces) the guardian contact for a user.
func (o *Options) Run(ctx context.Context) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "guardian-register")

	// Load settings from configuration file.
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	profileDB := cfg.ProfileDB
	if o.ProfileDB != "" {
		profileDB = o.ProfileDB
	}

	store, err := profile.Open(profileDB)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}

	defer func() {
		_ = store.Close()
	}()

	if err = store.SetGuardianChatID(ctx, o.UID, o.ChatID); err != nil {
		return fmt.Errorf("register guardian contact: %w", err)
	}

	logger.InfoKV(ctx, "Guardian contact registered", "uid", o.UID)

	return nil
}

// Validate checks the options before running.
func (o *Options) Validate() error {
	if o.UID == "" {
		return errors.New("uid must be provided")
	}

	if o.ChatID == "" {
		return errors.New("chat id must be provided")
	}

	return nil
}
