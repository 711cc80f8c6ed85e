package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the guardian-alert binaries.
type Config struct {
	// GatewayURL is the messaging gateway exec endpoint that relays
	// alert texts to the registered guardian chat.
	GatewayURL string `env:"GUARDIAN_GATEWAY_URL"  yaml:"gateway_url"`
	// ListenAddress is the HTTP listen address for the dispatch API.
	ListenAddress string `env:"GUARDIAN_LISTEN_ADDR" yaml:"listen_addr"`
	// ProfileDB is the path to the SQLite database holding user profiles.
	ProfileDB string `env:"GUARDIAN_PROFILE_DB"   yaml:"profile_db"`
	// LocationCommand is the platform helper invocation (name plus
	// arguments) used to acquire a location fix. Empty disables the
	// location collector.
	LocationCommand []string `env:"GUARDIAN_LOCATION_COMMAND" envSeparator:" " yaml:"location_command"`
	// LocationDeadline bounds the wait for a device location fix.
	LocationDeadline time.Duration `env:"GUARDIAN_LOCATION_DEADLINE" yaml:"location_deadline"`
	// DeliveryTimeout is the time budget for a single gateway call.
	DeliveryTimeout time.Duration `env:"GUARDIAN_DELIVERY_TIMEOUT"  yaml:"delivery_timeout"`
	// LogLevel is the minimum level for log output (debug, info, warn, error).
	LogLevel string `env:"GUARDIAN_LOG_LEVEL"    yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "guardian-alert-settings.yaml"

	// DefaultProfileDBFilename is the default filename for the profile database.
	DefaultProfileDBFilename = "guardian-alert-profiles.db"

	// DefaultListenAddress is the default HTTP listen address.
	DefaultListenAddress = ":8080"

	// DefaultLocationDeadline is the default wait budget for a location fix.
	DefaultLocationDeadline = 8 * time.Second

	// DefaultDeliveryTimeout is the default budget for a gateway delivery call.
	DefaultDeliveryTimeout = 15 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errGatewayURLRequired is returned when the gateway URL is missing.
	errGatewayURLRequired = errors.New("gateway URL must be provided")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields. A missing file is not an error
// when the environment provides the required values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting.
func Validate(cfg *Config) error {
	if cfg.GatewayURL == "" {
		return errGatewayURLRequired
	}

	if _, err := url.ParseRequestURI(cfg.GatewayURL); err != nil {
		return fmt.Errorf("invalid gateway URL: %w", err)
	}

	// Set default listen address if not specified.
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	// Set default profile database path if not specified.
	if cfg.ProfileDB == "" {
		cfg.ProfileDB = DefaultProfileDBFilename
	}

	// Set default deadlines if not specified.
	if cfg.LocationDeadline <= 0 {
		cfg.LocationDeadline = DefaultLocationDeadline
	}

	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = DefaultDeliveryTimeout
	}

	return nil
}
