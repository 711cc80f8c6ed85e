package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, format validations and defaulting.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing gateway URL.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Malformed gateway URL.
	cfg = &Config{
		GatewayURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Malformed listen address.
	cfg = &Config{
		GatewayURL:    "https://script.google.com/macros/s/abc/exec",
		ListenAddress: "bad:address",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Okay, defaults filled in.
	cfg = &Config{
		GatewayURL: "https://script.google.com/macros/s/abc/exec",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
	require.Equal(t, DefaultProfileDBFilename, cfg.ProfileDB)
	require.Equal(t, DefaultLocationDeadline, cfg.LocationDeadline)
	require.Equal(t, DefaultDeliveryTimeout, cfg.DeliveryTimeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		GatewayURL:       "https://script.google.com/macros/s/abc/exec",
		ListenAddress:    "127.0.0.1:9090",
		ProfileDB:        "profiles.db",
		LocationDeadline: 3 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.GatewayURL, loaded.GatewayURL)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, 3*time.Second, loaded.LocationDeadline)
}

// TestLoadEnvOverride verifies environment variables take precedence over file values.
func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		GatewayURL: "https://script.google.com/macros/s/abc/exec",
	}
	require.NoError(t, Save(path, cfg))

	t.Setenv("GUARDIAN_GATEWAY_URL", "https://relay.example.com/exec")
	t.Setenv("GUARDIAN_LOG_LEVEL", "debug")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://relay.example.com/exec", loaded.GatewayURL)
	require.Equal(t, "debug", loaded.LogLevel)
}

// TestLoadMissingFile allows environment-only configuration.
func TestLoadMissingFile(t *testing.T) {
	t.Setenv("GUARDIAN_GATEWAY_URL", "https://relay.example.com/exec")

	loaded, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "https://relay.example.com/exec", loaded.GatewayURL)
}
