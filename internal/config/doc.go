// Package config loads, validates and persists the YAML settings shared by
// the guardian-alert binaries. Every field can be overridden through
// GUARDIAN_* environment variables, so containerized deployments may run
// without a settings file at all.
package config
