// Package server wires the dispatch stack into the guardian-server
// process: configuration, profile store, signal collectors, gateway client,
// HTTP API and metrics endpoint, with graceful shutdown on signals.
package server
