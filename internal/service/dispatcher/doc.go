// Package dispatcher implements the emergency alert dispatch orchestrator.
//
// A dispatch resolves the guardian contact, gathers best-effort context
// signals under deadline, composes the alert payload and pushes it through
// the messaging gateway, classifying every failure into the closed result
// taxonomy. Missing context never blocks or fails a dispatch; only contact
// resolution and delivery can.
package dispatcher
