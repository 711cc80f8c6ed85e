// Package emergency contains core domain types for alert dispatching.
//
// It defines Identity (who is asking for help), the best-effort context
// signals Location and Battery, the composed Payload, and the terminal
// Result with its closed FailureReason taxonomy and localized messages.
package emergency
