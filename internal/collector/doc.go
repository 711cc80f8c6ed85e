// Package collector gathers the best-effort context signals attached to an
// emergency alert: the device location and battery state.
//
// Each signal has its own deadline and its own provider. Provider failures
// and timeouts are absorbed here and logged; the caller only ever sees a
// settled value or an absent one, never an error. This keeps the critical
// delivery path independent of slow or missing device capabilities.
package collector
