// Package emergency exposes the dispatch orchestrator over HTTP/JSON.
//
// The transport stays deliberately thin: it validates the request shape,
// delegates to the Service interface and renders the terminal result with
// its localized error message. Dispatch failures are contract values
// (ok=false), not HTTP errors.
package emergency
