// Package gateway implements the delivery client for the external
// message-relay service.
//
// A delivery is a single best-effort GET request carrying the chat id and
// rendered alert text as query parameters. The client distinguishes a call
// cancelled mid-flight (ErrAborted) from every other transport or gateway
// failure so the dispatcher can surface an accurate status.
package gateway
