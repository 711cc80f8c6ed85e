// Package trigger implements the one-shot command-line dispatch: the
// server-side analog of tapping the emergency button. It builds the same
// stack as the server, performs a single dispatch and exits with the
// localized outcome.
package trigger
