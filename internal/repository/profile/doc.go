// Package profile implements persistence for per-user profile records.
//
// The Store keeps profiles in a SQLite database and exposes a Repository
// interface that the dispatcher depends on. The only projection the
// dispatcher needs is the registered guardian chat id.
package profile
