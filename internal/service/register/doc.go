// Package register implements guardian contact registration from the
// command line: it writes the guardian chat id into the user's profile
// record, the prerequisite for any successful dispatch.
package register
