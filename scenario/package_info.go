// Package scenario runs batches of sessions against one instance of the server under test.
//
// A scenario starts the server, runs its sessions, and always stops the server again, even
// if running the sessions panics. Sessions in a batch are independent: one failing does not
// cancel the others, and every failure appears in the result.
package scenario
