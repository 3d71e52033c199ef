// Package session drives single connections to the server under test.
//
// A session sends one generated line over its own connection, reads the reply, and records
// the result as an Outcome. Faults are captured in the Outcome rather than returned as errors,
// so that a batch of sessions always produces a complete report.
package session
