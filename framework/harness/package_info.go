// Package harness starts and stops the server under test.
//
// The server is an opaque executable that takes its listen port as its only argument. A
// ServerProcess owns the subprocess for its whole life and moves through the states
// starting, running, stopping, and exited; nothing else touches the process.
package harness
