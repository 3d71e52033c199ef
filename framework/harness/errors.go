package harness

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// StartupError means the server could not be launched, or exited during the startup checks.
// No connections are attempted after a StartupError.
type StartupError struct {
	// Err is set if the process could not be launched at all.
	Err error
	// ExitCode is set if the process exited on its own.
	ExitCode ldvalue.OptionalInt
}

func (e *StartupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server process could not be started: %s", e.Err)
	}
	return fmt.Sprintf("server process failed to start up properly, returned: %d", e.ExitCode.IntValue())
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// ShutdownError means the server did not exit cleanly after being interrupted.
type ShutdownError struct {
	// Forced is true if the server had to be killed.
	Forced   bool
	ExitCode ldvalue.OptionalInt
	Err      error
}

func (e *ShutdownError) Error() string {
	switch {
	case e.Forced && e.Err != nil:
		return fmt.Sprintf("failed to properly shut down the server: %s", e.Err)
	case e.Forced:
		return "failed to properly shut down the server: it did not exit after being interrupted"
	default:
		return fmt.Sprintf("failed to shut down the server properly, return code: %d", e.ExitCode.IntValue())
	}
}

func (e *ShutdownError) Unwrap() error {
	return e.Err
}
