package hashtests

import (
	"context"
	"errors"

	"github.com/linehash/hash-contract-tests/config"
	"github.com/linehash/hash-contract-tests/framework"
	"github.com/linehash/hash-contract-tests/framework/harness"
	"github.com/linehash/hash-contract-tests/scenario"
	"github.com/linehash/hash-contract-tests/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type environment struct {
	config config.Config
	logger framework.Logger
}

// T represents a test or subtest in the contract test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner. To make test assertions, use the assert and require packages,
// passing the *T as if it were a *testing.T.
//
// It also knows how to run scenarios against the server under test: every scenario gets a
// fresh server process, which is always stopped when the scenario is over, and a server that
// does not shut down cleanly fails the test.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t.env.logger.Printf("Running test: %s", c.ID())
		action(&T{context: c, env: t.env})
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Config returns the settings of this test run.
func (t *T) Config() config.Config {
	return t.env.config
}

func (t *T) coordinator() *scenario.Coordinator {
	c := t.env.config
	return scenario.NewCoordinator(c.ServerParams(), c.SessionParams(), c.Symbols, c.Workers, t.context.DebugLogger())
}

// RunScenario starts the server, drives it, and stops it.
//
// If the server does not start, the test fails and exits immediately. If it does not shut
// down cleanly, the test fails after the outcomes have been returned.
func (t *T) RunScenario(drive scenario.DriveFunc) scenario.Result {
	result, err := t.coordinator().RunWith(context.Background(), drive)
	t.requireServerLifecycle(result, err)
	return result
}

// RunSessions is RunScenario with one concurrent session per seed.
func (t *T) RunSessions(seeds ...int64) scenario.Result {
	result, err := t.coordinator().Run(context.Background(), seeds)
	t.requireServerLifecycle(result, err)
	return result
}

// StartServer starts a server for the rest of the test, failing the test immediately if it
// does not start. The server is stopped when the test ends, and the test fails if it does not
// shut down cleanly.
func (t *T) StartServer() *harness.ServerProcess {
	server, err := harness.StartServer(context.Background(), t.env.config.ServerParams(), t.context.DebugLogger())
	require.NoError(t, err, "server did not start")
	t.context.Defer(func() {
		assert.NoError(t, server.Stop(), "server did not shut down cleanly")
	})
	return server
}

func (t *T) requireServerLifecycle(result scenario.Result, err error) {
	if err == nil {
		t.Debug("Scenario %s finished with %d sessions", result.RunID, len(result.Outcomes))
		return
	}
	var startupErr *harness.StartupError
	if errors.As(err, &startupErr) {
		require.NoError(t, err, "server did not start")
	}
	assert.NoError(t, err, "server did not shut down cleanly")
}

// RequireSessionsOK fails the test, listing every failed session, unless all of them got
// the expected reply.
func (t *T) RequireSessionsOK(result scenario.Result) {
	require.NotEmpty(t, result.Outcomes, "no sessions were run")
	require.NoError(t, result.Err())
}

// RequireOutcomeOK fails the test unless a single session got the expected reply.
func (t *T) RequireOutcomeOK(o session.Outcome) {
	if o.Failed() {
		require.Fail(t, "session failed", o.String())
	}
}
