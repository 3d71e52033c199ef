package hashtests

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/linehash/hash-contract-tests/config"
	"github.com/linehash/hash-contract-tests/framework"
	"github.com/linehash/hash-contract-tests/internal/fakeserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, mode fakeserver.Mode) config.Config {
	t.Setenv(fakeserver.EnvMode, string(mode))
	port, err := fakeserver.FreePort()
	require.NoError(t, err)
	c := config.Default()
	c.ServerPath = os.Args[0]
	c.Port = port
	c.StartupInterval = time.Millisecond * 250
	c.ShutdownTimeout = time.Second
	c.Connections = 20
	c.Lines = 3
	return c
}

// onlyTest selects one test and its parents.
func onlyTest(id string) framework.Filter {
	return func(t framework.TestID) bool {
		name := t.String()
		return name == id || strings.HasPrefix(id, name+"/")
	}
}

func failureIDs(results framework.Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func errorText(results framework.Results) string {
	var parts []string
	for _, f := range results.Failures {
		for _, err := range f.Errors {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, "\n")
}

func TestSuitePassesAgainstConformingServer(t *testing.T) {
	results := RunTestSuite(testConfig(t, fakeserver.ModeConforming), nil, nil, nil)

	assert.True(t, results.OK(), "failures: %v\n%s", failureIDs(results), errorText(results))
	assert.NotEmpty(t, results.Tests)
}

func TestSuiteFailsAgainstMismatchingServer(t *testing.T) {
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("multiple connections"))

	results := RunTestSuite(testConfig(t, fakeserver.ModeWrongDigest), filters.AsFilter, nil, nil)

	assert.Equal(t, []string{"multiple connections/concurrent sessions with distinct seeds"}, failureIDs(results))
	text := errorText(results)
	assert.Contains(t, text, "requests failed: 20/20")
	for _, seed := range []string{"seed 1:", "seed 10:", "seed 20:"} {
		assert.Contains(t, text, seed)
	}
}

func TestSuiteFailsWhenTerminatorIsMissing(t *testing.T) {

	results := RunTestSuite(testConfig(t, fakeserver.ModeNoTerminator), onlyTest("single connection/predefined line"), nil, nil)

	assert.Equal(t, []string{"single connection/predefined line"}, failureIDs(results))
}

func TestSuiteFailsWhenServerDoesNotStart(t *testing.T) {

	results := RunTestSuite(testConfig(t, fakeserver.ModeExitImmediately), onlyTest("single connection/generated line"), nil, nil)

	assert.Equal(t, []string{"single connection/generated line"}, failureIDs(results))
	assert.Contains(t, errorText(results), "server process failed to start up properly, returned: 3")
}

func TestSuiteFailsWhenServerIgnoresInterrupt(t *testing.T) {
	cfg := testConfig(t, fakeserver.ModeIgnoreInterrupt)
	cfg.ShutdownTimeout = time.Millisecond * 300

	results := RunTestSuite(cfg, onlyTest("single connection/generated line"), nil, nil)

	assert.Equal(t, []string{"single connection/generated line"}, failureIDs(results))
	assert.Contains(t, errorText(results), "failed to properly shut down")
}

func TestSuiteFailsWhenServerExitsWithErrorCode(t *testing.T) {

	results := RunTestSuite(testConfig(t, fakeserver.ModeBadExitCode), onlyTest("sequential lines/several lines over one connection"), nil, nil)

	assert.Equal(t, []string{"sequential lines/several lines over one connection"}, failureIDs(results))
	assert.Contains(t, errorText(results), "return code: 5")
}

func TestSuiteFailsWhenServerForSequentialLinesDoesNotStart(t *testing.T) {

	results := RunTestSuite(testConfig(t, fakeserver.ModeExitImmediately), onlyTest("sequential lines/several lines over one connection"), nil, nil)

	assert.Equal(t, []string{"sequential lines/several lines over one connection"}, failureIDs(results))
	assert.Contains(t, errorText(results), "server did not start")
}
