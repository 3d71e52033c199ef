package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	events []string
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.events = append(r.events, "start "+id.String()) }
func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, "error "+id.String())
}
func (r *recordingTestLogger) TestFinished(id TestID, failed bool, _ CapturedOutput) {
	if failed {
		r.events = append(r.events, "failed "+id.String())
	} else {
		r.events = append(r.events, "passed "+id.String())
	}
}
func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, "skipped "+id.String())
}

func TestRunRecordsPassesAndFailures(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("good", func(c *Context) {})
		c.Run("bad", func(c *Context) {
			c.Errorf("went wrong: %d", 1)
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "bad", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "went wrong: 1", results.Failures[0].Errors[0].Error())
	assert.Equal(t, []string{"start good", "passed good", "start bad", "error bad", "failed bad"}, logger.events)
}

func TestFailNowStopsTest(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("fails", func(c *Context) {
			require.Fail(c, "nope")
			reached = true
		})
	})
	assert.False(t, reached)
	assert.False(t, results.OK())
}

func TestPanicIsReportedAsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic("boom")
		})
	})
	require.Len(t, results.Failures, 1)
	assert.True(t, strings.HasPrefix(results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom"))
}

func TestDeferredFunctionsRunOnEveryExitPath(t *testing.T) {
	var calls []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("passes", func(c *Context) {
			c.Defer(func() { calls = append(calls, "passes") })
		})
		c.Run("fails now", func(c *Context) {
			c.Defer(func() { calls = append(calls, "fails now") })
			c.FailNow()
		})
		c.Run("panics", func(c *Context) {
			c.Defer(func() { calls = append(calls, "panics 1") })
			c.Defer(func() { calls = append(calls, "panics 2") })
			panic("boom")
		})
	})
	assert.Equal(t, []string{"passes", "fails now", "panics 2", "panics 1"}, calls)
	assert.Len(t, results.Failures, 2)
}

func TestDeferredFunctionCanFailTest(t *testing.T) {
	var after bool
	results := Run(nil, nil, func(c *Context) {
		c.Run("cleanup fails", func(c *Context) {
			c.Defer(func() { after = true })
			c.Defer(func() {
				c.Errorf("cleanup problem")
				c.FailNow()
			})
		})
	})
	assert.True(t, after, "later deferred functions still run")
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "cleanup problem", results.Failures[0].Errors[0].Error())
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not today")
		})
	})
	assert.True(t, results.OK())
	assert.Contains(t, logger.events, "skipped skipped")
}

func TestFilterExcludesTests(t *testing.T) {
	var ran []string
	filter := func(id TestID) bool { return id.String() != "outer/excluded" }
	Run(filter, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("included", func(c *Context) { ran = append(ran, "included") })
			c.Run("excluded", func(c *Context) { ran = append(ran, "excluded") })
		})
	})
	assert.Equal(t, []string{"included"}, ran)
}

func TestDebugOutputIsCaptured(t *testing.T) {
	var captured CapturedOutput
	logger := &capturingTestLogger{onFinish: func(o CapturedOutput) { captured = o }}
	Run(nil, logger, func(c *Context) {
		c.Run("debug", func(c *Context) {
			c.Debug("hello %s", "there")
		})
	})
	require.Len(t, captured, 1)
	assert.Equal(t, "hello there", captured[0].Message)
}

type capturingTestLogger struct {
	nullTestLogger
	onFinish func(CapturedOutput)
}

func (c *capturingTestLogger) TestFinished(_ TestID, _ bool, output CapturedOutput) {
	c.onFinish(output)
}
