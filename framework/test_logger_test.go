package framework

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMultiTestLoggerForwardsToEach(t *testing.T) {
	a, b := &recordingTestLogger{}, &recordingTestLogger{}
	Run(nil, MultiTestLogger(a, nil, b), func(c *Context) {
		c.Run("x", func(c *Context) {})
	})
	assert.Equal(t, []string{"start x", "passed x"}, a.events)
	assert.Equal(t, a.events, b.events)
}

func TestZerologTestLoggerRecordsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := ZerologTestLogger(zerolog.New(&buf))
	Run(nil, logger, func(c *Context) {
		c.Run("bad", func(c *Context) {
			c.Errorf("nope")
		})
	})
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"test":"bad"`)
	assert.Contains(t, out, `"failed":true`)
}
