package framework

import "github.com/rs/zerolog"

// TestLogger receives test lifecycle events as the suite runs.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

type multiTestLogger []TestLogger

// MultiTestLogger forwards every event to each of the loggers in order. Nil entries are ignored.
func MultiTestLogger(loggers ...TestLogger) TestLogger {
	var m multiTestLogger
	for _, l := range loggers {
		if l != nil {
			m = append(m, l)
		}
	}
	return m
}

func (m multiTestLogger) TestStarted(id TestID) {
	for _, l := range m {
		l.TestStarted(id)
	}
}

func (m multiTestLogger) TestError(id TestID, err error) {
	for _, l := range m {
		l.TestError(id, err)
	}
}

func (m multiTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	for _, l := range m {
		l.TestFinished(id, failed, debugOutput)
	}
}

func (m multiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m {
		l.TestSkipped(id, reason)
	}
}

type zerologTestLogger struct {
	logger zerolog.Logger
}

// ZerologTestLogger records test events as structured log entries. Debug output is not included.
func ZerologTestLogger(logger zerolog.Logger) TestLogger {
	return zerologTestLogger{logger: logger}
}

func (z zerologTestLogger) TestStarted(id TestID) {
	z.logger.Debug().Str("test", id.String()).Msg("Test started")
}

func (z zerologTestLogger) TestError(id TestID, err error) {
	z.logger.Warn().Str("test", id.String()).Err(err).Msg("Test error")
}

func (z zerologTestLogger) TestFinished(id TestID, failed bool, _ CapturedOutput) {
	ev := z.logger.Info()
	if failed {
		ev = z.logger.Error()
	}
	ev.Str("test", id.String()).Bool("failed", failed).Msg("Test finished")
}

func (z zerologTestLogger) TestSkipped(id TestID, reason string) {
	z.logger.Debug().Str("test", id.String()).Str("reason", reason).Msg("Test skipped")
}
