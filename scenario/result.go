package scenario

import (
	"fmt"
	"strings"

	"github.com/linehash/hash-contract-tests/session"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Result is everything a scenario produced.
type Result struct {
	RunID    string            `json:"runId"`
	Outcomes []session.Outcome `json:"outcomes"`
	// ExitCode is undefined if the server never started.
	ExitCode ldvalue.OptionalInt `json:"exitCode"`
}

// Failures returns the outcomes of every session that did not get a matching reply.
func (r Result) Failures() []session.Outcome {
	var failed []session.Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

func (r Result) OK() bool {
	return len(r.Failures()) == 0
}

// Err describes all failed sessions, or returns nil if there were none.
func (r Result) Err() error {
	failed := r.Failures()
	if len(failed) == 0 {
		return nil
	}
	return &SessionFailuresError{Failed: failed, Total: len(r.Outcomes)}
}

// SessionFailuresError lists every session of a scenario that failed.
type SessionFailuresError struct {
	Failed []session.Outcome
	Total  int
}

func (e *SessionFailuresError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "requests failed: %d/%d", len(e.Failed), e.Total)
	for _, o := range e.Failed {
		b.WriteString("\n")
		b.WriteString(o.String())
	}
	return b.String()
}
