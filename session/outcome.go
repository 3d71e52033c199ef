package session

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	errorRequestFailed   = "Request failed"
	errorUnexpectedFault = "Unexpected error"
)

// Outcome is the result of one session.
//
// Expected and Received hold complete replies, including the terminator. Expected is only
// set once the whole line was sent; Received is only set once a reply was read.
type Outcome struct {
	Seed     int64                 `json:"seed"`
	Expected string                `json:"expected,omitempty"`
	Received string                `json:"received,omitempty"`
	Error    ldvalue.OptionalString `json:"error"`
}

// Failed reports whether the session did not produce a matching reply. A session with no
// error but with a missing or different reply is a failure too.
func (o Outcome) Failed() bool {
	return o.Error.IsDefined() || o.Expected == "" || o.Expected != o.Received
}

func (o Outcome) String() string {
	expected, received := "<failed to calculate>", "<failed to receive>"
	if o.Expected != "" {
		expected = fmt.Sprintf("%q", o.Expected)
	}
	if o.Received != "" {
		received = fmt.Sprintf("%q", o.Received)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "seed %d: expected %s, received %s", o.Seed, expected, received)
	if o.Error.IsDefined() {
		fmt.Fprintf(&b, ", error: %s", o.Error.StringValue())
	}
	return b.String()
}

func failedOutcome(seed int64, err error) Outcome {
	prefix := errorUnexpectedFault
	if isConnectionError(err) {
		prefix = errorRequestFailed
	}
	return Outcome{Seed: seed, Error: ldvalue.NewOptionalString(fmt.Sprintf("%s: %s", prefix, err))}
}
