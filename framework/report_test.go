package framework

import (
	"errors"
	"os"
	"testing"

	"github.com/goccy/go-json"
	helpers "github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport(t *testing.T) {
	failed := TestResult{TestID: TestID{Path: []string{"b"}}, Errors: []error{errors.New("broken")}}
	results := Results{
		Tests: []TestResult{
			{TestID: TestID{Path: []string{"a"}}},
			failed,
			{TestID: TestID{Path: []string{"c"}}, Skipped: true},
			{},
		},
		Failures: []TestResult{failed},
	}

	r := NewReport("run-1", results)

	assert.Equal(t, "run-1", r.RunID)
	assert.False(t, r.OK)
	assert.Equal(t, []ReportedTest{
		{ID: "a", Status: StatusPassed},
		{ID: "b", Status: StatusFailed, Errors: []string{"broken"}},
		{ID: "c", Status: StatusSkipped},
	}, r.Tests)
}

func TestReportWriteFile(t *testing.T) {
	r := Report{RunID: "run-2", OK: true, Tests: []ReportedTest{{ID: "a", Status: StatusPassed}}}

	helpers.WithTempFile(func(path string) {
		require.NoError(t, r.WriteFile(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded Report
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, r, decoded)
	})
}
