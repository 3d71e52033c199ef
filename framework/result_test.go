package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintResults(t *testing.T) {
	a := TestResult{TestID: TestID{Path: []string{"a"}}}
	b := TestResult{TestID: TestID{Path: []string{"group", "b"}}}

	var buf bytes.Buffer
	PrintResults(&buf, Results{Tests: []TestResult{{}, a, b}})
	assert.Equal(t, "All tests passed (2)\n", buf.String())

	buf.Reset()
	PrintResults(&buf, Results{Tests: []TestResult{{}, a, b}, Failures: []TestResult{b}})
	assert.Equal(t, "FAILED TESTS (1 of 2):\n  * group/b\n", buf.String())
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var filters RegexFilters
	_ = filters.MustNotMatch.Set("multiple")
	PrintFilterDescription(&buf, filters)
	assert.Equal(t, "Some tests will be skipped based on the filter criteria for this test run:\n"+
		"  skip any matching \"multiple\"\n\n", buf.String())
}
