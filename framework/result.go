package framework

import (
	"fmt"
	"io"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of a test run.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintf(w, "All tests passed (%d)\n", countRun(results))
		return
	}
	fmt.Fprintf(w, "FAILED TESTS (%d of %d):\n", len(results.Failures), countRun(results))
	for _, f := range results.Failures {
		fmt.Fprintf(w, "  * %s\n", f.TestID)
	}
}

func countRun(results Results) int {
	n := 0
	for _, t := range results.Tests {
		if len(t.TestID.Path) > 0 && !t.Skipped {
			n++
		}
	}
	return n
}
