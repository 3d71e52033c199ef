package framework

import (
	"io"
	"os"

	"github.com/goccy/go-json"
)

// Report is the machine-readable form of a test run.
type Report struct {
	RunID string         `json:"runId"`
	OK    bool           `json:"ok"`
	Tests []ReportedTest `json:"tests"`
}

type ReportedTest struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Errors []string `json:"errors,omitempty"`
}

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

func NewReport(runID string, results Results) Report {
	failed := make(map[string]bool, len(results.Failures))
	for _, f := range results.Failures {
		failed[f.TestID.String()] = true
	}
	r := Report{RunID: runID, OK: results.OK(), Tests: []ReportedTest{}}
	for _, t := range results.Tests {
		if len(t.TestID.Path) == 0 {
			continue // the root context is not a test
		}
		rt := ReportedTest{ID: t.TestID.String(), Status: StatusPassed}
		switch {
		case t.Skipped:
			rt.Status = StatusSkipped
		case failed[rt.ID]:
			rt.Status = StatusFailed
		}
		for _, err := range t.Errors {
			rt.Errors = append(rt.Errors, err.Error())
		}
		r.Tests = append(r.Tests, rt)
	}
	return r
}

func (r Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path, replacing any existing file.
func (r Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
