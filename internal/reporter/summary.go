package reporter

import (
	"fmt"
	"strings"

	"cstest/internal/testmgr"
)

type TestSummary struct {
	total    int
	passed   int
	failed   int
	timedOut int
}

func newSummaryFromReport(report *testmgr.Report) TestSummary {
	summary := TestSummary{total: report.Total()}

	for _, result := range report.Results() {
		switch result.Status {
		case testmgr.TestStatusPassed:
			summary.passed++
		case testmgr.TestStatusFailed:
			summary.failed++
		case testmgr.TestStatusTimedOut:
			summary.timedOut++
		default:
			panic("Invalid test status")
		}
	}

	return summary
}

// Returns the worst status in the summary. Any timeout trumps plain failures.
func (s TestSummary) Status() TestSummaryStatus {
	if s.timedOut > 0 {
		return TestStatusTimedOut
	}
	if s.failed > 0 {
		return TestStatusFailed
	}
	return TestStatusOk
}

func (s TestSummary) Summary() string {
	var out []string

	if s.failed > 0 {
		out = append(out, fmt.Sprintf("failed: %d", s.failed))
	}

	if s.timedOut > 0 {
		out = append(out, fmt.Sprintf("timed out: %d", s.timedOut))
	}

	out = append(out, fmt.Sprintf("passed: %d", s.passed))
	out = append(out, fmt.Sprintf("total: %d", s.total))

	return strings.Join(out, "; ")
}

// ExitError returns an error if any test in the report failed.
func ExitError(report *testmgr.Report) error {
	if report == nil {
		return fmt.Errorf("no report was produced")
	}

	if report.FailedCount() > 0 {
		return fmt.Errorf("test run finished with %d failed tests out of %d", report.FailedCount(), report.Total())
	}

	return nil
}
