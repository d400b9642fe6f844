package testmgr

import (
	"fmt"
	"time"
)

// TimeoutMessage is the failure message of a test that did not report an
// outcome before its timeout elapsed.
const TimeoutMessage = "Timed out."

type FailureRecord struct {
	Test    TestDescriptor
	Message string
	// Log lines captured while the test was running.
	LogLines []string
}

type TestResult struct {
	Test     TestDescriptor
	Status   TestStatus
	Message  string
	Duration time.Duration
}

// Report is the immutable summary of a finished run. Every accessor returns a
// copy, so it is safe to share between goroutines.
type Report struct {
	runID    string
	total    int
	failures []FailureRecord
	results  []TestResult
	duration time.Duration
}

// NewReport builds a report. Panics if there are more failures than tests.
func NewReport(runID string, total int, failures []FailureRecord, results []TestResult, duration time.Duration) *Report {
	if total < 0 || len(failures) > total {
		panic(fmt.Sprintf("inconsistent report: %d failures out of %d tests", len(failures), total))
	}

	return &Report{
		runID:    runID,
		total:    total,
		failures: cloneFailures(failures),
		results:  append([]TestResult(nil), results...),
		duration: duration,
	}
}

func (r *Report) RunID() string {
	return r.runID
}

func (r *Report) Total() int {
	return r.total
}

func (r *Report) FailedCount() int {
	return len(r.failures)
}

func (r *Report) PassedCount() int {
	return r.total - len(r.failures)
}

// Ok returns true when no test failed.
func (r *Report) Ok() bool {
	return len(r.failures) == 0
}

// Failures returns the failed tests in execution order.
func (r *Report) Failures() []FailureRecord {
	return cloneFailures(r.failures)
}

// Results returns the outcome of every test in execution order.
func (r *Report) Results() []TestResult {
	return append([]TestResult(nil), r.results...)
}

func (r *Report) Duration() time.Duration {
	return r.duration
}

func cloneFailures(failures []FailureRecord) []FailureRecord {
	if failures == nil {
		return nil
	}

	out := make([]FailureRecord, len(failures))
	for i, f := range failures {
		out[i] = f
		out[i].LogLines = append([]string(nil), f.LogLines...)
	}
	return out
}
