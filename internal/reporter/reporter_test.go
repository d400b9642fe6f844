package reporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest/core"
)

func descriptor(t *testing.T, caseName, name string) testmgr.TestDescriptor {
	t.Helper()
	d, err := testmgr.NewTestDescriptor(caseName, name, func(core.Test) {}, time.Second)
	require.NoError(t, err)
	return d
}

func sampleReport(t *testing.T) *testmgr.Report {
	a := descriptor(t, "Basic", "Passes")
	b := descriptor(t, "Basic", "Fails")
	c := descriptor(t, "Slow", "Hangs")

	failures := []testmgr.FailureRecord{
		{Test: b, Message: "boom", LogLines: []string{"\x1b[31mERRO\x1b[0m boom", ""}},
		{Test: c, Message: testmgr.TimeoutMessage},
	}
	results := []testmgr.TestResult{
		{Test: a, Status: testmgr.TestStatusPassed, Duration: 10 * time.Millisecond},
		{Test: b, Status: testmgr.TestStatusFailed, Message: "boom", Duration: 20 * time.Millisecond},
		{Test: c, Status: testmgr.TestStatusTimedOut, Message: testmgr.TimeoutMessage, Duration: time.Second},
	}

	return testmgr.NewReport("run-1", 3, failures, results, 2*time.Second)
}

func TestSummaryFromReport(t *testing.T) {
	summary := newSummaryFromReport(sampleReport(t))

	assert.Equal(t, TestSummary{total: 3, passed: 1, failed: 1, timedOut: 1}, summary)
	assert.Equal(t, TestStatusTimedOut, summary.Status())
	assert.Equal(t, "failed: 1; timed out: 1; passed: 1; total: 3", summary.Summary())

	assert.Equal(t, TestStatusFailed, TestSummary{total: 1, failed: 1}.Status())
	assert.Equal(t, TestStatusOk, TestSummary{total: 1, passed: 1}.Status())
	assert.False(t, TestStatusOk.IsBad())
}

func TestExitError(t *testing.T) {
	assert.Error(t, ExitError(sampleReport(t)))
	assert.Error(t, ExitError(nil))
	assert.NoError(t, ExitError(testmgr.NewReport("run", 0, nil, nil, 0)))
}

func TestConsoleProgress(t *testing.T) {
	log, _ := test.NewNullLogger()
	var buf bytes.Buffer
	c := NewConsole(&buf, log, false)

	c.Progress(descriptor(t, "Basic", "Passes"), 1, 2)
	c.Progress(descriptor(t, "Basic", "Fails"), 2, 2)

	assert.Equal(t, "[1/2] Basic.Passes\n[2/2] Basic.Fails\n", buf.String())
}

func TestConsoleDevopsGroups(t *testing.T) {
	log, _ := test.NewNullLogger()
	var buf bytes.Buffer
	c := NewConsole(&buf, log, true)

	a := descriptor(t, "Basic", "Passes")
	b := descriptor(t, "Basic", "Fails")

	c.Progress(a, 1, 2)
	c.TestFinished(testmgr.TestResult{Test: a, Status: testmgr.TestStatusPassed})
	c.Progress(b, 2, 2)
	c.TestFinished(testmgr.TestResult{Test: b, Status: testmgr.TestStatusFailed, Message: "boom"})
	c.Completed(testmgr.NewReport("run", 2, []testmgr.FailureRecord{{Test: b, Message: "boom"}}, nil, 0))

	expected := strings.Join([]string{
		"##[group][1/2] Basic.Passes",
		"##[endgroup]",
		"##[group][2/2] Basic.Fails",
		"##[endgroup]",
		"##vso[task.logissue type=error]Basic.Fails: boom",
		"##vso[task.complete result=Failed;]1 of 2 tests failed",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestPrintReport(t *testing.T) {
	log, _ := test.NewNullLogger()
	var buf bytes.Buffer
	c := NewConsole(&buf, log, false)

	c.PrintReport(sampleReport(t))
	out := buf.String()

	assert.Contains(t, out, "--- Basic.Fails ")
	assert.Contains(t, out, "Reason: boom")
	assert.Contains(t, out, "--- Slow.Hangs ")
	assert.Contains(t, out, "Reason: Timed out.")
	assert.Contains(t, out, "Passes")
	assert.Contains(t, out, "run-1")
	assert.True(t, strings.HasSuffix(out, "TEST RESULT: failed. 3 total; 1 failed; 1 timed out; 1 passed\n"))
}

func TestPrintEmptyReport(t *testing.T) {
	log, _ := test.NewNullLogger()
	var buf bytes.Buffer
	c := NewConsole(&buf, log, false)

	c.PrintReport(testmgr.NewReport("run", 0, nil, nil, 0))

	assert.True(t, strings.HasSuffix(buf.String(), "TEST RESULT: ok. 0 total; 0 failed; 0 timed out; 0 passed\n"))
	assert.NotContains(t, buf.String(), "Results")
}

func TestWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteYAML(sampleReport(t), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		RunID  string `yaml:"runId"`
		Ok     bool   `yaml:"ok"`
		Total  int    `yaml:"total"`
		Failed int    `yaml:"failed"`
		Tests  []struct {
			Case    string   `yaml:"case"`
			Name    string   `yaml:"name"`
			Status  string   `yaml:"status"`
			Message string   `yaml:"message"`
			Logs    []string `yaml:"logs"`
		} `yaml:"tests"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))

	assert.Equal(t, "run-1", out.RunID)
	assert.False(t, out.Ok)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Failed)
	require.Len(t, out.Tests, 3)
	assert.Equal(t, "PASS", out.Tests[0].Status)
	assert.Equal(t, "FAIL", out.Tests[1].Status)
	assert.Equal(t, "boom", out.Tests[1].Message)
	assert.Equal(t, []string{"ERRO boom"}, out.Tests[1].Logs)
	assert.Equal(t, "TIMEOUT", out.Tests[2].Status)
	assert.Empty(t, out.Tests[2].Logs)
}

func TestWriteYAMLBadPath(t *testing.T) {
	err := WriteYAML(sampleReport(t), filepath.Join(t.TempDir(), "missing", "report.yaml"))
	assert.ErrorContains(t, err, "failed to write report")
}

func TestSimpleWordWrap(t *testing.T) {
	assert.Equal(t, []string{"aaa bbb", "ccc"}, simpleWordWrap("aaa bbb ccc", 7))
	assert.Empty(t, simpleWordWrap("   ", 10))
}
