package reporter

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest/utils"
)

type exportedTest struct {
	Case     string             `yaml:"case"`
	Name     string             `yaml:"name"`
	Timeout  time.Duration      `yaml:"timeout"`
	Status   testmgr.TestStatus `yaml:"status"`
	Message  string             `yaml:"message,omitempty"`
	Duration time.Duration      `yaml:"duration"`
	Logs     []string           `yaml:"logs,omitempty"`
}

type exportedReport struct {
	RunID    string         `yaml:"runId"`
	Ok       bool           `yaml:"ok"`
	Total    int            `yaml:"total"`
	Failed   int            `yaml:"failed"`
	Passed   int            `yaml:"passed"`
	Duration time.Duration  `yaml:"duration"`
	Tests    []exportedTest `yaml:"tests"`
}

func newExportedReport(report *testmgr.Report) exportedReport {
	logs := make(map[string][]string)
	for _, failure := range report.Failures() {
		lines := make([]string, 0, len(failure.LogLines))
		for _, line := range failure.LogLines {
			if line == "" {
				continue
			}
			lines = append(lines, utils.StripANSI(line))
		}
		logs[failure.Test.ID()] = lines
	}

	out := exportedReport{
		RunID:    report.RunID(),
		Ok:       report.Ok(),
		Total:    report.Total(),
		Failed:   report.FailedCount(),
		Passed:   report.PassedCount(),
		Duration: report.Duration(),
		Tests:    make([]exportedTest, 0, report.Total()),
	}

	for _, result := range report.Results() {
		out.Tests = append(out.Tests, exportedTest{
			Case:     result.Test.CaseName(),
			Name:     result.Test.Name(),
			Timeout:  result.Test.Timeout(),
			Status:   result.Status,
			Message:  result.Message,
			Duration: result.Duration,
			Logs:     logs[result.Test.ID()],
		})
	}

	return out
}

// WriteYAML writes the report to the given path as YAML.
func WriteYAML(report *testmgr.Report, path string) error {
	data, err := yaml.Marshal(newExportedReport(report))
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report to '%s'", path)
	}

	return nil
}
