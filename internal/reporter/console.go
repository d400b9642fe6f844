package reporter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sirupsen/logrus"

	"cstest/internal/devops"
	"cstest/internal/testmgr"
)

// Console presents a run on a terminal. Its Progress, TestFinished and
// Completed methods match the sequencer callbacks and must be called on the
// main thread.
type Console struct {
	out    io.Writer
	log    *logrus.Logger
	width  int
	devops *devops.Printer
	group  *devops.Group
}

// NewConsole creates a console writing to out, or to stdout when out is nil.
// When azureDevops is set, every test is wrapped in a collapsible group and
// failures are raised as pipeline issues.
func NewConsole(out io.Writer, log *logrus.Logger, azureDevops bool) *Console {
	if out == nil {
		out = os.Stdout
	}

	c := &Console{
		out:   out,
		log:   log,
		width: termWidth(),
	}

	if azureDevops {
		c.devops = devops.NewPrinter(out)
	}

	return c
}

func (c *Console) Progress(test testmgr.TestDescriptor, index int, total int) {
	line := fmt.Sprintf("[%d/%d] %s", index, total, test.ID())

	if c.devops != nil {
		c.group.Close()
		c.group = c.devops.OpenGroup(line)
	} else {
		fmt.Fprintln(c.out, line)
	}

	c.log.WithField("test", test.ID()).Debugf("Starting test %d of %d", index, total)
}

func (c *Console) TestFinished(result testmgr.TestResult) {
	if c.devops == nil {
		return
	}

	c.group.Close()
	c.group = nil

	if result.Status.IsBad() {
		c.devops.LogError("%s: %s", result.Test.ID(), result.Message)
	}
}

func (c *Console) Completed(report *testmgr.Report) {
	c.group.Close()
	c.group = nil

	c.log.WithField("runId", report.RunID()).
		Debugf("Run completed with %d of %d tests failed", report.FailedCount(), report.Total())

	if c.devops != nil {
		c.devops.SetResult(report.Ok(), fmt.Sprintf("%d of %d tests failed", report.FailedCount(), report.Total()))
	}
}

// PrintReport prints the collected logs of every failed test, a table with all
// results and the final result line.
func (c *Console) PrintReport(report *testmgr.Report) {
	summary := newSummaryFromReport(report)

	for _, failure := range report.Failures() {
		printSeparatorWithTitle(c.out, c.width, failure.Test.ID())
		for _, line := range simpleWordWrap("Reason: "+failure.Message, c.width) {
			fmt.Fprintln(c.out, line)
		}

		fmt.Fprintln(c.out, "Collected logs:")
		for _, log := range failure.LogLines {
			fmt.Fprintln(c.out, "    ", log)
		}
	}

	if report.Total() > 0 {
		c.printResultsTable(report, summary)
	}

	var status = "ok"
	if !report.Ok() {
		status = "failed"
	}

	printSeparator(c.out, c.width)
	fmt.Fprintf(
		c.out,
		"TEST RESULT: %s. %d total; %d failed; %d timed out; %d passed\n",
		status,
		summary.total,
		summary.failed,
		summary.timedOut,
		summary.passed,
	)
}

func (c *Console) printResultsTable(report *testmgr.Report, summary TestSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("Results (%s) run %s", formatDuration(report.Duration()), report.RunID()))

	t.AppendHeader(table.Row{"#", "Case", "Test", "Duration", "Status", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Case", AutoMerge: true},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 60},
	})

	for i, result := range report.Results() {
		t.AppendRow(table.Row{
			i + 1,
			result.Test.CaseName(),
			result.Test.Name(),
			formatDuration(result.Duration),
			result.Status.ColorString(),
			result.Message,
		})
	}

	switch summary.Status() {
	case TestStatusOk:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"",
		"TOTAL",
		summary.total,
		formatDuration(report.Duration()),
		summary.Status().StringColor(),
		summary.Summary(),
	})

	t.Render()
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
