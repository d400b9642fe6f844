package run

import (
	"time"

	"cstest/internal/collector"
	"cstest/internal/metrics"
	"cstest/internal/reporter"
	"cstest/internal/runner"
	"cstest/internal/suite"
)

type RunCmd struct {
	Cases       []string      `short:"c" name:"case" help:"Only run tests of these test cases"`
	Tests       []string      `short:"t" name:"test" help:"Only run these tests, given as 'Test' or 'Case.Test'"`
	Timeout     time.Duration `help:"Override the timeout of every selected test"`
	Report      *string       `short:"r" help:"Optional path to write a YAML report to" type:"path"`
	MetricsFile *string       `short:"m" help:"Optional path to write prometheus metrics to, in textfile collector format" type:"path"`

	opts runner.Options `kong:"-"`
}

func (cmd *RunCmd) Run(s suite.SuiteContext) error {
	log := s.Logger()

	tests, err := collector.CollectTests(s.Tests(), collector.Selection{
		Cases:   cmd.Cases,
		Tests:   cmd.Tests,
		Timeout: cmd.Timeout,
	})
	if err != nil {
		return err
	}

	log.Infof("Collected %d tests", len(tests))

	opts := cmd.opts
	if cmd.MetricsFile != nil {
		opts.Metrics = metrics.New()
	}

	report, err := runner.RunTests(s.Context(), s, tests, opts)
	if err != nil {
		return err
	}

	if cmd.Report != nil {
		if err := reporter.WriteYAML(report, *cmd.Report); err != nil {
			return err
		}
		log.Infof("Report written to '%s'", *cmd.Report)
	}

	if cmd.MetricsFile != nil {
		if err := opts.Metrics.WriteTextfile(*cmd.MetricsFile); err != nil {
			return err
		}
		log.Infof("Metrics written to '%s'", *cmd.MetricsFile)
	}

	return reporter.ExitError(report)
}
