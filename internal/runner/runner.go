package runner

import (
	"context"
	"errors"
	"io"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"cstest/internal/mainthread"
	"cstest/internal/metrics"
	"cstest/internal/reporter"
	"cstest/internal/suite"
	"cstest/internal/testmgr"
	"cstest/internal/timer"
)

type Options struct {
	// Console output, defaults to stdout.
	Out io.Writer

	// Defaults to the real clock.
	Clock clock.Clock

	// Optional, records every finished test and the run totals.
	Metrics *metrics.Metrics
}

// RunTests runs tests one after another on a main thread loop driven by the
// calling goroutine, prints the report and returns it. A failing test is not
// an error: inspect the report, or use reporter.ExitError.
func RunTests(
	ctx context.Context,
	s suite.SuiteContext,
	tests []testmgr.TestDescriptor,
	opts Options,
) (*testmgr.Report, error) {
	log := s.Logger()

	clk := opts.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	runID := uuid.New().String()
	loop := mainthread.NewLoop(log)
	console := reporter.NewConsole(opts.Out, log, s.AzureDevops())

	var (
		report    *testmgr.Report
		seq       *testmgr.Sequencer
		setupErr  error
		completed int
	)

	loop.ScheduleOnMainThread(func() {
		var err error
		seq, err = testmgr.StartSequencer(testmgr.SequencerConfig{
			Tests:     tests,
			Scheduler: loop,
			NewTimer:  timer.NewFactory(clk),
			Clock:     clk,
			Log:       log,
			RunID:     runID,
			Progress:  console.Progress,
			TestFinished: func(result testmgr.TestResult) {
				completed++
				console.TestFinished(result)
				if opts.Metrics != nil {
					opts.Metrics.RecordTest(result)
				}
			},
			Completion: func(r *testmgr.Report) {
				report = r
				console.Completed(r)
				loop.Quit()
			},
		})

		if err != nil {
			setupErr = newSetupError(s.Name(), err)
			loop.Quit()
		}
	})

	log.WithField("runId", runID).Infof("Running %d tests from suite '%s'", len(tests), s.Name())

	err := loop.Run(ctx)

	if setupErr != nil {
		return nil, setupErr
	}

	if report == nil {
		if err == nil {
			err = errors.New("main thread loop stopped")
		}

		if seq != nil && seq.Active() != nil {
			log.Warnf("Test '%s' was still running", seq.Active().Descriptor().ID())
		}

		return nil, newInterruptedError(s.Name(), err, completed, len(tests))
	}

	console.PrintReport(report)

	if opts.Metrics != nil {
		opts.Metrics.RecordRun(report)
	}

	return report, nil
}
