package testmgr

import (
	"errors"
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/sirupsen/logrus"

	"cstest/pkg/cstest/core"
)

var ErrStaleCompletion = errors.New("completion reported for a test that is not active")

// Called just before a test starts, index is 1-based.
type ProgressFunc func(test TestDescriptor, index int, total int)

// Called exactly once, when every test has completed.
type CompletionFunc func(report *Report)

type SequencerConfig struct {
	// Snapshot of the tests to run, in execution order.
	Tests []TestDescriptor

	Scheduler core.MainThreadScheduler
	NewTimer  core.TimerFactory

	// Defaults to the real clock.
	Clock clock.Clock

	Log   *logrus.Logger
	RunID string

	// Optional.
	Progress ProgressFunc

	// Optional, called on the main thread after each test completes.
	TestFinished func(result TestResult)

	Completion CompletionFunc
}

// Sequencer runs tests strictly one after another. It is only ever touched
// from the main thread: by StartSequencer and by the outcome callbacks of its
// running tests, which the tests marshal onto the main thread.
type Sequencer struct {
	scheduler    core.MainThreadScheduler
	newTimer     core.TimerFactory
	clk          clock.Clock
	log          *logrus.Logger
	runID        string
	progress     ProgressFunc
	testFinished func(TestResult)
	completion   CompletionFunc

	pending     []TestDescriptor
	active      *RunningTest
	total       int
	activeIndex int
	failures    []FailureRecord
	results     []TestResult
	startTime   time.Time
	done        bool
}

// StartSequencer creates a sequencer and immediately starts the first test.
// With no tests the completion callback fires before StartSequencer returns.
// Must be called on the main thread.
func StartSequencer(cfg SequencerConfig) (*Sequencer, error) {
	if cfg.Scheduler == nil {
		return nil, errors.New("sequencer requires a main thread scheduler")
	}

	if cfg.NewTimer == nil {
		return nil, errors.New("sequencer requires a timer factory")
	}

	if cfg.Log == nil {
		return nil, errors.New("sequencer requires a logger")
	}

	if cfg.Completion == nil {
		return nil, errors.New("sequencer requires a completion callback")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	s := &Sequencer{
		scheduler:    cfg.Scheduler,
		newTimer:     cfg.NewTimer,
		clk:          clk,
		log:          cfg.Log,
		runID:        cfg.RunID,
		progress:     cfg.Progress,
		testFinished: cfg.TestFinished,
		completion:   cfg.Completion,
		pending:      append([]TestDescriptor(nil), cfg.Tests...),
		total:        len(cfg.Tests),
		startTime:    clk.Now(),
	}

	s.log.Debugf("Sequencer starting %d tests", s.total)
	s.advance()

	return s, nil
}

// advance starts the next pending test or finishes the run.
func (s *Sequencer) advance() {
	if len(s.pending) == 0 {
		s.finish()
		return
	}

	next := s.pending[0]
	s.pending = s.pending[1:]
	s.activeIndex++

	if s.progress != nil {
		s.progress(next, s.activeIndex, s.total)
	}

	rt := newRunningTest(RunningTestConfig{
		Test:      next,
		Index:     s.activeIndex,
		Scheduler: s.scheduler,
		NewTimer:  s.newTimer,
		Clock:     s.clk,
		Log:       s.log,
		OnPass:    s.testPassed,
		OnFail:    s.testFailed,
	})

	// Set before the body runs so that the identity check holds even for
	// bodies completing synchronously.
	s.active = rt
	rt.start()
}

func (s *Sequencer) testPassed(rt *RunningTest) {
	s.checkActive(rt)
	s.record(rt, "")
	s.active = nil
	s.advance()
}

func (s *Sequencer) testFailed(rt *RunningTest, message string) {
	s.checkActive(rt)
	s.failures = append(s.failures, FailureRecord{
		Test:     rt.Descriptor(),
		Message:  message,
		LogLines: rt.LogLines(),
	})
	s.record(rt, message)
	s.active = nil
	s.advance()
}

func (s *Sequencer) checkActive(rt *RunningTest) {
	if s.active == rt {
		return
	}

	active := "none"
	if s.active != nil {
		active = s.active.id()
	}

	panic(fmt.Errorf("%w: got '%s', active is '%s'", ErrStaleCompletion, rt.id(), active))
}

func (s *Sequencer) record(rt *RunningTest, message string) {
	result := TestResult{
		Test:     rt.Descriptor(),
		Status:   rt.Status(),
		Message:  message,
		Duration: rt.RunTime(),
	}
	s.results = append(s.results, result)

	s.log.
		WithField("test", rt.desc.ID()).
		WithField("status", result.Status.String()).
		Logf(result.Status.logLevel(), "%s: %s", rt.desc.ID(), result.Status.ColorString())

	if s.testFinished != nil {
		s.testFinished(result)
	}
}

func (s *Sequencer) finish() {
	s.done = true

	report := NewReport(s.runID, s.total, s.failures, s.results, s.clk.Since(s.startTime))
	s.log.Debugf("Sequencer finished: %d tests, %d failed", report.Total(), report.FailedCount())

	s.completion(report)
}

// Done returns whether every test has completed and the completion callback
// has fired.
func (s *Sequencer) Done() bool {
	return s.done
}

func (s *Sequencer) Total() int {
	return s.total
}

// ActiveIndex returns the 1-based index of the running test, or of the last
// test once the run is done.
func (s *Sequencer) ActiveIndex() int {
	return s.activeIndex
}

// Active returns the running test, nil between tests and once done.
func (s *Sequencer) Active() *RunningTest {
	return s.active
}
