package testmgr

import (
	"context"
	"fmt"
	"testing"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cstest/internal/timer"
	"cstest/pkg/cstest/core"
)

// runOnLoop starts a sequencer on the harness loop, runs the loop until the
// completion callback fires and returns the report.
func runOnLoop(t *testing.T, h *harness, cfg SequencerConfig) *Report {
	t.Helper()

	var report *Report
	completions := 0
	cfg.Scheduler = h.loop
	cfg.Log = h.log
	cfg.Completion = func(r *Report) {
		completions++
		report = r
		h.loop.Quit()
	}

	h.loop.ScheduleOnMainThread(func() {
		_, err := StartSequencer(cfg)
		require.NoError(t, err)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, h.loop.Run(ctx))
	require.Equal(t, 1, completions)

	return report
}

func TestSequencerReportRoundTrip(t *testing.T) {
	h := newHarness(t)
	tests := []TestDescriptor{
		mustDescriptor(t, "Case1", "A", func(tc core.Test) { tc.Pass() }, 10*time.Millisecond),
		mustDescriptor(t, "Case1", "B", func(tc core.Test) { tc.Fail("boom") }, 10*time.Millisecond),
		mustDescriptor(t, "Case1", "C", noop, 10*time.Millisecond),
	}

	report := runOnLoop(t, h, SequencerConfig{
		Tests:    tests,
		NewTimer: timer.NewFactory(clock.NewClock()),
		RunID:    "run",
	})

	assert.Equal(t, "run", report.RunID())
	assert.Equal(t, 3, report.Total())
	assert.Equal(t, 2, report.FailedCount())
	assert.Equal(t, 1, report.PassedCount())
	assert.False(t, report.Ok())

	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "Case1.B", failures[0].Test.ID())
	assert.Equal(t, "boom", failures[0].Message)
	assert.Equal(t, "Case1.C", failures[1].Test.ID())
	assert.Equal(t, "Timed out.", failures[1].Message)

	results := report.Results()
	require.Len(t, results, 3)
	assert.Equal(t, TestStatusPassed, results[0].Status)
	assert.Equal(t, TestStatusFailed, results[1].Status)
	assert.Equal(t, TestStatusTimedOut, results[2].Status)
}

func TestSequencerProgressAndOrdering(t *testing.T) {
	h := newHarness(t)

	// Only touched on the main thread.
	var events []string
	body := func(name string) core.TestFunction {
		return func(tc core.Test) {
			events = append(events, "start "+name)
			go func() {
				time.Sleep(5 * time.Millisecond)
				tc.MainThread().ScheduleOnMainThread(func() {
					events = append(events, "end "+name)
				})
				tc.Pass()
			}()
		}
	}

	var tests []TestDescriptor
	for i := 1; i <= 4; i++ {
		name := fmt.Sprintf("T%d", i)
		tests = append(tests, mustDescriptor(t, "Case1", name, body(name), 5*time.Second))
	}

	var indices []int
	report := runOnLoop(t, h, SequencerConfig{
		Tests:    tests,
		NewTimer: timer.NewFactory(clock.NewClock()),
		Progress: func(d TestDescriptor, index, total int) {
			assert.Equal(t, 4, total)
			assert.Equal(t, fmt.Sprintf("T%d", index), d.Name())
			indices = append(indices, index)
		},
	})

	assert.Equal(t, []int{1, 2, 3, 4}, indices)
	assert.Equal(t, []string{
		"start T1", "end T1",
		"start T2", "end T2",
		"start T3", "end T3",
		"start T4", "end T4",
	}, events)
	assert.True(t, report.Ok())
	assert.Equal(t, 4, report.Total())
}

func TestSequencerConcreteScenario(t *testing.T) {
	h := newHarness(t)
	restore := SetGlobalRegistryForTesting(NewRegistry())
	defer restore()

	RegisterTest(mustDescriptor(t, "Case1", "T1", func(tc core.Test) { tc.Pass() }, DefaultTimeout))
	RegisterTest(mustDescriptor(t, "Case1", "T2", func(tc core.Test) {
		go func() {
			time.Sleep(50 * time.Millisecond)
			tc.Fail("failed in the background")
		}()
	}, DefaultTimeout))

	// Only touched on the main thread.
	var events []string
	report := runOnLoop(t, h, SequencerConfig{
		Tests:    GlobalRegistry().Tests(),
		NewTimer: timer.NewFactory(clock.NewClock()),
		Progress: func(d TestDescriptor, index, total int) {
			events = append(events, fmt.Sprintf("progress(%s,%d,%d)", d.Name(), index, total))
		},
		TestFinished: func(r TestResult) {
			events = append(events, fmt.Sprintf("finished(%s,%s)", r.Test.Name(), r.Status))
		},
	})
	events = append(events, fmt.Sprintf("completion(total=%d,failed=%d)", report.Total(), report.FailedCount()))

	assert.Equal(t, []string{
		"progress(T1,1,2)",
		"finished(T1,PASS)",
		"progress(T2,2,2)",
		"finished(T2,FAIL)",
		"completion(total=2,failed=1)",
	}, events)

	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "Case1.T2", report.Failures()[0].Test.ID())
	assert.Equal(t, "failed in the background", report.Failures()[0].Message)
}

func TestSequencerFailuresDoNotAbortRun(t *testing.T) {
	h := newHarness(t)

	var ran []string
	var tests []TestDescriptor
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("T%d", i)
		tests = append(tests, mustDescriptor(t, "Case1", name, func(tc core.Test) {
			ran = append(ran, name)
			if i%2 == 0 {
				tc.Fail("even")
				return
			}
			panic("odd")
		}, time.Second))
	}

	report := runOnLoop(t, h, SequencerConfig{Tests: tests, NewTimer: h.newTimer})

	assert.Equal(t, []string{"T0", "T1", "T2", "T3", "T4"}, ran)
	assert.Equal(t, 5, report.FailedCount())
	assert.Equal(t, "panic occurred: odd", report.Failures()[1].Message)
}

func TestSequencerStepByStep(t *testing.T) {
	h := newHarness(t)

	var handles []core.Test
	tests := []TestDescriptor{
		mustDescriptor(t, "Case1", "T1", func(tc core.Test) { handles = append(handles, tc) }, time.Second),
		mustDescriptor(t, "Case1", "T2", func(tc core.Test) { handles = append(handles, tc) }, time.Second),
	}

	var report *Report
	s, err := StartSequencer(SequencerConfig{
		Tests:      tests,
		Scheduler:  h.loop,
		NewTimer:   h.newTimer,
		Log:        h.log,
		Completion: func(r *Report) { report = r },
	})
	require.NoError(t, err)

	// Only the first body has run, and nothing happens until it completes.
	require.Len(t, handles, 1)
	assert.Equal(t, 1, s.ActiveIndex())
	assert.Equal(t, 0, h.loop.RunPending())

	handles[0].Pass()
	assert.Len(t, handles, 1, "next test must not start before the completion is processed")
	h.loop.RunPending()
	require.Len(t, handles, 2)
	assert.Equal(t, 2, s.ActiveIndex())

	// A late call on the first handle is ignored.
	handles[0].Fail("late")
	assert.Equal(t, 0, h.loop.RunPending())

	require.True(t, h.timer(1).Fire())
	h.loop.RunPending()

	require.NotNil(t, report)
	assert.True(t, s.Done())
	assert.Nil(t, s.Active())
	assert.Equal(t, 2, report.Total())
	assert.Equal(t, []string{TimeoutMessage}, []string{report.Failures()[0].Message})
}

func TestSequencerEmptyRun(t *testing.T) {
	h := newHarness(t)

	var report *Report
	progressCalls := 0
	s, err := StartSequencer(SequencerConfig{
		Scheduler:  h.loop,
		NewTimer:   h.newTimer,
		Log:        h.log,
		Progress:   func(TestDescriptor, int, int) { progressCalls++ },
		Completion: func(r *Report) { report = r },
	})
	require.NoError(t, err)

	assert.True(t, s.Done())
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Total())
	assert.True(t, report.Ok())
	assert.Equal(t, 0, progressCalls)
}

func TestSequencerStaleCompletionPanics(t *testing.T) {
	h := newHarness(t)

	s, err := StartSequencer(SequencerConfig{
		Tests:      []TestDescriptor{mustDescriptor(t, "Case1", "T1", noop, time.Second)},
		Scheduler:  h.loop,
		NewTimer:   h.newTimer,
		Log:        h.log,
		Completion: func(*Report) {},
	})
	require.NoError(t, err)

	stranger := newRunningTest(RunningTestConfig{
		Test:      mustDescriptor(t, "Case1", "Stranger", noop, time.Second),
		Scheduler: h.loop,
		NewTimer:  h.newTimer,
		Log:       h.log,
		OnPass:    func(*RunningTest) {},
		OnFail:    func(*RunningTest, string) {},
	})

	assert.Panics(t, func() { s.testPassed(stranger) })
	assert.Panics(t, func() { s.testFailed(stranger, "x") })
}

func TestStartSequencerValidatesConfig(t *testing.T) {
	h := newHarness(t)
	complete := func(*Report) {}

	_, err := StartSequencer(SequencerConfig{NewTimer: h.newTimer, Log: h.log, Completion: complete})
	assert.Error(t, err)
	_, err = StartSequencer(SequencerConfig{Scheduler: h.loop, Log: h.log, Completion: complete})
	assert.Error(t, err)
	_, err = StartSequencer(SequencerConfig{Scheduler: h.loop, NewTimer: h.newTimer, Completion: complete})
	assert.Error(t, err)
	_, err = StartSequencer(SequencerConfig{Scheduler: h.loop, NewTimer: h.newTimer, Log: h.log})
	assert.Error(t, err)
}
