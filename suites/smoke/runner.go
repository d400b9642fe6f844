// Package smoke registers self-tests of the runner: they exercise the test
// handle, the main thread loop and timers through the public surface.
package smoke

import (
	"sync/atomic"
	"time"

	"cstest/pkg/cstest"
)

var runnerCase = cstest.TestCase("Runner")

func init() {
	runnerCase.AddTest("PassesSynchronously", passesSynchronously)
	runnerCase.AddTest("PassesFromGoroutine", passesFromGoroutine)
	runnerCase.AddTest("HopsToMainThread", hopsToMainThread)
	runnerCase.AddTest("ContextLiveWhileRunning", contextLiveWhileRunning)
	runnerCase.AddTest("FirstOutcomeWins", firstOutcomeWins)
	runnerCase.AddTest("RunTimeAdvances", runTimeAdvances, cstest.WithTimeout(2*time.Second))
}

func passesSynchronously(t cstest.Test) {
	t.Pass()
}

func passesFromGoroutine(t cstest.Test) {
	go func() {
		time.Sleep(10 * time.Millisecond)
		t.Pass()
	}()
}

func hopsToMainThread(t cstest.Test) {
	var onMain atomic.Bool

	go func() {
		t.MainThread().ScheduleOnMainThread(func() {
			onMain.Store(true)
		})

		// Tasks run in order, so the previous task ran before this one.
		t.MainThread().ScheduleOnMainThread(func() {
			t.Assert(onMain.Load(), "scheduled task did not run before the next one")
			t.Pass()
		})
	}()
}

func contextLiveWhileRunning(t cstest.Test) {
	if err := t.Context().Err(); err != nil {
		t.Failf("context already done: %v", err)
		return
	}

	go func() {
		select {
		case <-t.Context().Done():
			t.Fail("context cancelled before the outcome was decided")
		case <-time.After(10 * time.Millisecond):
			t.Pass()
		}
	}()
}

func firstOutcomeWins(t cstest.Test) {
	t.Pass()
	t.Fail("ignored")
	t.Assert(false, "ignored")
}

func runTimeAdvances(t cstest.Test) {
	start := t.RunTime()
	go func() {
		time.Sleep(20 * time.Millisecond)
		if t.RunTime() <= start {
			t.Failf("run time did not advance: %s <= %s", t.RunTime(), start)
			return
		}
		t.Pass()
	}()
}
