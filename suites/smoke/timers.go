package smoke

import (
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/clock"

	"cstest/internal/timer"
	"cstest/pkg/cstest"
)

var timersCase = cstest.TestCase("Timers")

func init() {
	timersCase.AddTest("CountdownFires", countdownFires)
	timersCase.AddTest("StoppedCountdownNeverFires", stoppedCountdownNeverFires)
	timersCase.AddTest("RestartSupersedes", restartSupersedes)
}

func countdownFires(t cstest.Test) {
	c := timer.NewCountdown(clock.NewClock())
	c.OnExpiry(10*time.Millisecond, func() {
		t.MainThread().ScheduleOnMainThread(t.Pass)
	})
	c.Start()
}

func stoppedCountdownNeverFires(t cstest.Test) {
	c := timer.NewCountdown(clock.NewClock())
	c.OnExpiry(10*time.Millisecond, func() {
		t.Fail("stopped countdown fired")
	})
	c.Start()
	c.Stop()

	time.AfterFunc(50*time.Millisecond, t.Pass)
}

func restartSupersedes(t cstest.Test) {
	var fired atomic.Int32

	c := timer.NewCountdown(clock.NewClock())
	c.OnExpiry(20*time.Millisecond, func() {
		fired.Add(1)
	})
	c.Start()
	c.Start()

	time.AfterFunc(100*time.Millisecond, func() {
		t.Assert(fired.Load() == 1, "restarted countdown did not fire exactly once")
		t.Pass()
	})
}
