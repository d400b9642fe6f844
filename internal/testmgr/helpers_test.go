package testmgr

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"cstest/internal/mainthread"
	"cstest/pkg/cstest/core"
)

// fakeTimer is a core.Timer fired by hand.
type fakeTimer struct {
	mu       sync.Mutex
	duration time.Duration
	callback func()
	running  bool
	starts   int
	stops    int
}

func (ft *fakeTimer) OnExpiry(d time.Duration, f func()) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.duration = d
	ft.callback = f
}

func (ft *fakeTimer) Start() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.running = true
	ft.starts++
}

func (ft *fakeTimer) Stop() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.running = false
	ft.stops++
}

func (ft *fakeTimer) Running() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.running
}

// Fire simulates expiry, returns false if the timer was not running.
func (ft *fakeTimer) Fire() bool {
	ft.mu.Lock()
	if !ft.running {
		ft.mu.Unlock()
		return false
	}
	ft.running = false
	f := ft.callback
	ft.mu.Unlock()

	f()
	return true
}

type harness struct {
	log    *logrus.Logger
	hook   *test.Hook
	loop   *mainthread.Loop
	mu     sync.Mutex
	timers []*fakeTimer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)

	return &harness{
		log:  log,
		hook: hook,
		loop: mainthread.NewLoop(log),
	}
}

func (h *harness) newTimer() core.Timer {
	h.mu.Lock()
	defer h.mu.Unlock()

	ft := &fakeTimer{}
	h.timers = append(h.timers, ft)
	return ft
}

func (h *harness) timer(i int) *fakeTimer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timers[i]
}

func mustDescriptor(t *testing.T, caseName, name string, body core.TestFunction, timeout time.Duration) TestDescriptor {
	t.Helper()

	d, err := NewTestDescriptor(caseName, name, body, timeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func noop(core.Test) {}
