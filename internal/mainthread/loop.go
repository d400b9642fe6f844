// Package mainthread provides the executor standing in for the engine's main
// thread: every task scheduled on a Loop runs, in order, on the goroutine
// that called Run.
package mainthread

import (
	"context"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"cstest/pkg/cstest/core"
)

var _ core.MainThreadScheduler = &Loop{}

type Loop struct {
	log *logrus.Logger

	mu     sync.Mutex
	queue  []func()
	closed bool

	// wake has capacity 1 so that scheduling never blocks.
	wake chan struct{}
	quit chan struct{}
}

func NewLoop(log *logrus.Logger) *Loop {
	return &Loop{
		log:  log,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// ScheduleOnMainThread implements core.MainThreadScheduler. Tasks scheduled
// after Quit are dropped.
func (l *Loop) ScheduleOnMainThread(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Debug("Main thread loop closed, dropping scheduled task")
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes scheduled tasks on the calling goroutine until Quit is called
// or ctx is cancelled. Returns ctx.Err() in the latter case.
func (l *Loop) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.log.Trace("Main thread loop started")
	defer l.log.Trace("Main thread loop exited")

	for {
		l.RunPending()

		select {
		case <-l.quit:
			return nil
		case <-ctx.Done():
			l.Quit()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunPending executes every task queued so far, including tasks queued by the
// tasks themselves, and returns how many ran. It returns early once Quit has
// been called.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		f, ok := l.pop()
		if !ok {
			return ran
		}

		f()
		ran++
	}
}

// Quit stops the loop. Tasks still queued are discarded.
func (l *Loop) Quit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	l.queue = nil
	close(l.quit)
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || len(l.queue) == 0 {
		return nil, false
	}

	f := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return f, true
}
