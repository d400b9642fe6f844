package core

import "time"

// MainThreadScheduler queues work onto the single logical thread that owns the
// sequencer and all presentation state.
type MainThreadScheduler interface {
	// Queue f to run later on the main thread. Implementations must be safe to
	// call from any goroutine and must never run f inline.
	ScheduleOnMainThread(f func())
}

// Timer is a cancellable, restartable countdown.
type Timer interface {
	// Configure the countdown duration and the callback invoked when it
	// elapses. The callback may run on any goroutine.
	OnExpiry(d time.Duration, f func())

	// Arm the countdown. Starting a running timer restarts it.
	Start()

	// Disarm the countdown. A stopped timer never invokes its callback.
	Stop()
}

// TimerFactory creates a fresh, unarmed timer.
type TimerFactory = func() Timer
