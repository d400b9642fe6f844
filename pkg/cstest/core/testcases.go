package core

import (
	"context"
	"time"
)

// Test is the handle passed to a test body. It is only valid until the test
// has reported its outcome, bodies must not retain it beyond that point.
type Test interface {
	Named

	LoggerProvider

	// Name of the test case this test belongs to.
	CaseName() string

	// Pass the test. Safe to call from any goroutine. Only the first of Pass,
	// Fail or the timeout decides the outcome, later calls are ignored.
	Pass()

	// Fail the test with a message. Safe to call from any goroutine. Unlike
	// a Go testing.T, execution of the caller continues after Fail returns.
	Fail(message string)

	// Fail the test with a formatted message.
	Failf(format string, args ...any)

	// Fail the test with the message of an error.
	FailFromError(err error)

	// Fail the test with message when condition is false. A holding
	// condition does not pass the test.
	Assert(condition bool, message string)

	// Provides a context for the test. The context is cancelled as soon as
	// the outcome of the test is decided, making it suitable to terminate any
	// leftover goroutines that were started by the test.
	Context() context.Context

	// The scheduler of the main thread, for background work that needs to
	// hop back onto it.
	MainThread() MainThreadScheduler

	// Time elapsed since the test was started, or its total run time once it
	// has completed.
	RunTime() time.Duration
}
