// Package helloworld registers a small demonstration suite. Some of its tests
// fail on purpose to show how failures are reported.
package helloworld

import (
	"errors"
	"time"

	"cstest/pkg/cstest"
)

var hello = cstest.TestCase("HelloWorld")

func init() {
	hello.AddTest("Passes", passes)
	hello.AddTest("PassesLater", passesLater)
	hello.AddTest("Fails", fails)
	hello.AddTest("FailsFromError", failsFromError)
	hello.AddTest("Asserts", asserts)
	hello.AddTest("Panics", panics)
	hello.AddTest("TimesOut", timesOut, cstest.WithTimeout(time.Second))
}

func passes(t cstest.Test) {
	// Messages logged with the test logger are captured and shown in the
	// report if the test fails.
	t.Logger().Infof("Hello from '%s'!", t.Name())
	t.Pass()
}

func passesLater(t cstest.Test) {
	// Tests do not need to report from their body. Work can continue in the
	// background and report from any goroutine.
	go func() {
		select {
		case <-time.After(100 * time.Millisecond):
			t.Logger().Info("Background work done")
			t.Pass()
		case <-t.Context().Done():
		}
	}()
}

func fails(t cstest.Test) {
	t.Logger().Info("This message will be shown in the failure report!")
	t.Fail("This test fails on purpose")

	// Execution continues after a failure, but the outcome is already
	// decided, so this has no effect.
	t.Pass()
}

func failsFromError(t cstest.Test) {
	t.FailFromError(errors.New("this test fails from an error"))
}

func asserts(t cstest.Test) {
	t.Assert(1+1 == 2, "math is broken")
	t.Assert(len("hello") == 4, "'hello' is not 4 characters long")
}

func panics(t cstest.Test) {
	// A panic is caught and turned into a failure.
	panic("this test panics")
}

func timesOut(t cstest.Test) {
	t.Logger().Info("Never reporting an outcome, this test will time out")
}
