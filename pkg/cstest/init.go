// Package cstest is the entry point for test authors. Tests are grouped into
// test cases and registered from init functions:
//
//	var tc = cstest.TestCase("Timers")
//
//	func init() {
//		tc.AddTest("FiresOnce", firesOnce, cstest.WithTimeout(2*time.Second))
//	}
//
// A test body receives a cstest.Test handle and must eventually call Pass or
// Fail on it, from any goroutine, or the test times out.
package cstest

import (
	"time"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest/core"
	"cstest/pkg/cstest/suite"
)

type Test = core.Test
type TestFunction = core.TestFunction
type TestOption = core.TestOption
type TestRegistrar = core.TestRegistrar
type MainThreadScheduler = core.MainThreadScheduler
type LoggerProvider = core.LoggerProvider

// DefaultTimeout applies to tests registered without WithTimeout.
const DefaultTimeout = testmgr.DefaultTimeout

// Sets the timeout of a test.
func WithTimeout(d time.Duration) TestOption {
	return func(o *core.TestOptions) {
		o.Timeout = d
	}
}

var _ core.TestRegistrar = CaseRegistrar{}

// CaseRegistrar registers tests sharing a test case name.
type CaseRegistrar struct {
	name string
}

// TestCase returns the registrar for the test case with the given name. The
// grouping is organizational only.
func TestCase(name string) CaseRegistrar {
	return CaseRegistrar{name: name}
}

func (c CaseRegistrar) Name() string {
	return c.name
}

// AddTest registers a test in the global registry. It panics if the test is
// invalid or already registered, it is meant to be called from init
// functions.
func (c CaseRegistrar) AddTest(name string, body TestFunction, opts ...TestOption) {
	AddTest(c.name, name, body, opts...)
}

// AddTest registers a test in the global registry, see CaseRegistrar.AddTest.
func AddTest(caseName, name string, body TestFunction, opts ...TestOption) {
	options := core.TestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	d, err := testmgr.NewTestDescriptor(caseName, name, body, timeout)
	if err != nil {
		panic(err)
	}

	testmgr.RegisterTest(d)
}

// Creates a new suite with the given name.
func CreateSuite(name string) suite.CSTestSuite {
	return suite.CreateSuite(name)
}
