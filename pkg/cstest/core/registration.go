package core

import "time"

type TestFunction = func(Test)

// TestOption customizes a test at registration time.
type TestOption func(*TestOptions)

type TestOptions struct {
	// Timeout for the test. Zero selects the default timeout.
	Timeout time.Duration
}

type TestRegistrar interface {
	Named

	// Register a test with the given name in this test case. The name should
	// be unique within the test case. Test names MUST be accepted by the
	// regular expression `^[a-zA-Z0-9_\-]+$`.
	AddTest(name string, body TestFunction, opts ...TestOption)
}
