package testmgr

import (
	"errors"
	"fmt"
	"time"

	"cstest/pkg/cstest/core"
)

// DefaultTimeout is used for tests registered without an explicit timeout.
const DefaultTimeout = 10 * time.Second

var ErrInvalidDescriptor = errors.New("invalid test descriptor")

// TestDescriptor describes one registered test. It is immutable: the
// accessors are the only way to read it and WithTimeout returns a copy.
type TestDescriptor struct {
	caseName string
	name     string
	body     core.TestFunction
	timeout  time.Duration
}

func NewTestDescriptor(caseName, name string, body core.TestFunction, timeout time.Duration) (TestDescriptor, error) {
	if err := core.ValidateEntityName(caseName, "test case"); err != nil {
		return TestDescriptor{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	if err := core.ValidateEntityName(name, "test"); err != nil {
		return TestDescriptor{}, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}

	if body == nil {
		return TestDescriptor{}, fmt.Errorf("%w: test '%s.%s' has no body", ErrInvalidDescriptor, caseName, name)
	}

	if timeout <= 0 {
		return TestDescriptor{}, fmt.Errorf("%w: test '%s.%s' has non-positive timeout %s", ErrInvalidDescriptor, caseName, name, timeout)
	}

	return TestDescriptor{
		caseName: caseName,
		name:     name,
		body:     body,
		timeout:  timeout,
	}, nil
}

func (d TestDescriptor) CaseName() string {
	return d.caseName
}

func (d TestDescriptor) Name() string {
	return d.name
}

func (d TestDescriptor) Body() core.TestFunction {
	return d.body
}

func (d TestDescriptor) Timeout() time.Duration {
	return d.timeout
}

// ID returns the `Case.Test` key identifying the test.
func (d TestDescriptor) ID() string {
	return d.caseName + "." + d.name
}

func (d TestDescriptor) String() string {
	return d.ID()
}

// Returns a copy of the descriptor with a different timeout. Panics on a
// non-positive timeout.
func (d TestDescriptor) WithTimeout(timeout time.Duration) TestDescriptor {
	if timeout <= 0 {
		panic(fmt.Sprintf("non-positive timeout %s for test '%s'", timeout, d.ID()))
	}

	d.timeout = timeout
	return d
}

// Same reports whether two descriptors describe the same test.
func (d TestDescriptor) Same(other TestDescriptor) bool {
	return d.caseName == other.caseName && d.name == other.name
}
