package runner

import (
	"fmt"
)

type runnerError struct {
	err   error
	suite string
}

func (re *runnerError) Error() string {
	return fmt.Sprintf("error in suite '%s': %v", re.suite, re.err)
}

func (re *runnerError) Unwrap() error {
	return re.err
}

// The run could not be started, no test was executed.
type setupError struct {
	runnerError
}

func newSetupError(suite string, err error) *setupError {
	return &setupError{
		runnerError: runnerError{
			err:   err,
			suite: suite,
		},
	}
}

func (se *setupError) Error() string {
	return fmt.Sprintf("setup error in suite '%s': %v", se.suite, se.err)
}

// The run was cancelled before every test completed.
type interruptedError struct {
	runnerError
	completed int
	total     int
}

func newInterruptedError(suite string, err error, completed, total int) *interruptedError {
	return &interruptedError{
		runnerError: runnerError{
			err:   err,
			suite: suite,
		},
		completed: completed,
		total:     total,
	}
}

func (ie *interruptedError) Error() string {
	return fmt.Sprintf(
		"run of suite '%s' interrupted after %d of %d tests: %v",
		ie.suite,
		ie.completed,
		ie.total,
		ie.err,
	)
}

// IsSetupError returns true if err was produced because a run could not start.
func IsSetupError(err error) bool {
	_, ok := err.(*setupError)
	return ok
}

// IsInterrupted returns true if err was produced because a run was cancelled.
func IsInterrupted(err error) bool {
	_, ok := err.(*interruptedError)
	return ok
}
