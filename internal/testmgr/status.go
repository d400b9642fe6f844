package testmgr

import (
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

type TestStatus int

const (
	TestStatusRunning TestStatus = iota
	TestStatusPassed
	TestStatusFailed
	TestStatusTimedOut
)

func (ts TestStatus) String() string {
	switch ts {
	case TestStatusRunning:
		return "RUNNING"
	case TestStatusPassed:
		return "PASS"
	case TestStatusFailed:
		return "FAIL"
	case TestStatusTimedOut:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

func (ts TestStatus) ColorString() string {
	switch ts {
	case TestStatusPassed:
		return color.GreenString(ts.String())
	case TestStatusFailed:
		return color.RedString(ts.String())
	case TestStatusTimedOut:
		return color.New(color.FgRed, color.Bold).Sprint(ts.String())
	default:
		return ts.String()
	}
}

func (ts TestStatus) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

func (ts TestStatus) logLevel() logrus.Level {
	switch ts {
	case TestStatusFailed, TestStatusTimedOut:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (ts TestStatus) IsRunning() bool {
	return ts == TestStatusRunning
}

func (ts TestStatus) Passed() bool {
	return ts == TestStatusPassed
}

// IsBad returns true if the test either failed or timed out.
func (ts TestStatus) IsBad() bool {
	return ts == TestStatusFailed || ts == TestStatusTimedOut
}
