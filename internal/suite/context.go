package suite

import (
	"context"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest/core"
)

type SuiteContext interface {
	core.Named

	core.LoggerProvider

	// Returns all registered tests in registration order
	Tests() []testmgr.TestDescriptor

	// Returns the names of all registered test cases
	Cases() []string

	// Returns whether the suite has Azure DevOps integration enabled
	AzureDevops() bool

	// Returns a context for the suite, cancelled on interrupt.
	Context() context.Context
}
