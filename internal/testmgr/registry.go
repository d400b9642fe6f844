package testmgr

import (
	"errors"
	"fmt"
)

var ErrDuplicateTest = errors.New("test already registered")

// Registry holds registered tests in registration order. It is not safe for
// concurrent use: tests are registered during package initialization, before
// any run starts, and only read afterwards.
type Registry struct {
	tests []TestDescriptor
	ids   map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[string]struct{}),
	}
}

// Register appends d to the registry.
func (r *Registry) Register(d TestDescriptor) error {
	if d.body == nil {
		// The zero value never went through NewTestDescriptor.
		return fmt.Errorf("%w: descriptor was not constructed with NewTestDescriptor", ErrInvalidDescriptor)
	}

	if _, ok := r.ids[d.ID()]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicateTest, d.ID())
	}

	r.tests = append(r.tests, d)
	r.ids[d.ID()] = struct{}{}
	return nil
}

// Tests returns a copy of all registered tests in registration order.
func (r *Registry) Tests() []TestDescriptor {
	return append([]TestDescriptor(nil), r.tests...)
}

// Cases returns the distinct test case names in order of first registration.
func (r *Registry) Cases() []string {
	seen := make(map[string]bool)
	var cases []string
	for _, d := range r.tests {
		if !seen[d.caseName] {
			seen[d.caseName] = true
			cases = append(cases, d.caseName)
		}
	}
	return cases
}

func (r *Registry) Len() int {
	return len(r.tests)
}

var globalRegistry *Registry // singleton, initialized on first use

// GlobalRegistry returns the process-wide registry populated by RegisterTest.
func GlobalRegistry() *Registry {
	if globalRegistry == nil {
		globalRegistry = NewRegistry()
	}
	return globalRegistry
}

// RegisterTest adds d to the global registry. Registration errors are
// programming errors, so it panics instead of returning them.
func RegisterTest(d TestDescriptor) {
	if err := GlobalRegistry().Register(d); err != nil {
		panic(fmt.Sprintf("failed to register test: %v", err))
	}
}

// SetGlobalRegistryForTesting temporarily sets reg as the global registry.
// The caller must call the returned function later to restore the original
// registry.
func SetGlobalRegistryForTesting(reg *Registry) (restore func()) {
	orig := globalRegistry
	globalRegistry = reg
	return func() {
		globalRegistry = orig
	}
}
