package collector

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest/utils"
)

var ErrNoTestsSelected = errors.New("no tests selected")

type Selection struct {
	// Test case names to run, empty selects every case.
	Cases []string

	// Test names to run, either `Test` or `Case.Test`. Empty selects every
	// test.
	Tests []string

	// When non-zero, replaces the timeout of every selected test.
	Timeout time.Duration
}

// CollectTests returns the tests matching the selection, in the order they
// were given.
func CollectTests(tests []testmgr.TestDescriptor, sel Selection) ([]testmgr.TestDescriptor, error) {
	if sel.Timeout < 0 {
		return nil, fmt.Errorf("timeout override must be positive, got %s", sel.Timeout)
	}

	caseFilter := utils.NewStringFilterFromSlice(sel.Cases)
	testFilter := utils.NewStringFilterFromSlice(sel.Tests)

	selected := make([]testmgr.TestDescriptor, 0, len(tests))
	for _, test := range tests {
		if !caseFilter.Match(test.CaseName()) {
			continue
		}

		if !testFilter.MatchAny([]string{test.Name(), test.ID()}) {
			continue
		}

		if sel.Timeout > 0 {
			test = test.WithTimeout(sel.Timeout)
		}

		selected = append(selected, test)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w (cases: [%s], tests: [%s])",
			ErrNoTestsSelected,
			strings.Join(sel.Cases, ", "),
			strings.Join(sel.Tests, ", "),
		)
	}

	return selected, nil
}
