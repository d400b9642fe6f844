package smoke

import (
	"errors"

	"cstest/internal/testmgr"
	"cstest/pkg/cstest"
)

var registryCase = cstest.TestCase("Registry")

func init() {
	registryCase.AddTest("RejectsInvalidDescriptors", rejectsInvalidDescriptors)
	registryCase.AddTest("SeesThisTest", seesThisTest)
}

func rejectsInvalidDescriptors(t cstest.Test) {
	_, err := testmgr.NewTestDescriptor("Registry", "", func(cstest.Test) {}, testmgr.DefaultTimeout)
	t.Assert(errors.Is(err, testmgr.ErrInvalidDescriptor), "empty name was accepted")

	_, err = testmgr.NewTestDescriptor("Registry", "has space", func(cstest.Test) {}, testmgr.DefaultTimeout)
	t.Assert(errors.Is(err, testmgr.ErrInvalidDescriptor), "invalid name was accepted")

	_, err = testmgr.NewTestDescriptor("Registry", "NoBody", nil, testmgr.DefaultTimeout)
	t.Assert(errors.Is(err, testmgr.ErrInvalidDescriptor), "nil body was accepted")

	_, err = testmgr.NewTestDescriptor("Registry", "NoTimeout", func(cstest.Test) {}, 0)
	t.Assert(errors.Is(err, testmgr.ErrInvalidDescriptor), "zero timeout was accepted")

	t.Pass()
}

func seesThisTest(t cstest.Test) {
	for _, d := range testmgr.GlobalRegistry().Tests() {
		if d.CaseName() == t.CaseName() && d.Name() == t.Name() {
			t.Pass()
			return
		}
	}

	t.Failf("'%s.%s' is not in the global registry", t.CaseName(), t.Name())
}
