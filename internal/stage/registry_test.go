package stage_test

import (
	"github.com/relaylab/strpipe/internal/stage"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(RegistryTestSuite))

type RegistryTestSuite struct{}

func (s *RegistryTestSuite) TestRegisterAndLookup(c *gc.C) {
	stage.Register("suite-test-echo", func() stage.Contract {
		return stage.New("suite-test-echo", func(r string) (string, bool) { return r, true })
	})

	factory, ok := stage.Lookup("suite-test-echo")
	c.Assert(ok, gc.Equals, true)
	c.Assert(factory().Name(), gc.Equals, "suite-test-echo")

	_, ok = stage.Lookup("does-not-exist")
	c.Assert(ok, gc.Equals, false)
}

func (s *RegistryTestSuite) TestRegisterTwiceUnderTheSameIdentifierPanics(c *gc.C) {
	stage.Register("suite-test-dup", func() stage.Contract { return nil })
	register := func() {
		stage.Register("suite-test-dup", func() stage.Contract { return nil })
	}
	c.Assert(register, gc.PanicMatches, "stage: duplicate registration for suite-test-dup")
}

func (s *RegistryTestSuite) TestIdentifiersAreSortedAndIncludeRegistered(c *gc.C) {
	stage.Register("suite-test-zzz", func() stage.Contract { return nil })
	ids := stage.Identifiers()

	found := false
	for i := 1; i < len(ids); i++ {
		c.Assert(ids[i-1] < ids[i], gc.Equals, true)
	}
	for _, id := range ids {
		if id == "suite-test-zzz" {
			found = true
		}
	}
	c.Assert(found, gc.Equals, true)
}
