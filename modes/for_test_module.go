package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

// ModuleForTest runs a scope in development mode: no host config files,
// no host environment toggles.
type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}

func (ModuleForTest) Mode() Mode {
	return ModeDevelopment
}
