package regressions

import (
	"runtime"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/compiles"
	"github.com/reusee/tinyc/vars"
)

type Module struct {
	dscope.Module
	Compiles compiles.Module
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// Parallel bounds the number of samples compiled and executed at once.
type Parallel int

var parallelFlag = cmds.Var[int]("-parallel")

func init() {
	cmds.GlobalExecutor.Describe("-parallel", "set the number of samples run at once")
}

func (Module) Parallel() Parallel {
	return Parallel(vars.FirstNonZero(
		*parallelFlag,
		runtime.NumCPU(),
	))
}
