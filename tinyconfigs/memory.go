package tinyconfigs

import (
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/configs"
	"github.com/reusee/tinyc/tinylang"
	"github.com/reusee/tinyc/vars"
)

// StaticMemorySize is the size in bytes of the static arena of compiled programs.
type StaticMemorySize uint64

var staticMemoryFlag = cmds.Var[uint64]("-static-memory")

func init() {
	cmds.GlobalExecutor.Describe("-static-memory", "set the static arena size in bytes")
}

func (Module) StaticMemorySize(
	loader configs.Loader,
) StaticMemorySize {
	return StaticMemorySize(vars.FirstNonZero(
		*staticMemoryFlag,
		configs.First[uint64](loader, "static_memory_size"),
		tinylang.DefaultStaticMemorySize,
	))
}

// MaxArgs is the number of argument-staging slots.
type MaxArgs int

// unsigned, so negative counts are rejected when parsing arguments
var maxArgsFlag = cmds.Var[uint]("-max-args")

func init() {
	cmds.GlobalExecutor.Describe("-max-args", "set the maximum number of function arguments")
}

func (Module) MaxArgs(
	loader configs.Loader,
) MaxArgs {
	return MaxArgs(vars.FirstNonZero(
		int(*maxArgsFlag),
		configs.First[int](loader, "max_args"),
		tinylang.DefaultMaxArgs,
	))
}

func (Module) GeneratorConfig(
	size StaticMemorySize,
	maxArgs MaxArgs,
) tinylang.Config {
	return tinylang.Config{
		StaticMemorySize: uint64(size),
		MaxArgs:          int(maxArgs),
	}
}
