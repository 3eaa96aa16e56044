package tinyconfigs

import (
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/configs"
	"github.com/reusee/tinyc/vars"
)

type AssemblerPath string

const DefaultAssemblerPath = "fasm"

var assemblerFlag = cmds.Var[string]("-fasm")

func init() {
	cmds.GlobalExecutor.Describe("-fasm", "set the assembler path")
}

func (Module) AssemblerPath(
	loader configs.Loader,
	lookupEnv LookupEnv,
) AssemblerPath {
	env, _ := lookupEnv("FASM_LOC")
	return AssemblerPath(vars.FirstNonZero(
		*assemblerFlag,
		env,
		configs.First[string](loader, "assembler_path"),
		DefaultAssemblerPath,
	))
}
