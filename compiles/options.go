package compiles

import "github.com/reusee/tinyc/cmds"

// AsmOnly stops after writing the assembly file.
type AsmOnly bool

// QueryExpr is a starlark expression evaluated over the compilation instead of producing output.
type QueryExpr string

// OpenTap opens an interactive session over the compilation before writing output.
type OpenTap bool

var (
	asmOnlyFlag = cmds.Switch("-asm-only")
	queryFlag   = cmds.Var[string]("-query")
	tapFlag     = cmds.Switch("repl")
)

func init() {
	cmds.GlobalExecutor.Describe("-asm-only", "write the assembly file and skip the assembler")
	cmds.GlobalExecutor.Describe("-query", "evaluate a starlark expression over tokens, ast and asm")
	cmds.GlobalExecutor.Describe("repl", "inspect tokens, ast and asm interactively")
}

func (Module) AsmOnly() AsmOnly {
	return AsmOnly(*asmOnlyFlag)
}

func (Module) QueryExpr() QueryExpr {
	return QueryExpr(*queryFlag)
}

func (Module) OpenTap() OpenTap {
	return OpenTap(*tapFlag)
}
