package tinyconfigs

import (
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/vars"
)

// Debug enables tracing of tokens and statements.
type Debug bool

// EchoCommands prints external commands before running them.
type EchoCommands bool

// ShowProgress prints stage timings.
type ShowProgress bool

var (
	debugFlag      = cmds.Switch("-debug")
	noCmdInfoFlag  = cmds.Switch("-no-cmd-info")
	noProgressFlag = cmds.Switch("-no-info")
)

func init() {
	cmds.GlobalExecutor.Describe("-debug", "trace tokens and statements")
	cmds.GlobalExecutor.Describe("-no-cmd-info", "do not print external commands")
	cmds.GlobalExecutor.Describe("-no-info", "do not print stage timings")
}

// envSet reports whether an environment toggle is present.
// An empty value counts, an explicit false value does not.
func envSet(lookupEnv LookupEnv, key string) bool {
	v, ok := lookupEnv(key)
	if !ok {
		return false
	}
	return v == "" || vars.StrToBool(v)
}

func (Module) Debug(lookupEnv LookupEnv) Debug {
	return Debug(*debugFlag || envSet(lookupEnv, "DEBUG"))
}

func (Module) EchoCommands(lookupEnv LookupEnv) EchoCommands {
	return EchoCommands(!*noCmdInfoFlag && !envSet(lookupEnv, "NO_CMD_INFO"))
}

func (Module) ShowProgress(lookupEnv LookupEnv) ShowProgress {
	return ShowProgress(!*noProgressFlag && !envSet(lookupEnv, "NOINFO"))
}
