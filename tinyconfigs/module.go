package tinyconfigs

import (
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/modes"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

// LookupEnv reads environment toggles.
type LookupEnv func(key string) (string, bool)

func (Module) LookupEnv(
	mode modes.Mode,
) LookupEnv {
	// tests never see the host toggles
	if mode == modes.ModeDevelopment {
		return func(string) (string, bool) {
			return "", false
		}
	}
	return os.LookupEnv
}
