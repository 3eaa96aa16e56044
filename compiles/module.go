package compiles

import (
	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tinyc/assemblers"
	"github.com/reusee/tinyc/debugs"
	"github.com/reusee/tinyc/tinyconfigs"
)

type Module struct {
	dscope.Module
	Configs    tinyconfigs.Module
	Assemblers assemblers.Module
	Debugs     debugs.Module
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)
