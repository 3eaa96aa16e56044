package assemblers

import (
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tinyc/tinyconfigs"
)

type Module struct {
	dscope.Module
	Configs tinyconfigs.Module
}

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// Stdout receives the output of external commands.
type Stdout io.Writer

func (Module) Stdout() Stdout {
	return os.Stdout
}
