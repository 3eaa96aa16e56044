package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/compiles"
	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/modes"
	"github.com/reusee/tinyc/tinyconfigs"
	"github.com/reusee/tinyc/tinylang"
)

var args = cmds.Positional()

func main() {
	cmds.GlobalExecutor.Usage(os.Args[0] + " [flags] <input file> <output file>")
	cmds.Execute(os.Args[1:])
	if len(*args) != 2 {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(1)
	}
	input, output := (*args)[0], (*args)[1]

	dscope.New(
		new(compiles.Module),
		modes.ForProduction(),
	).Call(func(
		logger logs.Logger,
		debug tinyconfigs.Debug,
		compile compiles.Compile,
	) {
		if debug {
			logs.SetLevel(slog.LevelDebug)
		}
		err := compile(context.Background(), input, output)
		if err == nil {
			return
		}
		var e *tinylang.Error
		if errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, e.Error())
		} else {
			logger.Error("compile", "error", err)
		}
		os.Exit(1)
	})
}
