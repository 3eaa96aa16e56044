package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/tinyc/cmds"
	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/modes"
	"github.com/reusee/tinyc/regressions"
	"github.com/reusee/tinyc/tinyconfigs"
)

var (
	doRun    = cmds.Switch("run")
	doRecord = cmds.Switch("record")
	roots    = cmds.Positional()
)

func init() {
	cmds.GlobalExecutor.Describe("run", "check samples against their fixtures")
	cmds.GlobalExecutor.Describe("record", "write the fixtures of samples")
}

func main() {
	cmds.GlobalExecutor.Usage(os.Args[0] + " [flags] run|record [file or directory ...]")
	cmds.Execute(os.Args[1:])
	if *doRun == *doRecord {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(1)
	}

	dscope.New(
		new(regressions.Module),
		modes.ForProduction(),
	).Call(func(
		logger logs.Logger,
		sampleRoots tinyconfigs.SampleRoots,
		check regressions.Check,
		record regressions.Record,
	) {
		ctx := context.Background()

		paths := *roots
		if len(paths) == 0 {
			paths = sampleRoots
		}
		if len(paths) == 0 {
			fmt.Fprintln(os.Stderr, "no samples given and none configured")
			os.Exit(1)
		}

		if *doRecord {
			n := 0
			for _, root := range paths {
				samples, err := record(ctx, root)
				if err != nil {
					logger.Error("record", "root", root, "error", err)
					os.Exit(1)
				}
				n += len(samples)
			}
			fmt.Printf("recorded %d samples\n", n)
			return
		}

		failed := false
		for _, root := range paths {
			report, err := check(ctx, root)
			if err != nil {
				logger.Error("run", "root", root, "error", err)
				os.Exit(1)
			}
			for _, mismatch := range report.Failed {
				fmt.Fprintf(os.Stderr, "[ERROR]: the test for %s failed.\nexpected:\n%s\ngot:\n%s\n",
					mismatch.Sample.Path,
					mismatch.Expected,
					mismatch.Got,
				)
			}
			fmt.Printf("%s: %d passed, %d failed, %d skipped\n",
				root,
				len(report.Passed),
				len(report.Failed),
				len(report.Skipped),
			)
			failed = failed || !report.OK()
		}
		if failed {
			os.Exit(1)
		}
	})
}
