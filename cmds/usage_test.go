package cmds

import (
	"strings"
	"testing"
)

func TestUsage(t *testing.T) {
	executor := NewExecutor()
	executor.Usage("tinyc [flags] <input> <output>")
	executor.Define("regression", Sub(map[string]*Command{
		"run": Func(func() {
		}).Desc("RUN"),
		"fixtures": Sub(map[string]*Command{
			"record": Func(func() {}).Desc("RECORD"),
		}).Desc("FIXTURES"),
	}).Desc("REGRESSION"))

	buf := new(strings.Builder)
	executor.WriteUsage(buf)
	usage := buf.String()
	for _, expected := range []string{
		"usage: tinyc [flags] <input> <output>\n",
		"--help, -h, -help, help\tprint this usage\n",
		"regression\tREGRESSION\n",
		"  fixtures\tFIXTURES\n",
		"    record\tRECORD\n",
		"  run\tRUN\n",
	} {
		if !strings.Contains(usage, expected) {
			t.Fatalf("expected %q in:\n%s", expected, usage)
		}
	}

	executor.PrintUsage()
}
