package logs

import (
	"io"
	"os"
)

// Writer receives terminal log records.
// It is stderr so that stdout carries only query results and program output.
type Writer io.Writer

func (Module) Writer() Writer {
	return os.Stderr
}
