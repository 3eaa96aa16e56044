package debugs

import (
	"context"

	"github.com/reusee/tinyc/logs"
	"go.starlark.net/starlark"
)

// Query evaluates a starlark expression over globals and returns the printed result.
type Query func(ctx context.Context, expr string, globals map[string]any) (string, error)

func (Module) Query(
	logger logs.Logger,
) Query {
	return func(ctx context.Context, expr string, globals map[string]any) (string, error) {
		thread := &starlark.Thread{
			Name: "query",
			Print: func(_ *starlark.Thread, msg string) {
				logger.InfoContext(ctx, "query print", "message", msg)
			},
		}
		result, err := starlark.EvalOptions(fileOptions, thread, "query", expr, toStringDict(globals))
		if err != nil {
			return "", err
		}
		if s, ok := result.(starlark.String); ok {
			return s.GoString(), nil
		}
		return result.String(), nil
	}
}
