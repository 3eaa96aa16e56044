package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/tinyc/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens an interactive starlark session over globals on the terminal.
type Tap func(ctx context.Context, what string, globals map[string]any)

var fileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
}

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "tap: "+what,
			"globals", names,
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		thread := &starlark.Thread{
			Name: "repl",
		}
		repl.REPLOptions(fileOptions, thread, toStringDict(globals))
	}
}

func toStringDict(globals map[string]any) starlark.StringDict {
	mappings := make(starlark.StringDict)
	for name, value := range globals {
		mappings[name] = toStarlarkValue(value)
	}
	return mappings
}
