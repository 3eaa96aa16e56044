package compiles

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reusee/tinyc/assemblers"
	"github.com/reusee/tinyc/debugs"
	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/procs"
	"github.com/reusee/tinyc/tinyconfigs"
	"github.com/reusee/tinyc/tinylang"
)

// Compile compiles the input file into the executable output.
// The assembly is written to output + ".asm".
type Compile func(ctx context.Context, input string, output string) error

// unit is the state of one compilation, threaded through the stages.
type unit struct {
	ctx    context.Context
	input  string
	output string

	source []byte
	tokens []tinylang.Token
	stmts  []tinylang.Node
	asm    string
	done   bool
}

func (u *unit) asmPath() string {
	return u.output + ".asm"
}

func (u *unit) globals() map[string]any {
	return map[string]any{
		"input":  u.input,
		"tokens": u.tokens,
		"ast":    u.stmts,
		"asm":    u.asm,
		// count returns the number of assembly lines containing substr
		"count": func(substr string) int {
			n := 0
			for line := range strings.Lines(u.asm) {
				if strings.Contains(line, substr) {
					n++
				}
			}
			return n
		},
	}
}

func (Module) Compile(
	logger logs.Logger,
	newSpan logs.NewSpan,
	config tinylang.Config,
	debug tinyconfigs.Debug,
	progress tinyconfigs.ShowProgress,
	asmOnly AsmOnly,
	queryExpr QueryExpr,
	openTap OpenTap,
	query debugs.Query,
	tap debugs.Tap,
	assemble assemblers.Assemble,
	stdout assemblers.Stdout,
) Compile {

	// stage wraps a step with timing and the done check
	stage := func(name string, fn func(u *unit) error) procs.Func[*unit] {
		return func(u *unit) error {
			if u.done {
				return nil
			}
			begin := time.Now()
			if err := fn(u); err != nil {
				return err
			}
			if progress {
				logger.InfoContext(u.ctx, name,
					"took", time.Since(begin),
				)
			}
			return nil
		}
	}

	read := stage("reading", func(u *unit) (err error) {
		u.source, err = os.ReadFile(u.input)
		if err != nil {
			return wrap(err)
		}
		return nil
	})

	lex := stage("tokenizing", func(u *unit) (err error) {
		u.tokens, err = tinylang.Lex(u.input, bytes.NewReader(u.source))
		if err != nil {
			return err
		}
		if debug {
			for _, tok := range u.tokens {
				logger.DebugContext(u.ctx, "token",
					"kind", tok.Kind.String(),
					"literal", tok.Literal,
					"location", tok.Location.String(),
				)
			}
		}
		return nil
	})

	parse := stage("parsing", func(u *unit) (err error) {
		u.stmts, err = tinylang.NewImporter().ParseTokens(u.input, u.tokens)
		if err != nil {
			return err
		}
		if debug {
			for _, stmt := range u.stmts {
				logger.DebugContext(u.ctx, "statement",
					"node", tinylang.Dump(stmt),
				)
			}
		}
		return nil
	})

	generate := stage("generation", func(u *unit) (err error) {
		u.asm, err = tinylang.Generate(u.stmts, config)
		return err
	})

	inspect := stage("inspection", func(u *unit) error {
		if queryExpr != "" {
			res, err := query(u.ctx, string(queryExpr), u.globals())
			if err != nil {
				return wrap(err)
			}
			if _, err := fmt.Fprintln(stdout, res); err != nil {
				return wrap(err)
			}
			u.done = true
			return nil
		}
		if openTap {
			tap(u.ctx, u.input, u.globals())
		}
		return nil
	})

	write := stage("writing", func(u *unit) error {
		if err := os.WriteFile(u.asmPath(), []byte(u.asm), 0644); err != nil {
			return wrap(err)
		}
		if asmOnly {
			u.done = true
		}
		return nil
	})

	link := stage("assembling", func(u *unit) error {
		return assemble(u.ctx, u.asmPath(), u.output)
	})

	return func(ctx context.Context, input string, output string) error {
		ctx, _ = newSpan(ctx, "", "input", input)
		u := &unit{
			ctx:    ctx,
			input:  input,
			output: output,
		}
		err := procs.Run(u, procs.Proc[*unit](procs.Procs[*unit]{
			read,
			lex,
			parse,
			generate,
			inspect,
			write,
			link,
		}))
		if err != nil {
			return logs.WrapSpan(ctx, err)
		}
		return nil
	}
}
