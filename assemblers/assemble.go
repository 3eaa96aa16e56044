package assemblers

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/reusee/tinyc/logs"
	"github.com/reusee/tinyc/tinyconfigs"
)

// Assemble turns asmPath into the executable output.
type Assemble func(ctx context.Context, asmPath string, output string) error

func (Module) Assemble(
	logger logs.Logger,
	assembler tinyconfigs.AssemblerPath,
	run Run,
) Assemble {
	return func(ctx context.Context, asmPath string, output string) error {
		if err := run(ctx, string(assembler), asmPath, output); err != nil {
			return err
		}
		if err := os.Chmod(output, 0755); err != nil {
			return wrap(err)
		}
		logger.DebugContext(ctx, "assembled",
			"asm", asmPath,
			"output", output,
		)
		return nil
	}
}

// Run executes an external command, echoing it first unless disabled.
type Run func(ctx context.Context, name string, args ...string) error

func (Module) Run(
	logger logs.Logger,
	echo tinyconfigs.EchoCommands,
	stdout Stdout,
) Run {
	return func(ctx context.Context, name string, args ...string) error {
		command := append([]string{name}, args...)
		if echo {
			logger.InfoContext(ctx, "run",
				"command", strings.Join(command, " "),
			)
		}
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return wrap(fmt.Errorf("%s: %w", strings.Join(command, " "), err))
		}
		return nil
	}
}
