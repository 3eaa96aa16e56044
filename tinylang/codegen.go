package tinylang

import (
	"fmt"
	"strings"
)

const (
	DefaultStaticMemorySize = 8 * 1024 * 1024
	DefaultMaxArgs          = 5

	entrySymbol = "start"
	entryName   = "main"
)

type Config struct {
	// StaticMemorySize is the size in bytes of the static arena.
	StaticMemorySize uint64
	// MaxArgs is the number of argument-staging slots.
	MaxArgs int
}

func (c Config) withDefaults() Config {
	if c.StaticMemorySize == 0 {
		c.StaticMemorySize = DefaultStaticMemorySize
	}
	if c.MaxArgs == 0 {
		c.MaxArgs = DefaultMaxArgs
	}
	return c
}

// Generator lowers statements to fasm assembly for x86-64 Linux.
type Generator struct {
	config Config
	out    strings.Builder
	// entry is true while lowering code that runs on the process stack
	// without a caller: top-level statements and the main function.
	entry bool
}

func NewGenerator(config Config) *Generator {
	return &Generator{
		config: config.withDefaults(),
	}
}

func Generate(stmts []Node, config Config) (string, error) {
	return NewGenerator(config).Generate(stmts)
}

func (g *Generator) Generate(stmts []Node) (string, error) {
	g.out.Reset()
	g.entry = true
	env := NewEnv()

	g.line("format ELF64 executable")
	g.line("segment readable executable")
	g.line("    entry %s", entrySymbol)
	if !containsEntry(stmts) {
		g.label(entrySymbol)
	}

	for _, stmt := range stmts {
		if err := g.gen(env, stmt); err != nil {
			return "", err
		}
	}

	g.comment("STOP")
	g.line("mov rax, 60")
	g.line("xor rdi, rdi")
	g.line("syscall")

	g.line("segment readable writable")
	for i, table := range env.Tables() {
		g.line("table_%d db %d * %d dup(0)", i, table.Length, WordSize)
	}
	for i, elements := range env.Strings() {
		values := make([]string, 0, len(elements))
		for _, elem := range elements {
			values = append(values, elem.Literal)
		}
		g.line("string_%d dq %s", i, strings.Join(values, ","))
	}
	g.line("fstack rb %d", g.config.MaxArgs*WordSize)
	g.line("mem rb %d", g.config.StaticMemorySize)

	return g.out.String(), nil
}

func (g *Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.out, format+"\n", args...)
}

func (g *Generator) comment(format string, args ...any) {
	g.line("; "+format, args...)
}

func (g *Generator) label(name string) {
	g.line("%s:", name)
}

func (g *Generator) alloc(env *Env, at Token, words uint64) (uint64, error) {
	offset := env.Alloc(words)
	if size := env.StaticSize(); size > g.config.StaticMemorySize {
		return 0, errorf(ErrLimit, at.Location, "static memory exhausted: %d bytes needed, %d available", size, g.config.StaticMemorySize)
	}
	return offset, nil
}

// containsEntry reports whether a main function is declared anywhere in stmts.
func containsEntry(stmts []Node) bool {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *FunctionDecl:
			if stmt.Name.Literal == entryName || containsEntry([]Node{stmt.Body}) {
				return true
			}
		case *Block:
			if containsEntry(stmt.Statements) {
				return true
			}
		case *Import:
			if containsEntry(stmt.Statements) {
				return true
			}
		case *If:
			if containsEntry([]Node{stmt.Body}) {
				return true
			}
		case *While:
			if containsEntry([]Node{stmt.Body}) {
				return true
			}
		}
	}
	return false
}

func (g *Generator) gen(env *Env, node Node) error {
	switch node := node.(type) {
	case *IntLiteral:
		g.line("mov rax, %s", node.Tok.Literal)
		return nil
	case *ArrayLiteral:
		return g.genArray(env, node)
	case *Identifier:
		return g.genIdentifier(env, node)
	case *TableAccess:
		if err := g.genTableAddress(env, node); err != nil {
			return err
		}
		g.line("mov rax, qword [rbx]")
		return nil
	case *BinaryOp:
		return g.genBinary(env, node)
	case *Assign:
		return g.genAssign(env, node)
	case *VarDecl:
		return g.genVarDecl(env, node)
	case *VarDeclAssign:
		return g.genVarDeclAssign(env, node)
	case *ConstDecl:
		return g.genConstDecl(env, node)
	case *TableDecl:
		return g.genTableDecl(env, node)
	case *Block:
		return g.genStatements(env, node.Statements)
	case *If:
		return g.genIf(env, node)
	case *While:
		return g.genWhile(env, node)
	case *FunctionDecl:
		return g.genFunction(env, node)
	case *FunctionCall:
		return g.genCall(env, node)
	case *Return:
		return g.genReturn(env, node)
	case *Putc:
		return g.genPutc(env, node)
	case *Import:
		return g.genStatements(env, node.Statements)
	default:
		return fmt.Errorf("unknown node type: %T", node)
	}
}

func (g *Generator) genStatements(env *Env, stmts []Node) error {
	for _, stmt := range stmts {
		if err := g.gen(env, stmt); err != nil {
			return err
		}
	}
	return nil
}
