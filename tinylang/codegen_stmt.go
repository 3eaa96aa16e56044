package tinylang

import (
	"strconv"
	"strings"
)

func (g *Generator) genAssign(env *Env, assign *Assign) error {
	if err := g.gen(env, assign.Expr); err != nil {
		return err
	}

	switch target := assign.Target.(type) {

	case *Identifier:
		name := target.Name()
		if _, ok := env.Function(name); ok {
			return errorf(ErrName, target.Tok.Location, "cannot assign to function `%s`", name)
		}
		if _, ok := env.Const(name); ok {
			return errorf(ErrName, target.Tok.Location, "cannot assign to constant `%s`", name)
		}
		slot, resolution := env.Lookup(name)
		switch resolution {
		case Unknown:
			return errorf(ErrName, target.Tok.Location, "identifier `%s` is not declared", name)
		case Unassigned:
			offset, err := g.alloc(env, target.Tok, 1)
			if err != nil {
				return err
			}
			slot = StaticSlot(offset)
			env.Bind(name, slot)
		}
		if slot.Kind == SlotTable {
			return errorf(ErrType, target.Tok.Location, "cannot assign to table `%s`", name)
		}
		g.comment("ASSIGN")
		g.line("mov qword %s, rax", slot.Operand())
		return nil

	case *TableAccess:
		g.line("push rax")
		if err := g.genTableAddress(env, target); err != nil {
			return err
		}
		g.line("pop rax")
		g.line("mov qword [rbx], rax")
		return nil

	default:
		return errorf(ErrSyntax, assign.Tok.Location, "invalid assignment target")
	}
}

func (g *Generator) checkNameFree(env *Env, name Token) error {
	if _, ok := env.Function(name.Literal); ok {
		return errorf(ErrName, name.Location, "`%s` is already a function", name.Literal)
	}
	return nil
}

func (g *Generator) genVarDecl(env *Env, decl *VarDecl) error {
	if err := g.checkNameFree(env, decl.Name); err != nil {
		return err
	}
	env.Declare(decl.Name.Literal)
	return nil
}

func (g *Generator) genVarDeclAssign(env *Env, decl *VarDeclAssign) error {
	if err := g.checkNameFree(env, decl.Name); err != nil {
		return err
	}
	offset, err := g.alloc(env, decl.Name, 1)
	if err != nil {
		return err
	}
	slot := StaticSlot(offset)
	env.Bind(decl.Name.Literal, slot)
	if err := g.gen(env, decl.Expr); err != nil {
		return err
	}
	g.comment("ASSIGN")
	g.line("mov qword %s, rax", slot.Operand())
	return nil
}

// parseInteger reads an integer literal the way the assembler reads an immediate:
// decimal, or hexadecimal with a 0x prefix. Leading zeros do not mean octal.
func parseInteger(tok Token) (int64, bool) {
	if tok.Kind != TokenInt {
		return 0, false
	}
	lit, base := tok.Literal, 10
	if hex, ok := strings.CutPrefix(strings.ToLower(lit), "0x"); ok {
		lit, base = hex, 16
	}
	v, err := strconv.ParseInt(lit, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (g *Generator) genConstDecl(env *Env, decl *ConstDecl) error {
	if err := g.checkNameFree(env, decl.Name); err != nil {
		return err
	}
	value, ok := parseInteger(decl.Value)
	if !ok {
		return errorf(ErrType, decl.Value.Location, "the value of constant `%s` is not an integer: %s", decl.Name.Literal, describe(decl.Value))
	}
	env.DefineConst(decl.Name.Literal, value)
	return nil
}

func (g *Generator) genTableDecl(env *Env, decl *TableDecl) error {
	if err := g.checkNameFree(env, decl.Name); err != nil {
		return err
	}
	length, ok := parseInteger(decl.Length)
	if !ok && decl.Length.Kind == TokenIdentifier {
		length, ok = env.Const(decl.Length.Literal)
	}
	if !ok {
		return errorf(ErrType, decl.Length.Location, "the length of table `%s` is not an integer: %s", decl.Name.Literal, describe(decl.Length))
	}
	if length <= 0 {
		return errorf(ErrType, decl.Length.Location, "the length of table `%s` must be positive, got %d", decl.Name.Literal, length)
	}
	index := env.AddTable(decl.Name.Literal, length)
	env.Bind(decl.Name.Literal, TableSlot(index))
	return nil
}

func (g *Generator) genIf(env *Env, stmt *If) error {
	start := env.NewLabel()
	end := env.NewLabel()
	g.comment("IF")
	g.label(start)
	if err := g.gen(env, stmt.Cond); err != nil {
		return err
	}
	g.line("cmp rax, 0")
	g.line("je %s", end)
	if err := g.gen(env, stmt.Body); err != nil {
		return err
	}
	g.label(end)
	return nil
}

func (g *Generator) genWhile(env *Env, stmt *While) error {
	start := env.NewLabel()
	end := env.NewLabel()
	g.comment("WHILE")
	g.label(start)
	if err := g.gen(env, stmt.Cond); err != nil {
		return err
	}
	g.line("cmp rax, 0")
	g.line("je %s", end)
	if err := g.gen(env, stmt.Body); err != nil {
		return err
	}
	g.line("jmp %s", start)
	g.label(end)
	return nil
}

func (g *Generator) genFunction(env *Env, decl *FunctionDecl) error {
	name := decl.Name.Literal
	if _, ok := env.Function(name); ok {
		return errorf(ErrName, decl.Name.Location, "function `%s` is already declared", name)
	}
	if _, resolution := env.Lookup(name); resolution != Unknown {
		return errorf(ErrName, decl.Name.Location, "`%s` is already a variable", name)
	}
	if _, ok := env.Const(name); ok {
		return errorf(ErrName, decl.Name.Location, "`%s` is already a constant", name)
	}
	if len(decl.Params) > g.config.MaxArgs {
		return errorf(ErrLimit, decl.Name.Location, "function `%s` has %d parameters, at most %d", name, len(decl.Params), g.config.MaxArgs)
	}

	if name == entryName {
		env.DefineFunction(name, entrySymbol)
		g.label(entrySymbol)
		if err := g.genPrologue(env, decl); err != nil {
			return err
		}
		entry := g.entry
		g.entry = true
		defer func() {
			g.entry = entry
		}()
		return g.gen(env, decl.Body)
	}

	label := "FUNC_" + name
	env.DefineFunction(name, label)
	g.line("jmp %s_end", label)
	g.label(label)
	child := env.Fork()
	if err := g.genPrologue(child, decl); err != nil {
		return err
	}
	entry := g.entry
	g.entry = false
	defer func() {
		g.entry = entry
	}()
	if err := g.gen(child, decl.Body); err != nil {
		return err
	}
	g.line("ret")
	g.label(label + "_end")
	env.Join(child)
	return nil
}

// genPrologue copies the staged arguments into fresh static slots.
func (g *Generator) genPrologue(env *Env, decl *FunctionDecl) error {
	for i, param := range decl.Params {
		offset, err := g.alloc(env, param, 1)
		if err != nil {
			return err
		}
		slot := StaticSlot(offset)
		g.line("mov r10, qword %s", StackArgSlot(uint64(i)*WordSize).Operand())
		g.line("mov qword %s, r10", slot.Operand())
		env.Bind(param.Literal, slot)
	}
	return nil
}

func (g *Generator) genReturn(env *Env, stmt *Return) error {
	if err := g.gen(env, stmt.Expr); err != nil {
		return err
	}
	if g.entry {
		g.comment("EXIT")
		g.line("mov rdi, rax")
		g.line("mov rax, 60")
		g.line("syscall")
		return nil
	}
	g.line("ret")
	return nil
}

func (g *Generator) genPutc(env *Env, stmt *Putc) error {
	if err := g.gen(env, stmt.Expr); err != nil {
		return err
	}
	offset, err := g.alloc(env, stmt.Tok, 1)
	if err != nil {
		return err
	}
	slot := StaticSlot(offset).Operand()
	g.comment("PUTC")
	g.line("mov qword %s, rax", slot)
	g.line("lea rsi, %s", slot)
	g.line("mov rdx, 1")
	g.line("mov rdi, 1")
	g.line("mov rax, 1")
	g.line("syscall")
	return nil
}
