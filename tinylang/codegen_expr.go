package tinylang

import (
	"strconv"
)

func (g *Generator) genArray(env *Env, array *ArrayLiteral) error {
	if array.IsString() {
		index := env.AddString(array.Elements)
		g.line("lea rax, [string_%d]", index)
		return nil
	}

	values := make([]string, 0, len(array.Elements))
	for _, elem := range array.Elements {
		value, err := elementValue(env, elem)
		if err != nil {
			return err
		}
		values = append(values, value)
	}

	g.comment("ARRAY")
	base, err := g.alloc(env, array.Tok, uint64(len(values)))
	if err != nil {
		return err
	}
	for i, value := range values {
		g.line("mov qword [mem+%d], %s", base+uint64(i)*WordSize, value)
	}
	g.line("lea rax, [mem+%d]", base)
	return nil
}

func elementValue(env *Env, elem Token) (string, error) {
	switch elem.Kind {
	case TokenInt:
		return elem.Literal, nil
	case TokenIdentifier:
		if value, ok := env.Const(elem.Literal); ok {
			return strconv.FormatInt(value, 10), nil
		}
	}
	return "", errorf(ErrType, elem.Location, "array element `%s` is not an integer constant", elem.Literal)
}

func (g *Generator) genBinary(env *Env, op *BinaryOp) error {
	if err := g.gen(env, op.Left); err != nil {
		return err
	}
	g.line("push rax")
	if err := g.gen(env, op.Right); err != nil {
		return err
	}
	g.line("pop rbx")

	switch op.Op() {
	case TokenAdd:
		g.line("add rax, rbx")
	case TokenSub:
		g.line("sub rbx, rax")
		g.line("mov rax, rbx")
	case TokenMul:
		g.line("mul rbx")
	case TokenDiv, TokenMod:
		g.line("xor rdx, rdx")
		g.line("mov rcx, rax")
		g.line("mov rax, rbx")
		g.line("mov rbx, rcx")
		g.line("div rbx")
		if op.Op() == TokenMod {
			g.line("mov rax, rdx")
		}
	case TokenShl:
		g.line("mov rcx, rax")
		g.line("mov rax, rbx")
		g.line("shl rax, cl")
	case TokenShr:
		g.line("mov rcx, rax")
		g.line("mov rax, rbx")
		g.line("shr rax, cl")
	case TokenBitAnd:
		g.line("and rbx, rax")
		g.line("mov rax, rbx")
	case TokenBitOr:
		g.line("or rbx, rax")
		g.line("mov rax, rbx")
	case TokenEq:
		g.compare("cmove")
	case TokenNeq:
		g.compare("cmovne")
	default:
		return errorf(ErrSyntax, op.Tok.Location, "`%s` is not a binary operator", op.Tok.Literal)
	}
	return nil
}

// compare leaves 1 in rax if the condition holds, 0 otherwise.
func (g *Generator) compare(cmov string) {
	g.line("mov rcx, 0")
	g.line("mov rdx, 1")
	g.line("cmp rax, rbx")
	g.line("%s rcx, rdx", cmov)
	g.line("mov rax, rcx")
}

// resolve looks up an assigned variable by name.
func (g *Generator) resolve(env *Env, tok Token) (Slot, error) {
	slot, resolution := env.Lookup(tok.Literal)
	switch resolution {
	case Unknown:
		if _, ok := env.Function(tok.Literal); ok {
			return slot, errorf(ErrName, tok.Location, "`%s` is a function, not a variable", tok.Literal)
		}
		return slot, errorf(ErrName, tok.Location, "identifier `%s` is not declared", tok.Literal)
	case Unassigned:
		return slot, errorf(ErrName, tok.Location, "identifier `%s` is not assigned", tok.Literal)
	}
	return slot, nil
}

func (g *Generator) genIdentifier(env *Env, ident *Identifier) error {
	if value, ok := env.Const(ident.Name()); ok {
		g.line("mov rax, %d", value)
		return nil
	}
	slot, err := g.resolve(env, ident.Tok)
	if err != nil {
		return err
	}
	g.line("mov rax, qword %s", slot.Operand())
	return nil
}

// genTableAddress leaves the address of the accessed element in rbx.
func (g *Generator) genTableAddress(env *Env, access *TableAccess) error {
	if _, ok := env.Const(access.Name()); ok {
		return errorf(ErrType, access.Tok.Location, "constant `%s` cannot be indexed", access.Name())
	}
	slot, err := g.resolve(env, access.Tok)
	if err != nil {
		return err
	}
	if err := g.gen(env, access.Index); err != nil {
		return err
	}
	switch slot.Kind {
	case SlotTable:
		g.line("lea r10, %s", slot.Operand())
	default:
		g.line("mov r10, qword %s", slot.Operand())
	}
	g.line("mov rcx, %d", WordSize)
	g.line("mul rcx")
	g.line("add rax, r10")
	g.line("mov rbx, rax")
	return nil
}

func (g *Generator) genCall(env *Env, call *FunctionCall) error {
	label, ok := env.Function(call.Name())
	if !ok {
		return errorf(ErrName, call.Tok.Location, "function `%s` is not declared", call.Name())
	}
	if len(call.Args) > g.config.MaxArgs {
		return errorf(ErrLimit, call.Tok.Location, "too many arguments in call to `%s`: %d, at most %d", call.Name(), len(call.Args), g.config.MaxArgs)
	}
	for i, arg := range call.Args {
		if err := g.gen(env, arg); err != nil {
			return err
		}
		g.line("mov qword %s, rax", StackArgSlot(uint64(i)*WordSize).Operand())
	}
	g.line("call %s", label)
	return nil
}
