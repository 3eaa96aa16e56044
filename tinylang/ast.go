package tinylang

// Node is a syntax tree node. The set of implementations is closed.
type Node interface {
	Token() Token
	node()
}

// Origin records the token that introduced a node.
type Origin struct {
	Tok Token
}

func (o Origin) Token() Token {
	return o.Tok
}

func (Origin) node() {}

type IntLiteral struct {
	Origin
}

// ArrayLiteral is a bracketed list of single-token elements.
// String literals are desugared into an ArrayLiteral whose token is the string
// token, with one element per character plus a terminating zero.
type ArrayLiteral struct {
	Origin
	Elements []Token
}

func (a *ArrayLiteral) IsString() bool {
	return a.Tok.Kind == TokenString
}

type Identifier struct {
	Origin
}

func (i *Identifier) Name() string {
	return i.Tok.Literal
}

type TableAccess struct {
	Origin
	Index Node
}

func (t *TableAccess) Name() string {
	return t.Tok.Literal
}

type BinaryOp struct {
	Origin
	Left  Node
	Right Node
}

func (b *BinaryOp) Op() TokenKind {
	return b.Tok.Kind
}

// Assign stores Expr into Target, which is an *Identifier or a *TableAccess.
type Assign struct {
	Origin
	Target Node
	Expr   Node
}

type VarDecl struct {
	Origin
	Name Token
}

type VarDeclAssign struct {
	Origin
	Name Token
	Expr Node
}

type ConstDecl struct {
	Origin
	Name  Token
	Value Token
}

type TableDecl struct {
	Origin
	Name   Token
	Length Token
}

type Block struct {
	Origin
	Statements []Node
}

type If struct {
	Origin
	Cond Node
	Body Node
}

type While struct {
	Origin
	Cond Node
	Body Node
}

type FunctionDecl struct {
	Origin
	Name   Token
	Params []Token
	Body   Node
}

type FunctionCall struct {
	Origin
	Args []Node
}

func (f *FunctionCall) Name() string {
	return f.Tok.Literal
}

type Return struct {
	Origin
	Expr Node
}

type Putc struct {
	Origin
	Expr Node
}

type Import struct {
	Origin
	Path       Token
	Statements []Node
}

var (
	_ Node = new(IntLiteral)
	_ Node = new(ArrayLiteral)
	_ Node = new(Identifier)
	_ Node = new(TableAccess)
	_ Node = new(BinaryOp)
	_ Node = new(Assign)
	_ Node = new(VarDecl)
	_ Node = new(VarDeclAssign)
	_ Node = new(ConstDecl)
	_ Node = new(TableDecl)
	_ Node = new(Block)
	_ Node = new(If)
	_ Node = new(While)
	_ Node = new(FunctionDecl)
	_ Node = new(FunctionCall)
	_ Node = new(Return)
	_ Node = new(Putc)
	_ Node = new(Import)
)
