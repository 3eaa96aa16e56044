package tinylang

import "fmt"

type Location struct {
	Line   int
	Column int
	File   string
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

type Token struct {
	Kind     TokenKind
	Literal  string
	Location Location
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%q) at %v", t.Kind, t.Literal, t.Location)
}

type TokenKind uint8

const (
	TokenEOF TokenKind = iota

	TokenComma
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
	TokenOpenParen
	TokenCloseParen
	TokenSemicolon

	TokenMul
	TokenDiv
	TokenMod
	TokenAdd
	TokenSub
	TokenShl
	TokenShr
	TokenBitAnd
	TokenBitOr
	TokenEq
	TokenNeq
	TokenAssign

	TokenIdentifier
	TokenInt
	TokenString

	TokenFunction
	TokenPutc
	TokenWhile
	TokenIf
	TokenReturn
	TokenLet
	TokenConst
	TokenImport
)

var tokenKindNames = [...]string{
	TokenEOF:          "end of input",
	TokenComma:        "`,`",
	TokenOpenCurly:    "`{`",
	TokenCloseCurly:   "`}`",
	TokenOpenBracket:  "`[`",
	TokenCloseBracket: "`]`",
	TokenOpenParen:    "`(`",
	TokenCloseParen:   "`)`",
	TokenSemicolon:    "`;`",
	TokenMul:          "`*`",
	TokenDiv:          "`/`",
	TokenMod:          "`%`",
	TokenAdd:          "`+`",
	TokenSub:          "`-`",
	TokenShl:          "`<<`",
	TokenShr:          "`>>`",
	TokenBitAnd:       "`&`",
	TokenBitOr:        "`|`",
	TokenEq:           "`==`",
	TokenNeq:          "`!=`",
	TokenAssign:       "`=`",
	TokenIdentifier:   "identifier",
	TokenInt:          "integer",
	TokenString:       "string",
	TokenFunction:     "`fun`",
	TokenPutc:         "`putc`",
	TokenWhile:        "`while`",
	TokenIf:           "`if`",
	TokenReturn:       "`return`",
	TokenLet:          "`let`",
	TokenConst:        "`const`",
	TokenImport:       "`import`",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

var keywords = map[string]TokenKind{
	"fun":    TokenFunction,
	"putc":   TokenPutc,
	"while":  TokenWhile,
	"if":     TokenIf,
	"return": TokenReturn,
	"let":    TokenLet,
	"const":  TokenConst,
	"import": TokenImport,
}

var punctuations = map[rune]TokenKind{
	',': TokenComma,
	'{': TokenOpenCurly,
	'}': TokenCloseCurly,
	'[': TokenOpenBracket,
	']': TokenCloseBracket,
	'(': TokenOpenParen,
	')': TokenCloseParen,
	';': TokenSemicolon,
	'*': TokenMul,
	'/': TokenDiv,
	'%': TokenMod,
	'+': TokenAdd,
	'-': TokenSub,
	'&': TokenBitAnd,
	'|': TokenBitOr,
}
