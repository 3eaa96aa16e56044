package tinylang

import (
	"fmt"
	"strconv"
)

type Parser struct {
	tokens   []Token
	pos      int
	eof      Token
	importer *Importer
}

// NewParser creates a parser over a materialized token sequence.
// A nil importer reads imported files from the file system.
func NewParser(file string, tokens []Token, importer *Importer) *Parser {
	eof := Token{
		Kind: TokenEOF,
		Location: Location{
			Line:   1,
			Column: 1,
			File:   file,
		},
	}
	if len(tokens) > 0 {
		eof.Location = tokens[len(tokens)-1].Location
	}
	if importer == nil {
		importer = NewImporter()
	}
	return &Parser{
		tokens:   tokens,
		eof:      eof,
		importer: importer,
	}
}

func Parse(file string, tokens []Token) ([]Node, error) {
	return NewParser(file, tokens, nil).Parse()
}

// Parse returns the top-level statements. The first error aborts parsing.
func (p *Parser) Parse() ([]Node, error) {
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != TokenEOF {
		return nil, p.unexpected(tok, "a statement")
	}
	return stmts, nil
}

func (p *Parser) current() Token {
	return p.peek(0)
}

func (p *Parser) peek(n int) Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.eof
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		if kind == TokenSemicolon {
			return tok, errorf(ErrSyntax, tok.Location, "missing `;`, got %s", describe(tok))
		}
		return tok, p.unexpected(tok, kind.String())
	}
	return p.advance(), nil
}

func (p *Parser) unexpected(tok Token, expected string) error {
	return errorf(ErrSyntax, tok.Location, "expected %s, got %s", expected, describe(tok))
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return tok.Kind.String()
	case TokenString:
		return "string " + strconv.Quote(tok.Literal)
	}
	return fmt.Sprintf("`%s`", tok.Literal)
}

func (p *Parser) parseStatements() (ret []Node, err error) {
	for {
		switch p.current().Kind {
		case TokenEOF, TokenCloseCurly:
			return
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		ret = append(ret, stmt)
	}
}

func (p *Parser) parseStatement() (Node, error) {
	switch tok := p.current(); tok.Kind {
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenReturn:
		return p.parseReturn()
	case TokenOpenCurly:
		return p.parseBlock()
	case TokenIdentifier:
		return p.parseIdentifierStatement()
	case TokenFunction:
		return p.parseFunction()
	case TokenPutc:
		return p.parsePutc()
	case TokenLet:
		return p.parseLet()
	case TokenConst:
		return p.parseConst()
	case TokenImport:
		return p.parseImport()
	default:
		return nil, p.unexpected(tok, "a statement")
	}
}

func (p *Parser) parseCondition(keyword Token) (Node, error) {
	if tok := p.current(); tok.Kind != TokenOpenParen {
		return nil, errorf(ErrSyntax, tok.Location, "`%s` is not followed by a parenthesis", keyword.Literal)
	}
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != TokenCloseParen {
		return nil, errorf(ErrSyntax, tok.Location, "the parenthesis of `%s` is not closed, got %s", keyword.Literal, describe(tok))
	}
	p.advance()
	return cond, nil
}

func (p *Parser) parseIf() (Node, error) {
	tok := p.advance()
	cond, err := p.parseCondition(tok)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &If{
		Origin: Origin{tok},
		Cond:   cond,
		Body:   body,
	}, nil
}

func (p *Parser) parseWhile() (Node, error) {
	tok := p.advance()
	cond, err := p.parseCondition(tok)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &While{
		Origin: Origin{tok},
		Cond:   cond,
		Body:   body,
	}, nil
}

// parseTerminated parses `<keyword> expr ;`.
func (p *Parser) parseTerminated() (Token, Node, error) {
	tok := p.advance()
	expr, err := p.parseExpr()
	if err != nil {
		return tok, nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return tok, nil, err
	}
	return tok, expr, nil
}

func (p *Parser) parseReturn() (Node, error) {
	tok, expr, err := p.parseTerminated()
	if err != nil {
		return nil, err
	}
	return &Return{
		Origin: Origin{tok},
		Expr:   expr,
	}, nil
}

func (p *Parser) parsePutc() (Node, error) {
	tok, expr, err := p.parseTerminated()
	if err != nil {
		return nil, err
	}
	return &Putc{
		Origin: Origin{tok},
		Expr:   expr,
	}, nil
}

func (p *Parser) parseBlock() (Node, error) {
	tok := p.advance()
	stmts, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if closing := p.current(); closing.Kind != TokenCloseCurly {
		return nil, errorf(ErrSyntax, closing.Location, "the curly bracket opened at %v is not closed", tok.Location)
	}
	p.advance()
	return &Block{
		Origin:     Origin{tok},
		Statements: stmts,
	}, nil
}

func (p *Parser) parseIdentifierStatement() (Node, error) {
	switch next := p.peek(1); next.Kind {

	case TokenOpenParen:
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return call, nil

	case TokenOpenBracket:
		access, err := p.parseTableAccess()
		if err != nil {
			return nil, err
		}
		return p.parseAssignTail(access)

	case TokenAssign:
		ident := &Identifier{
			Origin: Origin{p.advance()},
		}
		return p.parseAssignTail(ident)

	default:
		return nil, p.unexpected(next, fmt.Sprintf("`=`, `(` or `[` after `%s`", p.current().Literal))
	}
}

func (p *Parser) parseAssignTail(target Node) (Node, error) {
	tok, err := p.expect(TokenAssign)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &Assign{
		Origin: Origin{tok},
		Target: target,
		Expr:   expr,
	}, nil
}

func (p *Parser) parseFunction() (Node, error) {
	tok := p.advance()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if next := p.current(); next.Kind != TokenOpenParen {
		return nil, errorf(ErrSyntax, next.Location, "the function name `%s` is not followed by a parenthesis", name.Literal)
	}
	p.advance()

	var params []Token
	if p.current().Kind == TokenCloseParen {
		p.advance()
	} else {
		for {
			param, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			sep := p.advance()
			if sep.Kind == TokenCloseParen {
				break
			}
			if sep.Kind != TokenComma {
				return nil, p.unexpected(sep, "`,` or `)` after parameter")
			}
		}
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{
		Origin: Origin{tok},
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) parseLet() (Node, error) {
	tok := p.advance()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}

	switch p.current().Kind {

	case TokenOpenBracket:
		p.advance()
		length := p.advance()
		if length.Kind != TokenInt && length.Kind != TokenIdentifier {
			return nil, p.unexpected(length, "a table length")
		}
		if _, err := p.expect(TokenCloseBracket); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &TableDecl{
			Origin: Origin{tok},
			Name:   name,
			Length: length,
		}, nil

	case TokenAssign:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &VarDeclAssign{
			Origin: Origin{tok},
			Name:   name,
			Expr:   expr,
		}, nil

	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &VarDecl{
		Origin: Origin{tok},
		Name:   name,
	}, nil
}

func (p *Parser) parseConst() (Node, error) {
	tok := p.advance()
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	// `const N 3;` is accepted as well
	if p.current().Kind == TokenAssign {
		p.advance()
	}
	value := p.advance()
	if value.Kind == TokenEOF {
		return nil, p.unexpected(value, "a constant value")
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ConstDecl{
		Origin: Origin{tok},
		Name:   name,
		Value:  value,
	}, nil
}

func (p *Parser) parseImport() (Node, error) {
	tok := p.advance()
	path, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	stmts, err := p.importer.importFile(path)
	if err != nil {
		return nil, err
	}
	return &Import{
		Origin:     Origin{tok},
		Path:       path,
		Statements: stmts,
	}, nil
}
