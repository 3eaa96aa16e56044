package tinylang

import "strconv"

// Operators of the lowest precedence tier. All of them share one tier and
// associate to the right: `a - b - c` is `a - (b - c)`.
var exprOperators = map[TokenKind]bool{
	TokenAdd:    true,
	TokenSub:    true,
	TokenShl:    true,
	TokenShr:    true,
	TokenEq:     true,
	TokenNeq:    true,
	TokenBitAnd: true,
	TokenBitOr:  true,
}

var termOperators = map[TokenKind]bool{
	TokenMul: true,
	TokenDiv: true,
	TokenMod: true,
}

func (p *Parser) parseExpr() (Node, error) {
	return p.parseBinary(exprOperators, p.parseTerm)
}

func (p *Parser) parseTerm() (Node, error) {
	return p.parseBinary(termOperators, p.parsePrimary)
}

func (p *Parser) parseBinary(operators map[TokenKind]bool, operand func() (Node, error)) (Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	if !operators[p.current().Kind] {
		return left, nil
	}
	op := p.advance()
	right, err := p.parseBinary(operators, operand)
	if err != nil {
		return nil, err
	}
	return &BinaryOp{
		Origin: Origin{op},
		Left:   left,
		Right:  right,
	}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	switch tok := p.current(); tok.Kind {

	case TokenOpenParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.current(); closing.Kind != TokenCloseParen {
			return nil, errorf(ErrSyntax, closing.Location, "the parenthesis opened at %v is not closed, got %s", tok.Location, describe(closing))
		}
		p.advance()
		return expr, nil

	case TokenString:
		p.advance()
		return stringToArray(tok), nil

	case TokenInt:
		p.advance()
		return &IntLiteral{
			Origin: Origin{tok},
		}, nil

	case TokenIdentifier:
		switch p.peek(1).Kind {
		case TokenOpenParen:
			return p.parseCall()
		case TokenOpenBracket:
			return p.parseTableAccess()
		}
		p.advance()
		return &Identifier{
			Origin: Origin{tok},
		}, nil

	case TokenOpenBracket:
		return p.parseArray()

	default:
		return nil, p.unexpected(tok, "an expression")
	}
}

// stringToArray desugars a string literal into a zero-terminated array of character codes.
func stringToArray(tok Token) *ArrayLiteral {
	array := &ArrayLiteral{
		Origin: Origin{tok},
	}
	for _, r := range tok.Literal {
		array.Elements = append(array.Elements, Token{
			Kind:     TokenInt,
			Literal:  strconv.Itoa(int(r)),
			Location: tok.Location,
		})
	}
	array.Elements = append(array.Elements, Token{
		Kind:     TokenInt,
		Literal:  "0",
		Location: tok.Location,
	})
	return array
}

func (p *Parser) parseArray() (Node, error) {
	array := &ArrayLiteral{
		Origin: Origin{p.advance()},
	}
	if p.current().Kind == TokenCloseBracket {
		p.advance()
		return array, nil
	}
	for {
		elem := p.advance()
		if elem.Kind != TokenInt && elem.Kind != TokenIdentifier {
			return nil, p.unexpected(elem, "an integer or a constant name in array")
		}
		array.Elements = append(array.Elements, elem)
		sep := p.advance()
		if sep.Kind == TokenCloseBracket {
			return array, nil
		}
		if sep.Kind != TokenComma {
			return nil, p.unexpected(sep, "`,` after value in array")
		}
	}
}

func (p *Parser) parseCall() (Node, error) {
	call := &FunctionCall{
		Origin: Origin{p.advance()},
	}
	if _, err := p.expect(TokenOpenParen); err != nil {
		return nil, err
	}
	if p.current().Kind == TokenCloseParen {
		p.advance()
		return call, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		sep := p.advance()
		if sep.Kind == TokenCloseParen {
			return call, nil
		}
		if sep.Kind != TokenComma {
			return nil, p.unexpected(sep, "`,` after value in function call")
		}
	}
}

func (p *Parser) parseTableAccess() (Node, error) {
	access := &TableAccess{
		Origin: Origin{p.advance()},
	}
	if _, err := p.expect(TokenOpenBracket); err != nil {
		return nil, err
	}
	index, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenCloseBracket); err != nil {
		return nil, err
	}
	access.Index = index
	return access, nil
}
