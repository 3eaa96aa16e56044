package tinylang

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type Lexer struct {
	source *bufio.Reader
	err    error

	currPos Location
	prevPos Location
}

func NewLexer(file string, source io.Reader) *Lexer {
	return &Lexer{
		source: bufio.NewReader(source),
		currPos: Location{
			Line:   1,
			Column: 1,
			File:   file,
		},
	}
}

// Lex materializes the whole token sequence of a source.
func Lex(file string, source io.Reader) ([]Token, error) {
	var ret []Token
	for token, err := range NewLexer(file, source).Tokens {
		if err != nil {
			return nil, err
		}
		ret = append(ret, token)
	}
	return ret, nil
}

// Tokens iterates over the remaining tokens. Iteration stops after the first error.
func (l *Lexer) Tokens(yield func(Token, error) bool) {
	for {
		token, err := l.Next()
		if err == io.EOF {
			return
		}
		if !yield(token, err) {
			return
		}
		if err != nil {
			return
		}
	}
}

// Next returns the next token, or io.EOF at the end of input.
// Once an error is returned, every following call returns it again.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	token, err := l.parseNext()
	if err != nil {
		l.err = err
	}
	return token, err
}

func (l *Lexer) readRune() (rune, error) {
	r, _, err := l.source.ReadRune()
	if err != nil {
		return 0, err
	}

	l.prevPos = l.currPos
	if r == '\n' {
		l.currPos.Line++
		l.currPos.Column = 1
	} else {
		l.currPos.Column++
	}

	return r, nil
}

func (l *Lexer) unreadRune() {
	l.source.UnreadRune()
	l.currPos = l.prevPos
}

func (l *Lexer) skipWhitespace() error {
	for {
		r, err := l.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

func (l *Lexer) parseNext() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return Token{}, err
	}
	startPos := l.currPos

	r, err := l.readRune()
	if err != nil {
		return Token{}, err
	}

	switch {
	case r == '"':
		return l.parseString(startPos)
	case r == '\'':
		return l.parseChar(startPos)
	case unicode.IsLetter(r) || r == '_':
		l.unreadRune()
		return l.parseWord(startPos, TokenIdentifier)
	case unicode.IsDigit(r):
		l.unreadRune()
		return l.parseWord(startPos, TokenInt)
	case r == '=':
		if l.follows('=') {
			return Token{Kind: TokenEq, Literal: "==", Location: startPos}, nil
		}
		return Token{Kind: TokenAssign, Literal: "=", Location: startPos}, nil
	case r == '!':
		return l.parsePair(startPos, r, '=', TokenNeq)
	case r == '<':
		return l.parsePair(startPos, r, '<', TokenShl)
	case r == '>':
		return l.parsePair(startPos, r, '>', TokenShr)
	}

	if kind, ok := punctuations[r]; ok {
		return Token{Kind: kind, Literal: string(r), Location: startPos}, nil
	}

	return Token{}, errorf(ErrLex, startPos, "unrecognized character `%c`", r)
}

// follows consumes the next rune if it is want.
func (l *Lexer) follows(want rune) bool {
	r, err := l.readRune()
	if err != nil {
		return false
	}
	if r != want {
		l.unreadRune()
		return false
	}
	return true
}

func (l *Lexer) parsePair(startPos Location, first, second rune, kind TokenKind) (Token, error) {
	r, err := l.readRune()
	if err == io.EOF {
		return Token{}, errorf(ErrLex, startPos, "`%c` is not a valid symbol", first)
	}
	if err != nil {
		return Token{}, err
	}
	if r != second {
		return Token{}, errorf(ErrLex, startPos, "`%c%c` is not a valid symbol", first, r)
	}
	return Token{Kind: kind, Literal: string([]rune{first, second}), Location: startPos}, nil
}

// parseWord scans identifiers and numbers. Numbers keep any trailing letters,
// malformed literals are reported by later stages.
func (l *Lexer) parseWord(startPos Location, kind TokenKind) (Token, error) {
	var sb strings.Builder
	for {
		r, err := l.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}
	literal := sb.String()
	if kind == TokenIdentifier {
		if keyword, ok := keywords[literal]; ok {
			kind = keyword
		}
	}
	return Token{Kind: kind, Literal: literal, Location: startPos}, nil
}

func (l *Lexer) readEscaped() (rune, error) {
	r, err := l.readRune()
	if err != nil {
		return 0, err
	}
	if r != '\\' {
		return r, nil
	}
	next, err := l.readRune()
	if err != nil {
		return 0, err
	}
	if next == 'n' {
		return '\n', nil
	}
	return next, nil
}

func (l *Lexer) parseString(startPos Location) (Token, error) {
	var sb strings.Builder
	for {
		r, err := l.readRune()
		if err == io.EOF {
			return Token{}, errorf(ErrLex, startPos, "unterminated string literal")
		}
		if err != nil {
			return Token{}, err
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			l.unreadRune()
			r, err = l.readEscaped()
			if err == io.EOF {
				return Token{}, errorf(ErrLex, startPos, "unterminated string literal")
			}
			if err != nil {
				return Token{}, err
			}
		}
		sb.WriteRune(r)
	}
	return Token{Kind: TokenString, Literal: sb.String(), Location: startPos}, nil
}

func (l *Lexer) parseChar(startPos Location) (Token, error) {
	r, err := l.readEscaped()
	if err == io.EOF {
		return Token{}, errorf(ErrLex, startPos, "unterminated character literal")
	}
	if err != nil {
		return Token{}, err
	}
	closing, err := l.readRune()
	if err == io.EOF || (err == nil && closing != '\'') {
		return Token{}, errorf(ErrLex, startPos, "unterminated character literal")
	}
	if err != nil {
		return Token{}, err
	}
	return Token{
		Kind:     TokenInt,
		Literal:  strconv.Itoa(int(r)),
		Location: startPos,
	}, nil
}
