package tinylang

import (
	"errors"
	"fmt"
)

var (
	ErrLex    = errors.New("lex error")
	ErrSyntax = errors.New("syntax error")
	ErrName   = errors.New("name error")
	ErrType   = errors.New("type error")
	ErrImport = errors.New("import error")
	ErrLimit  = errors.New("limit error")
)

// Error is a diagnostic attached to a source location.
// Kind is one of the Err* sentinels and is matched by errors.Is.
type Error struct {
	Kind     error
	Location Location
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: ERROR: %s", e.Location, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(kind error, loc Location, format string, args ...any) error {
	return &Error{
		Kind:     kind,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}
