package parser

import (
	"errors"
	"fmt"

	"modernc.org/token"
)

// ErrTooDeep is wrapped by the error returned when statements or expressions
// nest deeper than the parser's limit.
var ErrTooDeep = errors.New("nesting too deep")

// Error is a lexing or parsing failure at a source position.
type Error struct {
	Pos    token.Position
	Msg    string
	Struct bool // the failure is inside a struct body
	Err    error
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }
