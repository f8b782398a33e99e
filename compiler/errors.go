package compiler

import (
	"errors"
	"fmt"

	"modernc.org/token"

	"github.com/rubiojr/c2js/parser"
	"github.com/rubiojr/c2js/preprocess"
)

// Kind classifies translation failures.
type Kind string

const (
	UnknownHeaderError     Kind = "UnknownHeaderError"
	IllegalCallError       Kind = "IllegalCallError"
	MalformedStructError   Kind = "MalformedStructError"
	FormatMismatchError    Kind = "FormatMismatchError"
	UnsupportedFormatError Kind = "UnsupportedFormatError"
	MissingEntryPointError Kind = "MissingEntryPointError"
	SyntaxError            Kind = "SyntaxError"
	LimitError             Kind = "LimitError"
)

// Error is the single failure a translation reports.
type Error struct {
	Kind Kind
	Msg  string
	Pos  token.Position // zero when no position applies
	Err  error          // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is, or wraps, a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func errorf(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: token.Position{Line: line}}
}

// classify converts failures from the preprocessor and parser into *Error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	var pe *parser.Error
	if errors.As(err, &pe) {
		kind := SyntaxError
		switch {
		case errors.Is(err, parser.ErrTooDeep):
			kind = LimitError
		case pe.Struct:
			kind = MalformedStructError
		}
		return &Error{Kind: kind, Msg: pe.Msg, Pos: pe.Pos, Err: err}
	}
	var ppe *preprocess.Error
	if errors.As(err, &ppe) {
		return &Error{Kind: SyntaxError, Msg: ppe.Msg, Pos: token.Position{Line: ppe.Line}, Err: err}
	}
	return &Error{Kind: SyntaxError, Msg: err.Error(), Err: err}
}
