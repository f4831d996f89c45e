package exprquery

import (
	"fmt"

	"github.com/exprquery/exprquery/internal/parser"
)

// ParseError is the error surface for every parser/lexer/semantic failure
// (spec.md §6): a message plus the character position where the faulty
// token began.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Message)
}

// ArgumentError reports an invalid façade-boundary argument: an empty
// source string, an empty parameter name, a missing parameter list, or an
// Invoke call with the wrong number of arguments (spec.md §6, "The façade
// additionally reports null/empty-source arguments").
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

// wrapParseErr converts an internal/parser.Error (or internal/lex.Error,
// which parser.New already re-wraps as *parser.Error) into the public
// ParseError.
func wrapParseErr(err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*parser.Error); ok {
		return &ParseError{Pos: pe.Pos, Message: pe.Message}
	}
	return &ParseError{Pos: 0, Message: err.Error()}
}
