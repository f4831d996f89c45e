package parser

import "fmt"

// Error is the single error kind every parser failure surfaces as (spec.md
// §4.12): a message plus the character position where the faulty token
// began.
type Error struct {
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Message)
}

func errAt(pos int, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
