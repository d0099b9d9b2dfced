package syntax

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel wrapped by every parse failure.
var ErrParse = errors.New("parse error")

// Error is a lexing or parsing failure at a source position.
type Error struct {
	File    string
	Pos     int
	Line    int
	Col     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Message)
}

// Unwrap lets errors.Is match ErrParse.
func (e *Error) Unwrap() error {
	return ErrParse
}

func newError(file *File, pos int, format string, args ...any) *Error {
	line, col := file.LineCol(pos)
	return &Error{
		File:    file.Name,
		Pos:     pos,
		Line:    line,
		Col:     col,
		Message: fmt.Sprintf(format, args...),
	}
}
