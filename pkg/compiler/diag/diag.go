// Package diag holds the error categories every compilation stage reports.
//
// Malformed input surfaces as a LexicalError or a SyntaxError. An InternalError
// means the compiler could not represent an otherwise valid program, such as
// when the register bank runs dry or the generated IR fails verification.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// LexicalError reports a character sequence the scanner cannot turn into a token.
type LexicalError struct {
	Line int
	Msg  string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s on line %d", e.Msg, e.Line)
}

// SyntaxError reports a token that does not fit the grammar at its position.
// Found is empty when the message already names what went wrong.
type SyntaxError struct {
	Line  int
	Found string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s on line %d", e.Msg, e.Line)
	}
	return fmt.Sprintf("%s on line %d: found %s", e.Msg, e.Line, e.Found)
}

// InternalError signals a defect or a fixed limit inside the compiler itself.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

// Lexical builds a LexicalError.
func Lexical(line int, format string, args ...interface{}) error {
	return &LexicalError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Syntax builds a SyntaxError naming the offending token.
func Syntax(line int, found string, format string, args ...interface{}) error {
	return &SyntaxError{Line: line, Found: found, Msg: fmt.Sprintf(format, args...)}
}

// Internal builds an InternalError.
func Internal(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}

func IsLexical(err error) bool {
	var target *LexicalError
	return errors.As(err, &target)
}

func IsSyntax(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}

// Line returns the source line carried by err, or 0 when it has none.
func Line(err error) int {
	var lex *LexicalError
	if errors.As(err, &lex) {
		return lex.Line
	}
	var syn *SyntaxError
	if errors.As(err, &syn) {
		return syn.Line
	}
	return 0
}
