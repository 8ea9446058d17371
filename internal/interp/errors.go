package interp

import (
	"fmt"

	"github.com/cwbudde/go-earl/internal/errors"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// ErrorKind is the closed set of typed-error categories the evaluator can
// raise. Syntax and Internal are never caught by a Try
// statement; every other kind may be.
type ErrorKind string

const (
	KindSyntax      ErrorKind = "Syntax"
	KindType        ErrorKind = "Type"
	KindRedeclared  ErrorKind = "Redeclared"
	KindUndeclared  ErrorKind = "Undeclared"
	KindTodo        ErrorKind = "Todo"
	KindFatal       ErrorKind = "Fatal"
	KindInternal    ErrorKind = "Internal"
)

// RuntimeError is the evaluator's single error category: a
// human message, the offending source Pos, and a Kind tag. It implements
// Value so eval_expr/eval_stmt can thread it through EvalResult exactly
// like any other value and let the top-level driver (or a Try statement)
// decide what to do with it.
type RuntimeError struct {
	Message string
	Kind    ErrorKind
	Pos     lexer.Position
	Trace   errors.StackTrace // call frames in flight when the error was raised
}

func (e *RuntimeError) Type() string   { return "<error>" }
func (e *RuntimeError) String() string { return e.Error() }
func (e *RuntimeError) Truthy() bool   { return true }
func (e *RuntimeError) Copy() Value    { return e }
func (e *RuntimeError) Equal(o Value) bool {
	other, ok := o.(*RuntimeError)
	return ok && other == e
}

// Error implements the standard error interface so RuntimeError can also
// be returned as a Go error from helpers that don't thread EvalResult.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Pos, e.Message)
}

// Catchable reports whether a Try statement may intercept this error;
// Internal and Syntax errors may not be caught.
func (e *RuntimeError) Catchable() bool {
	return e.Kind != KindInternal && e.Kind != KindSyntax
}

// NewError constructs a RuntimeError at pos with kind and a formatted
// message.
func NewError(pos lexer.Position, kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Kind: kind, Pos: pos}
}
