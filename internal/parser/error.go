package parser

import (
	"fmt"

	"github.com/cwbudde/go-earl/internal/lexer"
)

// ParserError is a single syntax error discovered while parsing. The
// evaluator never sees these: a Syntax-kind error aborts before evaluation
// begins and is never catchable by a try statement.
type ParserError struct {
	Message string
	Pos     lexer.Position
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
