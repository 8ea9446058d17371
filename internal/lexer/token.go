package lexer

import "fmt"

// Position identifies a point in EARL source: the file it came from plus a
// 1-based line and column. Columns count Unicode code points, not bytes,
// which is reproducible across platforms even though it can misalign with
// display width for wide runes.
type Position struct {
	File   string
	Line   int
	Column int
}

// String renders "file:line:column", omitting the file when empty.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Token is a single lexeme produced by the Lexer, annotated with its kind
// and source location. Next links the following token for error-context
// printing without requiring callers to re-peek the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	Next    *Token
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Pos)
}
