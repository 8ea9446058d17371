// Package ast defines the Abstract Syntax Tree node types produced by the
// EARL parser and consumed by the evaluator. Lexing and parsing themselves
// live in their own packages; this package only fixes the shape of the
// program the evaluator walks.
package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-earl/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Statement is any node that performs an action but does not itself
// produce a value.
type Statement interface {
	Node
	statementNode()
}

// Expression is any node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
}

// ExprMarker is embedded by Expression implementations that live outside
// this package (e.g. interpreter-internal synthetic nodes), since the
// unexported expressionNode method can otherwise only be satisfied by
// types declared in this package.
type ExprMarker struct{}

func (ExprMarker) expressionNode() {}

// Attr is one bit of the closed attribute set attached to declarations:
// pub, world, ref, const, experimental.
type Attr uint8

const (
	AttrPub Attr = 1 << iota
	AttrWorld
	AttrRef
	AttrConst
	AttrExperimental
)

// Attrs is a bitset of Attr values.
type Attrs uint8

// Has reports whether a is set in the bitset.
func (a Attrs) Has(flag Attr) bool { return a&Attrs(flag) != 0 }

// With returns a copy of the bitset with flag set.
func (a Attrs) With(flag Attr) Attrs { return a | Attrs(flag) }

func (a Attrs) String() string {
	var parts []string
	if a.Has(AttrPub) {
		parts = append(parts, "pub")
	}
	if a.Has(AttrWorld) {
		parts = append(parts, "world")
	}
	if a.Has(AttrRef) {
		parts = append(parts, "ref")
	}
	if a.Has(AttrConst) {
		parts = append(parts, "const")
	}
	if a.Has(AttrExperimental) {
		parts = append(parts, "experimental")
	}
	if len(parts) == 0 {
		return ""
	}
	return "@" + strings.Join(parts, " @")
}

// Program is the root node: an ordered list of top-level statements
// produced by parsing a single source file.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// ParamDecl describes one formal parameter of a function, closure, or
// class constructor: a name, an optional declared type
// (checked via the binop compatibility table at call time), and ref/const
// flags that decide whether the actual argument is bound by shared handle
// or by copy.
type ParamDecl struct {
	Token lexer.Token
	Name  string
	Type  string // declared type keyword, or "" if untyped
	Ref   bool
	Const bool
}

func (p *ParamDecl) String() string {
	var sb strings.Builder
	if p.Ref {
		sb.WriteString("ref ")
	}
	if p.Const {
		sb.WriteString("const ")
	}
	sb.WriteString(p.Name)
	if p.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(p.Type)
	}
	return sb.String()
}
