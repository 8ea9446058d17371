package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-earl/internal/lexer"
)

func (*Identifier) expressionNode()       {}
func (*IntegerLiteral) expressionNode()   {}
func (*FloatLiteral) expressionNode()     {}
func (*StringLiteral) expressionNode()    {}
func (*CharLiteral) expressionNode()      {}
func (*BooleanLiteral) expressionNode()   {}
func (*NoneLiteral) expressionNode()      {}
func (*ListLiteral) expressionNode()      {}
func (*TupleLiteral) expressionNode()     {}
func (*DictLiteral) expressionNode()      {}
func (*FuncCallExpr) expressionNode()     {}
func (*GetExpr) expressionNode()          {}
func (*ModAccessExpr) expressionNode()    {}
func (*ArrayAccessExpr) expressionNode()  {}
func (*SliceExpr) expressionNode()        {}
func (*RangeExpr) expressionNode()        {}
func (*ClosureExpr) expressionNode()      {}
func (*FStringExpr) expressionNode()      {}
func (*CaseExpr) expressionNode()         {}
func (*PredicateExpr) expressionNode()    {}
func (*BinaryExpr) expressionNode()       {}
func (*UnaryExpr) expressionNode()        {}
func (*TypeKeywordExpr) expressionNode()  {}

// Identifier is a bare name reference: a variable, function, class, or
// magic identifier (__FUNC__, __FILE__, __OS__, __MODULE__).
type Identifier struct {
	Token lexer.Token
	Name  string
}

func (i *Identifier) TokenLiteral() string   { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position    { return i.Token.Pos }
func (i *Identifier) String() string         { return i.Name }

// IntegerLiteral is an Int term.
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (n *IntegerLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *IntegerLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *IntegerLiteral) String() string       { return n.Token.Literal }

// FloatLiteral is a Float term.
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *FloatLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *FloatLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *FloatLiteral) String() string       { return n.Token.Literal }

// StringLiteral is a Str term.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *StringLiteral) String() string       { return "\"" + n.Value + "\"" }

// CharLiteral is a Char term.
type CharLiteral struct {
	Token lexer.Token
	Value byte
}

func (n *CharLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *CharLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *CharLiteral) String() string       { return "'" + string(n.Value) + "'" }

// BooleanLiteral is a Bool term.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (n *BooleanLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *BooleanLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *BooleanLiteral) String() string       { return n.Token.Literal }

// NoneLiteral is the `none` Option term. `some(v)` has no literal node of
// its own: it parses as a FuncCallExpr over the `some` intrinsic.
type NoneLiteral struct {
	Token lexer.Token
}

func (n *NoneLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NoneLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *NoneLiteral) String() string       { return "none" }

// ListLiteral is `[a, b, c]`.
type ListLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (n *ListLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *ListLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *ListLiteral) String() string {
	var parts []string
	for _, e := range n.Elements {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleLiteral is `(a, b, c)`.
type TupleLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (n *TupleLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *TupleLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *TupleLiteral) String() string {
	var parts []string
	for _, e := range n.Elements {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// DictLiteral is `{k1: v1, k2: v2}`.
type DictLiteral struct {
	Token lexer.Token
	Keys  []Expression
	Vals  []Expression
}

func (n *DictLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *DictLiteral) Pos() lexer.Position  { return n.Token.Pos }
func (n *DictLiteral) String() string {
	var parts []string
	for i := range n.Keys {
		parts = append(parts, n.Keys[i].String()+": "+n.Vals[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FuncCallExpr is `callee(args...)`.
type FuncCallExpr struct {
	Token  lexer.Token
	Callee Expression
	Args   []Expression
}

func (n *FuncCallExpr) TokenLiteral() string { return n.Token.Literal }
func (n *FuncCallExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *FuncCallExpr) String() string {
	var parts []string
	for _, a := range n.Args {
		parts = append(parts, a.String())
	}
	return n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// GetExpr is member access `left.right`, where Right is either an
// Identifier (field/variable access) or a FuncCallExpr (method call).
type GetExpr struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (n *GetExpr) TokenLiteral() string { return n.Token.Literal }
func (n *GetExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *GetExpr) String() string       { return n.Left.String() + "." + n.Right.String() }

// ModAccessExpr is `modname::right`, identical in evaluation to GetExpr but
// anchored on a module identifier rather than an arbitrary expression.
type ModAccessExpr struct {
	Token lexer.Token
	Mod   string
	Right Expression
}

func (n *ModAccessExpr) TokenLiteral() string { return n.Token.Literal }
func (n *ModAccessExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *ModAccessExpr) String() string       { return n.Mod + "::" + n.Right.String() }

// ArrayAccessExpr is `left[index]`, where index may be a SliceExpr.
type ArrayAccessExpr struct {
	Token lexer.Token
	Left  Expression
	Index Expression
}

func (n *ArrayAccessExpr) TokenLiteral() string { return n.Token.Literal }
func (n *ArrayAccessExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *ArrayAccessExpr) String() string       { return n.Left.String() + "[" + n.Index.String() + "]" }

// SliceExpr is `start:end`, either endpoint optional (nil means open/Void).
type SliceExpr struct {
	Token lexer.Token
	Start Expression
	End   Expression
}

func (n *SliceExpr) TokenLiteral() string { return n.Token.Literal }
func (n *SliceExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *SliceExpr) String() string {
	s, e := "", ""
	if n.Start != nil {
		s = n.Start.String()
	}
	if n.End != nil {
		e = n.End.String()
	}
	return s + ":" + e
}

// RangeExpr is `start..end` or `start..=end` (inclusive).
type RangeExpr struct {
	Token     lexer.Token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (n *RangeExpr) TokenLiteral() string { return n.Token.Literal }
func (n *RangeExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *RangeExpr) String() string {
	op := ".."
	if n.Inclusive {
		op = "..="
	}
	return n.Start.String() + op + n.End.String()
}

// ClosureExpr is a lambda literal: `|params| { body }`, optionally carrying
// attributes (e.g. `|ref x| ...` binds x by shared handle).
type ClosureExpr struct {
	Token  lexer.Token
	Params []*ParamDecl
	Attrs  Attrs
	Body   *BlockStmt
}

func (n *ClosureExpr) TokenLiteral() string { return n.Token.Literal }
func (n *ClosureExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *ClosureExpr) String() string {
	var parts []string
	for _, p := range n.Params {
		parts = append(parts, p.String())
	}
	return "|" + strings.Join(parts, ", ") + "| " + n.Body.String()
}

// FStringExpr is an interpolated string literal. Raw is the literal text
// exactly as lexed (with `{expr}` segments intact); the evaluator parses
// and evaluates each segment at runtime.
type FStringExpr struct {
	Token lexer.Token
	Raw   string
}

func (n *FStringExpr) TokenLiteral() string { return n.Token.Literal }
func (n *FStringExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *FStringExpr) String() string       { return "f\"" + n.Raw + "\"" }

// CaseArm is one `when <pattern> -> <result>` arm of a CaseExpr. Pattern is
// nil for the trailing default arm.
type CaseArm struct {
	Pattern Expression
	Result  Expression
}

// CaseExpr is `case expr { when p1 -> r1; when p2 -> r2; }` (also produced
// by `match` statements, which desugar to a CaseExpr evaluated for effect).
type CaseExpr struct {
	Token lexer.Token
	Value Expression
	Arms  []*CaseArm
}

func (n *CaseExpr) TokenLiteral() string { return n.Token.Literal }
func (n *CaseExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *CaseExpr) String() string {
	var out bytes.Buffer
	out.WriteString("case ")
	out.WriteString(n.Value.String())
	out.WriteString(" { ")
	for _, a := range n.Arms {
		if a.Pattern != nil {
			out.WriteString("when " + a.Pattern.String())
		} else {
			out.WriteString("else")
		}
		out.WriteString(" -> " + a.Result.String() + "; ")
	}
	out.WriteString("}")
	return out.String()
}

// PredicateExpr is a captured partial comparison, e.g. `< 5`, used as a
// case/match pattern.
type PredicateExpr struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (n *PredicateExpr) TokenLiteral() string { return n.Token.Literal }
func (n *PredicateExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *PredicateExpr) String() string       { return n.Operator + " " + n.Right.String() }

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (n *BinaryExpr) TokenLiteral() string { return n.Token.Literal }
func (n *BinaryExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + n.Operator + " " + n.Right.String() + ")"
}

// UnaryExpr is `op operand` (`-`, `!`, `~`).
type UnaryExpr struct {
	Token    lexer.Token
	Operator string
	Operand  Expression
}

func (n *UnaryExpr) TokenLiteral() string { return n.Token.Literal }
func (n *UnaryExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *UnaryExpr) String() string       { return "(" + n.Operator + n.Operand.String() + ")" }

// TypeKeywordExpr is a bare type keyword used as a first-class value, e.g.
// `typeof(x)` comparisons or `Dict(int)` construction.
type TypeKeywordExpr struct {
	Token lexer.Token
	Name  string
}

func (n *TypeKeywordExpr) TokenLiteral() string { return n.Token.Literal }
func (n *TypeKeywordExpr) Pos() lexer.Position  { return n.Token.Pos }
func (n *TypeKeywordExpr) String() string       { return n.Name }
