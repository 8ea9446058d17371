package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-earl/internal/lexer"
)

func (*LetStmt) statementNode()           {}
func (*BlockStmt) statementNode()         {}
func (*MutStmt) statementNode()           {}
func (*ExprStmt) statementNode()          {}
func (*IfStmt) statementNode()            {}
func (*ReturnStmt) statementNode()        {}
func (*BreakStmt) statementNode()         {}
func (*ContinueStmt) statementNode()      {}
func (*WhileStmt) statementNode()         {}
func (*LoopStmt) statementNode()          {}
func (*ForStmt) statementNode()           {}
func (*ForeachStmt) statementNode()       {}
func (*ImportStmt) statementNode()        {}
func (*ModStmt) statementNode()           {}
func (*FuncDeclStmt) statementNode()      {}
func (*ClassDeclStmt) statementNode()     {}
func (*EnumDeclStmt) statementNode()      {}
func (*MatchStmt) statementNode()         {}
func (*UseStmt) statementNode()           {}
func (*ExecStmt) statementNode()          {}
func (*WithStmt) statementNode()          {}
func (*TryStmt) statementNode()           {}
func (*InfoStmt) statementNode()          {}
func (*PipeStmt) statementNode()          {}
func (*BashLiteralStmt) statementNode()   {}

// LetStmt binds one or more identifiers to the value(s) produced by Value.
// When Names has more than one entry, Value must evaluate to a Tuple/List
// of matching length, destructured element by element.
type LetStmt struct {
	Token lexer.Token
	Names []string
	Attrs Attrs
	Value Expression
}

func (s *LetStmt) TokenLiteral() string { return s.Token.Literal }
func (s *LetStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *LetStmt) String() string {
	return s.Attrs.String() + "let " + strings.Join(s.Names, ", ") + " = " + s.Value.String() + ";"
}

// BlockStmt is `{ stmts... }`; the evaluator pushes a scope on entry and
// pops it on every exit path (fall-through, return, break, continue, error).
type BlockStmt struct {
	Token      lexer.Token
	Statements []Statement
}

func (s *BlockStmt) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *BlockStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, st := range s.Statements {
		out.WriteString(st.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// MutStmt is an assignment `left op= right` (plain `=` or a compound
// operator). Left must evaluate to an owning holder.
type MutStmt struct {
	Token    lexer.Token
	Left     Expression
	Operator string // "=", "+=", "-=", ...
	Right    Expression
}

func (s *MutStmt) TokenLiteral() string { return s.Token.Literal }
func (s *MutStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *MutStmt) String() string {
	return s.Left.String() + " " + s.Operator + " " + s.Right.String() + ";"
}

// ExprStmt evaluates Expr for side effect and discards the value.
type ExprStmt struct {
	Token lexer.Token
	Expr  Expression
}

func (s *ExprStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ExprStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ExprStmt) String() string       { return s.Expr.String() + ";" }

// IfStmt is `if cond { then } else { else }` (Else may be another IfStmt to
// form an else-if chain, or nil).
type IfStmt struct {
	Token     lexer.Token
	Condition Expression
	Then      *BlockStmt
	Else      Statement
}

func (s *IfStmt) TokenLiteral() string { return s.Token.Literal }
func (s *IfStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *IfStmt) String() string {
	out := "if " + s.Condition.String() + " " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// ReturnStmt produces a Return(value) control-flow sentinel. Value is nil
// for a bare `return;`.
type ReturnStmt struct {
	Token lexer.Token
	Value Expression
}

func (s *ReturnStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// BreakStmt produces a Break control-flow sentinel.
type BreakStmt struct {
	Token lexer.Token
}

func (s *BreakStmt) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *BreakStmt) String() string       { return "break;" }

// ContinueStmt produces a Continue control-flow sentinel.
type ContinueStmt struct {
	Token lexer.Token
}

func (s *ContinueStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ContinueStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ContinueStmt) String() string       { return "continue;" }

// WhileStmt loops Body while Condition is truthy.
type WhileStmt struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStmt
}

func (s *WhileStmt) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *WhileStmt) String() string       { return "while " + s.Condition.String() + " " + s.Body.String() }

// LoopStmt loops Body forever until Break.
type LoopStmt struct {
	Token lexer.Token
	Body  *BlockStmt
}

func (s *LoopStmt) TokenLiteral() string { return s.Token.Literal }
func (s *LoopStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *LoopStmt) String() string       { return "loop " + s.Body.String() }

// ForStmt is the integer counting loop `for v in start..end { body }`.
type ForStmt struct {
	Token lexer.Token
	Var   string
	Start Expression
	End   Expression
	Body  *BlockStmt
}

func (s *ForStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ForStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ForStmt) String() string {
	return "for " + s.Var + " in " + s.Start.String() + ".." + s.End.String() + " " + s.Body.String()
}

// ForeachStmt iterates Iterable, destructuring each element into Vars.
type ForeachStmt struct {
	Token    lexer.Token
	Vars     []string
	Iterable Expression
	Body     *BlockStmt
}

func (s *ForeachStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ForeachStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ForeachStmt) String() string {
	return "foreach " + strings.Join(s.Vars, ", ") + " in " + s.Iterable.String() + " " + s.Body.String()
}

// ImportStmt loads Path as a module, at the given Depth ("full" or
// "almost"), optionally bound to Alias.
type ImportStmt struct {
	Token lexer.Token
	Path  string
	Depth string // "full" or "almost"
	Alias string // "" if not aliased
}

func (s *ImportStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ImportStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ImportStmt) String() string {
	out := "import "
	if s.Depth == "almost" {
		out += "almost "
	}
	out += "\"" + s.Path + "\""
	if s.Alias != "" {
		out += " as " + s.Alias
	}
	return out + ";"
}

// ModStmt sets the enclosing World's module id.
type ModStmt struct {
	Token lexer.Token
	Name  string
}

func (s *ModStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ModStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ModStmt) String() string       { return "mod " + s.Name + ";" }

// FuncDeclStmt declares a named function in the current context's
// innermost function scope.
type FuncDeclStmt struct {
	Token  lexer.Token
	Name   string
	Params []*ParamDecl
	Attrs  Attrs
	Body   *BlockStmt
	Info   string
}

func (s *FuncDeclStmt) TokenLiteral() string { return s.Token.Literal }
func (s *FuncDeclStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *FuncDeclStmt) String() string {
	var parts []string
	for _, p := range s.Params {
		parts = append(parts, p.String())
	}
	return s.Attrs.String() + "fn " + s.Name + "(" + strings.Join(parts, ", ") + ") " + s.Body.String()
}

// ClassDeclStmt declares a class: a constructor parameter list, member
// `let` initializers, and method `fn` declarations.
type ClassDeclStmt struct {
	Token       lexer.Token
	Name        string
	CtorParams  []*ParamDecl
	Attrs       Attrs
	Members     []*LetStmt
	Methods     []*FuncDeclStmt
}

func (s *ClassDeclStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ClassDeclStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ClassDeclStmt) String() string {
	var parts []string
	for _, p := range s.CtorParams {
		parts = append(parts, p.String())
	}
	return s.Attrs.String() + "class " + s.Name + "(" + strings.Join(parts, ", ") + ") { ... }"
}

// EnumEntry is one `Name` or `Name = value` member of an enum.
type EnumEntry struct {
	Name  string
	Value Expression // nil for implicit auto-increment
}

// EnumDeclStmt declares an enum: an id plus an ordered entries map.
type EnumDeclStmt struct {
	Token   lexer.Token
	Name    string
	Attrs   Attrs
	Entries []*EnumEntry
}

func (s *EnumDeclStmt) TokenLiteral() string { return s.Token.Literal }
func (s *EnumDeclStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *EnumDeclStmt) String() string       { return s.Attrs.String() + "enum " + s.Name + " { ... }" }

// MatchStmt is `match expr { when p1 -> body1; when p2 -> body2; }`,
// evaluated for effect as a CaseExpr.
type MatchStmt struct {
	Token lexer.Token
	Value Expression
	Arms  []*CaseArm
}

func (s *MatchStmt) TokenLiteral() string { return s.Token.Literal }
func (s *MatchStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *MatchStmt) String() string {
	return "match " + s.Value.String() + " { ... }"
}

// UseStmt registers a named external shell-script alias (out of core
// alias table; the script body runs through the system shell).
type UseStmt struct {
	Token lexer.Token
	Alias string
	Path  string
}

func (s *UseStmt) TokenLiteral() string { return s.Token.Literal }
func (s *UseStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *UseStmt) String() string       { return "use " + s.Alias + " = \"" + s.Path + "\";" }

// ExecStmt runs a registered Use alias (or an inline command) through the
// system shell.
type ExecStmt struct {
	Token   lexer.Token
	Alias   string
	Args    []Expression
}

func (s *ExecStmt) TokenLiteral() string { return s.Token.Literal }
func (s *ExecStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ExecStmt) String() string       { return "exec " + s.Alias + "(...);" }

// WithStmt binds each Ids[i] to Exprs[i] as a fresh holder scoped over
// Body, guaranteeing the scope pops on every exit path including errors
// and Return/Break/Continue propagation.
type WithStmt struct {
	Token lexer.Token
	Ids   []string
	Exprs []Expression
	Body  *BlockStmt
}

func (s *WithStmt) TokenLiteral() string { return s.Token.Literal }
func (s *WithStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *WithStmt) String() string {
	return "with " + strings.Join(s.Ids, ", ") + " " + s.Body.String()
}

// TryStmt evaluates Body; on error, binds the error message to ErrName and
// evaluates Catch.
type TryStmt struct {
	Token   lexer.Token
	Body    *BlockStmt
	ErrName string
	Catch   *BlockStmt
}

func (s *TryStmt) TokenLiteral() string { return s.Token.Literal }
func (s *TryStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *TryStmt) String() string {
	return "try " + s.Body.String() + " catch " + s.ErrName + " " + s.Catch.String()
}

// InfoStmt attaches a doc/info string to the immediately following
// declaration (consumed by the autodoc walker).
type InfoStmt struct {
	Token lexer.Token
	Text  string
}

func (s *InfoStmt) TokenLiteral() string { return s.Token.Literal }
func (s *InfoStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *InfoStmt) String() string       { return "info \"" + s.Text + "\";" }

// PipeStmt threads Left's evaluated Value as the first argument of Right's
// call.
type PipeStmt struct {
	Token lexer.Token
	Left  Expression
	Right Expression
}

func (s *PipeStmt) TokenLiteral() string { return s.Token.Literal }
func (s *PipeStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *PipeStmt) String() string       { return s.Left.String() + " |> " + s.Right.String() + ";" }

// BashLiteralStmt runs an inline shell command (`` `cmd` `` or a
// multiline-bash block) through the system shell, downgrading a missing
// command to a warning unless error-on-bash-fail is set.
type BashLiteralStmt struct {
	Token     lexer.Token
	Script    string
	Multiline bool
}

func (s *BashLiteralStmt) TokenLiteral() string { return s.Token.Literal }
func (s *BashLiteralStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *BashLiteralStmt) String() string       { return "`" + s.Script + "`;" }
