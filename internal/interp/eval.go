// Package interp implements the EARL tree-walking evaluator: the Value
// hierarchy, lexical Scope/Context chain, and the eval_stmt/eval_expr
// recursion that walks an *ast.Program.
package interp

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/errors"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// ClassBit is the classification tag set carried by an EvalResult. It
// only matters where mutation/binding semantics differ between
// a literal, an identifier, and a callable receiver.
type ClassBit uint8

const (
	ClassLiteral ClassBit = 1 << iota
	ClassIdent
	ClassIntrinsicFunction
	ClassFunctionIdent
	ClassInstant
	ClassIntrinsicMemberFunction
	ClassNone
)

// EvalResult carries an expression's Value plus its classification bits
// and, for identifier/member receivers, the Binding that owns the value
// (needed by MutStmt to route through Mutate/SpecMutate).
type EvalResult struct {
	Value   Value
	Class   ClassBit
	Binding *Binding // non-nil when Value came from a named variable/field
	Key     Value    // set when Value came from a Dict slot, for assignment dispatch
}

// Interpreter is the driver that owns the global RuntimeConfig and any
// process-wide registries (watch flags, include dirs, module cache).
type Interpreter struct {
	Config      *RuntimeConfig
	ModuleCache map[string]*Module // canonical path -> loaded module, for import idempotence
	Stdout      io.Writer

	stack errors.StackTrace // in-flight call frames, attached to propagated errors
}

func (in *Interpreter) pushFrame(name string, pos lexer.Position) {
	p := pos
	in.stack = append(in.stack, errors.NewStackFrame(name, pos.File, &p))
}

func (in *Interpreter) popFrame() {
	in.stack = in.stack[:len(in.stack)-1]
}

// withTrace attaches a snapshot of the current call stack to re, once: the
// innermost failing frame wins, outer frames pass the error through.
func (in *Interpreter) withTrace(re *RuntimeError) *RuntimeError {
	if re.Trace == nil {
		re.Trace = append(errors.StackTrace(nil), in.stack...)
	}
	return re
}

// NewInterpreter constructs an Interpreter with the default RuntimeConfig,
// writing to os.Stdout. Stdout is an io.Writer (not *os.File) so tests
// can substitute a bytes.Buffer.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Config:      NewRuntimeConfig(),
		ModuleCache: make(map[string]*Module),
		Stdout:      os.Stdout,
	}
}

// NewInterpreterWithOutput constructs an Interpreter that writes to w
// instead of os.Stdout, for tests and embedding.
func NewInterpreterWithOutput(w io.Writer) *Interpreter {
	in := NewInterpreter()
	in.Stdout = w
	return in
}

// RunProgram evaluates prog's statements in order against a fresh World
// context rooted at file, returning the last ExprStmt's value if the
// program ends in one (used by the REPL seam) or Unit. Modules named by
// the --import flag (or ~/.earl) are loaded into the World first.
func (in *Interpreter) RunProgram(prog *ast.Program, file string) (Value, error) {
	world := NewWorldContext(file)
	for _, path := range in.Config.Import {
		if res := in.evalImport(&ast.ImportStmt{Path: path, Depth: "full"}, world); isError(res) {
			return nil, res.(*RuntimeError)
		}
	}
	return in.RunProgramIn(prog, world)
}

// RunProgramIn evaluates prog against an existing World context, the shape
// the REPL driver uses to append new top-level statements turn by turn
// without mutating the World's program vector.
func (in *Interpreter) RunProgramIn(prog *ast.Program, world *Context) (Value, error) {
	var last Value = theUnit
	for _, stmt := range prog.Statements {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			res := in.evalExpr(es.Expr, world)
			if re, ok := res.Value.(*RuntimeError); ok {
				return nil, re
			}
			last = res.Value
			continue
		}
		res := in.evalStmt(stmt, world)
		if re, ok := res.(*RuntimeError); ok {
			return nil, re
		}
		if ret, ok := res.(*Return); ok {
			return ret.Value, nil
		}
		last = theUnit
	}
	return last, nil
}

// control-flow sentinels are propagated as ordinary Values, never as Go
// panics.
func isControl(v Value) bool {
	switch v.(type) {
	case *Return, *Break, *Continue:
		return true
	}
	return false
}

// evalStmt dispatches on stmt's concrete type. It
// returns either theUnit, a control-flow sentinel (Return/Break/Continue),
// or a *RuntimeError.
func (in *Interpreter) evalStmt(stmt ast.Statement, ctx *Context) Value {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return in.evalLet(s, ctx)
	case *ast.BlockStmt:
		return in.evalBlock(s, ctx)
	case *ast.MutStmt:
		return in.evalMut(s, ctx)
	case *ast.ExprStmt:
		res := in.evalExpr(s.Expr, ctx)
		if isError(res.Value) {
			return res.Value
		}
		return theUnit
	case *ast.IfStmt:
		return in.evalIf(s, ctx)
	case *ast.ReturnStmt:
		if s.Value == nil {
			return &Return{Value: theUnit}
		}
		res := in.evalExpr(s.Value, ctx)
		if isError(res.Value) {
			return res.Value
		}
		return &Return{Value: res.Value}
	case *ast.BreakStmt:
		return &Break{}
	case *ast.ContinueStmt:
		return &Continue{}
	case *ast.WhileStmt:
		return in.evalWhile(s, ctx)
	case *ast.LoopStmt:
		return in.evalLoop(s, ctx)
	case *ast.ForStmt:
		return in.evalFor(s, ctx)
	case *ast.ForeachStmt:
		return in.evalForeach(s, ctx)
	case *ast.ImportStmt:
		return in.evalImport(s, ctx)
	case *ast.ModStmt:
		ctx.World().ModuleID = s.Name
		return theUnit
	case *ast.FuncDeclStmt:
		ctx.Functions[s.Name] = &Function{
			Name: s.Name, Params: s.Params, Attrs: s.Attrs, Body: s.Body,
			DefiningCtx: ctx, Info: s.Info,
		}
		return theUnit
	case *ast.ClassDeclStmt:
		ctx.Classes[s.Name] = &Class{
			Name: s.Name, CtorParams: s.CtorParams, Attrs: s.Attrs,
			Members: s.Members, Methods: s.Methods, DefiningCtx: ctx,
		}
		return theUnit
	case *ast.EnumDeclStmt:
		return in.evalEnumDecl(s, ctx)
	case *ast.MatchStmt:
		return in.evalMatch(s, ctx)
	case *ast.UseStmt:
		in.Config.Aliases[s.Alias] = s.Path
		return theUnit
	case *ast.ExecStmt:
		return in.evalExec(s, ctx)
	case *ast.WithStmt:
		return in.evalWith(s, ctx)
	case *ast.TryStmt:
		return in.evalTry(s, ctx)
	case *ast.InfoStmt:
		return theUnit // consumed by the parser's doc-attachment pass
	case *ast.PipeStmt:
		return in.evalPipeStmt(s, ctx)
	case *ast.BashLiteralStmt:
		return in.evalBash(s.Script, s.Pos(), ctx)
	}
	return NewError(stmt.Pos(), KindInternal, "unhandled statement type %T", stmt)
}

func (in *Interpreter) evalLet(s *ast.LetStmt, ctx *Context) Value {
	res := in.evalExpr(s.Value, ctx)
	if isError(res.Value) {
		return res.Value
	}
	if in.Config.ShowLets {
		fmt.Fprintf(os.Stderr, "let %s = %s\n", strings.Join(s.Names, ", "), res.Value.String())
	}
	if len(s.Names) == 1 {
		if ctx.Scope.ContainsInnermost(s.Names[0]) {
			return NewError(s.Pos(), KindRedeclared, "identifier %q already declared in this scope", s.Names[0])
		}
		v := res.Value.Copy()
		ctx.Scope.Declare(s.Names[0], v, s.Attrs)
		return theUnit
	}
	elems, err := destructure(res.Value, len(s.Names))
	if err != nil {
		return NewError(s.Pos(), KindType, "%s", err.Error())
	}
	for i, name := range s.Names {
		if ctx.Scope.ContainsInnermost(name) {
			return NewError(s.Pos(), KindRedeclared, "identifier %q already declared in this scope", name)
		}
		ctx.Scope.Declare(name, elems[i].Copy(), s.Attrs)
	}
	return theUnit
}

func destructure(v Value, n int) ([]Value, error) {
	var elems []Value
	switch t := v.(type) {
	case *Tuple:
		elems = t.Elements
	case *List:
		elems = t.Elements
	default:
		return nil, fmt.Errorf("cannot destructure %s into %d identifiers", v.Type(), n)
	}
	if len(elems) != n {
		return nil, fmt.Errorf("expected %d elements to destructure, got %d", n, len(elems))
	}
	return elems, nil
}

// evalFunctionBody evaluates a function/closure body as a block, additionally
// tracking the last top-level ExprStmt's value so callFunction/callClosure
// can implement implicit returns without that tracking
// leaking into ordinary If/While/Loop block semantics, which only ever
// yield Unit or a control-flow sentinel.
func (in *Interpreter) evalFunctionBody(body *ast.BlockStmt, ctx *Context) (Value, Value) {
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	var last Value = theUnit
	for _, stmt := range body.Statements {
		if es, ok := stmt.(*ast.ExprStmt); ok {
			res := in.evalExpr(es.Expr, ctx)
			if isError(res.Value) {
				return res.Value, nil
			}
			last = res.Value
			continue
		}
		res := in.evalStmt(stmt, ctx)
		if isControl(res) || isError(res) {
			return res, nil
		}
	}
	return theUnit, last
}

func (in *Interpreter) evalBlock(s *ast.BlockStmt, ctx *Context) Value {
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	for _, stmt := range s.Statements {
		res := in.evalStmt(stmt, ctx)
		if isControl(res) || isError(res) {
			return res
		}
	}
	return theUnit
}

func (in *Interpreter) evalIf(s *ast.IfStmt, ctx *Context) Value {
	cond := in.evalExpr(s.Condition, ctx)
	if isError(cond.Value) {
		return cond.Value
	}
	if coerceBool(cond.Value) {
		return in.evalBlock(s.Then, ctx)
	}
	if s.Else != nil {
		return in.evalStmt(s.Else, ctx)
	}
	return theUnit
}

func (in *Interpreter) evalWhile(s *ast.WhileStmt, ctx *Context) Value {
	for {
		cond := in.evalExpr(s.Condition, ctx)
		if isError(cond.Value) {
			return cond.Value
		}
		if !coerceBool(cond.Value) {
			return theUnit
		}
		res := in.evalBlock(s.Body, ctx)
		switch res.(type) {
		case *Break:
			return theUnit
		case *Continue:
			continue
		case *Return:
			return res
		}
		if isError(res) {
			return res
		}
	}
}

func (in *Interpreter) evalLoop(s *ast.LoopStmt, ctx *Context) Value {
	for {
		res := in.evalBlock(s.Body, ctx)
		switch res.(type) {
		case *Break:
			return theUnit
		case *Continue:
			continue
		case *Return:
			return res
		}
		if isError(res) {
			return res
		}
	}
}

func (in *Interpreter) evalFor(s *ast.ForStmt, ctx *Context) Value {
	startRes := in.evalExpr(s.Start, ctx)
	if isError(startRes.Value) {
		return startRes.Value
	}
	endRes := in.evalExpr(s.End, ctx)
	if isError(endRes.Value) {
		return endRes.Value
	}
	startI, ok1 := startRes.Value.(*Int)
	endI, ok2 := endRes.Value.(*Int)
	if !ok1 || !ok2 {
		return NewError(s.Pos(), KindType, "for loop bounds must be int, got %s and %s", startRes.Value.Type(), endRes.Value.Type())
	}
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	for i := startI.Value; i < endI.Value; i++ {
		ctx.Scope.Declare(s.Var, &Int{Value: i}, 0)
		res := in.evalBlock(s.Body, ctx)
		switch res.(type) {
		case *Break:
			return theUnit
		case *Continue:
			continue
		case *Return:
			return res
		}
		if isError(res) {
			return res
		}
	}
	return theUnit
}

func (in *Interpreter) evalForeach(s *ast.ForeachStmt, ctx *Context) Value {
	iter := in.evalExpr(s.Iterable, ctx)
	if isError(iter.Value) {
		return iter.Value
	}
	items, err := iterableElements(iter.Value)
	if err != nil {
		return NewError(s.Pos(), KindType, "%s", err.Error())
	}
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	for _, item := range items {
		if len(s.Vars) == 1 {
			ctx.Scope.Declare(s.Vars[0], item.Copy(), 0)
		} else {
			elems, err := destructure(item, len(s.Vars))
			if err != nil {
				return NewError(s.Pos(), KindType, "%s", err.Error())
			}
			for i, name := range s.Vars {
				ctx.Scope.Declare(name, elems[i].Copy(), 0)
			}
		}
		res := in.evalBlock(s.Body, ctx)
		switch res.(type) {
		case *Break:
			return theUnit
		case *Continue:
			continue
		case *Return:
			return res
		}
		if isError(res) {
			return res
		}
	}
	return theUnit
}

// iterableElements flattens a List/Tuple/Str/Dict into the elements
// Foreach binds to its loop variables. Dict iteration yields
// (key, value) tuples.
func iterableElements(v Value) ([]Value, error) {
	switch t := v.(type) {
	case *List:
		return t.Elements, nil
	case *Tuple:
		return t.Elements, nil
	case *Str:
		out := make([]Value, len(t.Value))
		for i := 0; i < len(t.Value); i++ {
			out[i] = &Char{Value: t.Value[i]}
		}
		return out, nil
	case *Dict:
		out := make([]Value, 0, len(t.Keys))
		for _, k := range t.Keys {
			val, _ := t.Get(k)
			out = append(out, &Tuple{Elements: []Value{k, val}})
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot iterate over %s", v.Type())
}

func (in *Interpreter) evalEnumDecl(s *ast.EnumDeclStmt, ctx *Context) Value {
	et := &EnumType{Name: s.Name, Attrs: s.Attrs, Entries: make(map[string]int64)}
	next := int64(0)
	for _, entry := range s.Entries {
		if entry.Value != nil {
			res := in.evalExpr(entry.Value, ctx)
			if isError(res.Value) {
				return res.Value
			}
			iv, ok := res.Value.(*Int)
			if !ok {
				return NewError(s.Pos(), KindType, "enum value must be int, got %s", res.Value.Type())
			}
			next = iv.Value
		}
		et.Entries[entry.Name] = next
		et.Order = append(et.Order, entry.Name)
		next++
	}
	ctx.Enums[s.Name] = et
	return theUnit
}

func (in *Interpreter) evalMatch(s *ast.MatchStmt, ctx *Context) Value {
	res := in.evalCase(&ast.CaseExpr{Token: s.Token, Value: s.Value, Arms: s.Arms}, ctx)
	return res.Value
}

func (in *Interpreter) evalExec(s *ast.ExecStmt, ctx *Context) Value {
	path, ok := in.Config.Aliases[s.Alias]
	if !ok {
		path = s.Alias
	}
	args := make([]string, 0, len(s.Args))
	for _, a := range s.Args {
		res := in.evalExpr(a, ctx)
		if isError(res.Value) {
			return res.Value
		}
		args = append(args, res.Value.String())
	}
	return in.runShell(s.Pos(), path+" "+strings.Join(args, " "))
}

func (in *Interpreter) evalBash(script string, pos lexer.Position, ctx *Context) Value {
	return in.runShell(pos, script)
}

func (in *Interpreter) evalWith(s *ast.WithStmt, ctx *Context) Value {
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	for i, id := range s.Ids {
		res := in.evalExpr(s.Exprs[i], ctx)
		if isError(res.Value) {
			return res.Value
		}
		ctx.Scope.Declare(id, res.Value, 0)
	}
	return in.evalBlock(s.Body, ctx)
}

func (in *Interpreter) evalTry(s *ast.TryStmt, ctx *Context) Value {
	res := in.evalBlock(s.Body, ctx)
	re, ok := res.(*RuntimeError)
	if !ok {
		return res
	}
	if !re.Catchable() {
		return re
	}
	ctx.Scope.Push()
	defer ctx.Scope.Pop()
	ctx.Scope.Declare(s.ErrName, &Str{Value: re.Message}, 0)
	return in.evalBlock(s.Catch, ctx)
}

func (in *Interpreter) evalPipeStmt(s *ast.PipeStmt, ctx *Context) Value {
	res := in.evalPipe(s.Left, s.Right, ctx)
	if isError(res.Value) {
		return res.Value
	}
	return theUnit
}

// evalPipe threads left's evaluated value as the first argument of
// right's call. The parser guarantees right is a FuncCallExpr.
func (in *Interpreter) evalPipe(left, right ast.Expression, ctx *Context) EvalResult {
	leftRes := in.evalExpr(left, ctx)
	if isError(leftRes.Value) {
		return leftRes
	}
	call, ok := right.(*ast.FuncCallExpr)
	if !ok {
		return EvalResult{Value: NewError(right.Pos(), KindType, "pipe target must be a call expression")}
	}
	args := append([]ast.Expression{&literalExpr{v: leftRes.Value, pos: left.Pos()}}, call.Args...)
	return in.evalCall(&ast.FuncCallExpr{Token: call.Token, Callee: call.Callee, Args: args}, ctx)
}

// literalExpr wraps an already-evaluated Value so it can be spliced back
// into an args list (used by the pipe operator).
type literalExpr struct {
	ast.ExprMarker
	v   Value
	pos lexer.Position
}

func (l *literalExpr) TokenLiteral() string { return l.v.String() }
func (l *literalExpr) Pos() lexer.Position  { return l.pos }
func (l *literalExpr) String() string       { return l.v.String() }

func magicIdent(name string, ctx *Context) (Value, bool) {
	switch name {
	case "__FUNC__":
		return &Str{Value: ctx.FuncNameForMagicIdent()}, true
	case "__FILE__":
		return &Str{Value: ctx.World().FilePath}, true
	case "__MODULE__":
		return &Str{Value: ctx.World().ModuleID}, true
	case "__OS__":
		switch runtime.GOOS {
		case "linux":
			return &Str{Value: "LINUX"}, true
		case "darwin":
			return &Str{Value: "MAC"}, true
		case "windows":
			return &Str{Value: "WINDOWS"}, true
		default:
			return &Str{Value: "UNKNOWN"}, true
		}
	}
	return nil, false
}
