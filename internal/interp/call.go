package interp

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// evalCall evaluates `callee(args...)`.
func (in *Interpreter) evalCall(e *ast.FuncCallExpr, ctx *Context) EvalResult {
	// Method calls (`recv.method(args)`) never reach here: the parser
	// folds the call into GetExpr.Right, so evalGet/evalMember handle
	// them. A GetExpr callee only occurs for chained calls like
	// `a.b(x)(y)`, where the default path below evaluates `a.b(x)` first.
	if ident, ok := e.Callee.(*ast.Identifier); ok && ident.Name == "observe" {
		return in.evalObserve(e, ctx)
	}
	intrinsicName := ""
	switch c := e.Callee.(type) {
	case *ast.Identifier:
		intrinsicName = c.Name
	case *ast.TypeKeywordExpr:
		// Casts such as int(x) and str(x) lex as type keywords, not identifiers.
		intrinsicName = c.Name
	}
	if intrinsicName != "" && isIntrinsic(intrinsicName) {
		args, errRes := in.evalArgs(e.Args, ctx)
		if errRes != nil {
			return *errRes
		}
		v, err := in.callFreeIntrinsic(intrinsicName, args, e.Pos(), ctx)
		if err != nil {
			return EvalResult{Value: toRuntimeError(err, e.Pos())}
		}
		return EvalResult{Value: v, Class: ClassLiteral}
	}

	calleeRes := in.evalExpr(e.Callee, ctx)
	if isError(calleeRes.Value) {
		return calleeRes
	}

	switch callee := calleeRes.Value.(type) {
	case *FunctionRef:
		return in.callFunction(callee.Fn, e.Args, ctx, e.Pos(), nil)
	case *Closure:
		return in.callClosure(callee, e.Args, ctx, e.Pos())
	case *ClassRef:
		return in.instantiate(callee.Class, e.Args, ctx, e.Pos())
	default:
		return EvalResult{Value: NewError(e.Pos(), KindType, "%s is not callable", calleeRes.Value.Type())}
	}
}

func (in *Interpreter) evalArgs(exprs []ast.Expression, ctx *Context) ([]Value, *EvalResult) {
	out := make([]Value, 0, len(exprs))
	for _, a := range exprs {
		res := in.evalExpr(a, ctx)
		if isError(res.Value) {
			return nil, &res
		}
		out = append(out, res.Value)
	}
	return out, nil
}

// callFunction invokes a named Function: it evaluates the actual
// arguments left-to-right, builds a fresh call frame, binds parameters,
// and runs the body. this, when non-nil, binds `this` inside the new
// frame for method dispatch.
func (in *Interpreter) callFunction(fn *Function, argExprs []ast.Expression, callerCtx *Context, pos lexer.Position, this *Instance) EvalResult {
	owner := fn.DefiningCtx
	if this != nil {
		// Methods resolve members through the receiving instance's own
		// context, so a copied instance's methods see the copy's fields.
		owner = this.Ctx
	}
	if owner == nil {
		owner = callerCtx.NearestEnclosingWorldOrClass()
	}
	newCtx := NewFunctionContext(owner, fn.Name, fn.Attrs.Has(ast.AttrWorld))
	newCtx.ImmediateOwner = callerCtx
	if this != nil {
		newCtx.Instance = this
	}

	if err := in.loadParameters(fn.Params, argExprs, newCtx, callerCtx, pos); err != nil {
		return EvalResult{Value: err}
	}

	in.pushFrame(fn.Name, pos)
	res, last := in.evalFunctionBody(fn.Body, newCtx)
	if isError(res) {
		// Snapshot before popping so the failing frame is part of the trace.
		re := in.withTrace(res.(*RuntimeError))
		in.popFrame()
		return EvalResult{Value: re}
	}
	in.popFrame()
	if ret, ok := res.(*Return); ok {
		return EvalResult{Value: ret.Value, Class: ClassLiteral}
	}
	if in.Config.ImplicitReturns() {
		return EvalResult{Value: last, Class: ClassLiteral}
	}
	return EvalResult{Value: theUnit, Class: ClassLiteral}
}

// loadParameters binds the evaluated arguments into frame: ref params bind the
// caller's existing Value by shared handle, non-ref params bind a deep
// copy; const params have their binding's const flag set.
func (in *Interpreter) loadParameters(params []*ast.ParamDecl, argExprs []ast.Expression, newCtx, callerCtx *Context, pos lexer.Position) *RuntimeError {
	if len(argExprs) != len(params) {
		return NewError(pos, KindFatal, "arity mismatch: expected %d arguments, got %d", len(params), len(argExprs))
	}
	for i, p := range params {
		var argVal Value
		if p.Ref {
			res := in.evalExpr(argExprs[i], callerCtx)
			if isError(res.Value) {
				return res.Value.(*RuntimeError)
			}
			if res.Binding == nil {
				return NewError(pos, KindType, "ref parameter %q requires a variable argument", p.Name)
			}
			argVal = res.Binding.Value
			if p.Type != "" {
				if err := typecheck(p.Type, argVal, pos); err != nil {
					return err
				}
			}
			attrs := ast.Attrs(0).With(ast.AttrRef)
			if p.Const {
				attrs = attrs.With(ast.AttrConst)
			}
			b := newCtx.Scope.Declare(p.Name, argVal, attrs)
			b.Listener = res.Binding.Listener
			continue
		}
		res := in.evalExpr(argExprs[i], callerCtx)
		if isError(res.Value) {
			return res.Value.(*RuntimeError)
		}
		argVal = res.Value.Copy()
		if p.Type != "" {
			if err := typecheck(p.Type, argVal, pos); err != nil {
				return err
			}
		}
		attrs := ast.Attrs(0)
		if p.Const {
			attrs = attrs.With(ast.AttrConst)
		}
		newCtx.Scope.Declare(p.Name, argVal, attrs)
	}
	return nil
}

// typecheck validates an argument against a declared parameter type: the arg's kind must satisfy the
// Int<->Float, Char<->Str compatibility table, or match exactly.
func typecheck(declared string, arg Value, pos lexer.Position) *RuntimeError {
	kind := arg.Type()
	if kind == declared {
		return nil
	}
	switch declared {
	case "int", "float":
		if kind == "int" || kind == "float" {
			return nil
		}
	case "char", "str":
		if kind == "char" || kind == "str" {
			return nil
		}
	}
	return NewError(pos, KindType, "argument type mismatch: expected %s, got %s", declared, kind)
}

// callClosure invokes a Closure literal. Its defining Context is always
// the capture environment regardless of @world; closures capture their
// defining context by shared handle.
func (in *Interpreter) callClosure(cl *Closure, argExprs []ast.Expression, callerCtx *Context, pos lexer.Position) EvalResult {
	newCtx := NewClosureContext(cl.Env)
	if err := in.loadParameters(cl.Decl.Params, argExprs, newCtx, callerCtx, pos); err != nil {
		return EvalResult{Value: err}
	}
	in.pushFrame("<closure>", pos)
	res, last := in.evalFunctionBody(cl.Decl.Body, newCtx)
	if isError(res) {
		re := in.withTrace(res.(*RuntimeError))
		in.popFrame()
		return EvalResult{Value: re}
	}
	in.popFrame()
	if ret, ok := res.(*Return); ok {
		return EvalResult{Value: ret.Value, Class: ClassLiteral}
	}
	if in.Config.ImplicitReturns() {
		return EvalResult{Value: last, Class: ClassLiteral}
	}
	return EvalResult{Value: theUnit, Class: ClassLiteral}
}

// instantiate constructs a new class instance: constructor args are
// evaluated under their declared names, member initializers run in
// declaration order with those args visible, then methods are registered.
func (in *Interpreter) instantiate(cl *Class, argExprs []ast.Expression, callerCtx *Context, pos lexer.Position) EvalResult {
	if len(argExprs) != len(cl.CtorParams) {
		return EvalResult{Value: NewError(pos, KindFatal, "constructor arity mismatch: expected %d arguments, got %d", len(cl.CtorParams), len(argExprs))}
	}
	instance := &Instance{Class: cl, Fields: make(map[string]Value)}
	classCtx := NewClassContext(callerCtx.NearestEnclosingWorldOrClass(), cl.Name, instance)
	instance.Ctx = classCtx

	classCtx.CtorArgs = make(map[string]Value)
	for i, p := range cl.CtorParams {
		res := in.evalExpr(argExprs[i], callerCtx)
		if isError(res.Value) {
			return res
		}
		classCtx.CtorArgs[p.Name] = res.Value
	}

	for _, member := range cl.Members {
		res := in.evalLet(member, classCtx)
		if isError(res) {
			return EvalResult{Value: res}
		}
	}
	// Constructor args not shadowed by an explicit member `let` persist
	// as members themselves, so `this.x` works for `class Pt(x, y) {}`.
	for _, p := range cl.CtorParams {
		if !classCtx.Scope.ContainsInnermost(p.Name) {
			classCtx.Scope.Declare(p.Name, classCtx.CtorArgs[p.Name].Copy(), 0)
		}
	}
	classCtx.CtorArgs = nil

	for _, m := range cl.Methods {
		classCtx.Functions[m.Name] = &Function{
			Name: m.Name, Params: m.Params, Attrs: m.Attrs, Body: m.Body,
			DefiningCtx: classCtx, Info: m.Info,
		}
	}

	for name, b := range classCtx.Scope.frames[0] {
		instance.Fields[name] = b.Value
	}

	return EvalResult{Value: instance, Class: ClassInstant}
}

// evalInstanceMember resolves `instance.field_or_method`.
func (in *Interpreter) evalInstanceMember(instance *Instance, right ast.Expression, pos lexer.Position, ctx *Context) EvalResult {
	switch r := right.(type) {
	case *ast.Identifier:
		if b, ok := instance.Ctx.Scope.Get(r.Name); ok {
			if b.Attrs.Has(ast.AttrExperimental) && !b.Warned && !in.Config.SuppressWarnings {
				fmt.Fprintf(os.Stderr, "warning: %q is experimental\n", r.Name)
				b.Warned = true
			}
			return EvalResult{Value: b.Value, Class: ClassIdent, Binding: b}
		}
		return EvalResult{Value: NewError(pos, KindUndeclared, "%s has no member %q", instance.Class.Name, r.Name)}
	case *ast.FuncCallExpr:
		name, ok := r.Callee.(*ast.Identifier)
		if !ok {
			return EvalResult{Value: NewError(pos, KindType, "invalid method call target")}
		}
		if fn, _, ok := instance.Ctx.LookupFunction(name.Name); ok {
			return in.callFunction(fn, r.Args, ctx, pos, instance)
		}
		args, errRes := in.evalArgs(r.Args, ctx)
		if errRes != nil {
			return *errRes
		}
		return in.dispatchMemberIntrinsic(instance, name.Name, args, pos, ctx)
	}
	return EvalResult{Value: NewError(pos, KindType, "invalid member access")}
}

// evalObserve installs `observe(variable, callback)`: the callback runs
// after every mutation of the variable's binding, receiving the new value.
func (in *Interpreter) evalObserve(e *ast.FuncCallExpr, ctx *Context) EvalResult {
	if len(e.Args) != 2 {
		return EvalResult{Value: NewError(e.Pos(), KindType, "observe expects 2 arguments (variable, callback), got %d", len(e.Args))}
	}
	target := in.evalExpr(e.Args[0], ctx)
	if isError(target.Value) {
		return target
	}
	if target.Binding == nil {
		return EvalResult{Value: NewError(e.Pos(), KindType, "observe requires a variable as its first argument")}
	}
	cb := in.evalExpr(e.Args[1], ctx)
	if isError(cb.Value) {
		return cb
	}
	switch c := cb.Value.(type) {
	case *Closure:
		if len(c.Decl.Params) != 1 {
			return EvalResult{Value: NewError(e.Pos(), KindType, "observe callback must accept exactly one parameter")}
		}
	case *FunctionRef:
		if len(c.Fn.Params) != 1 {
			return EvalResult{Value: NewError(e.Pos(), KindType, "observe callback must accept exactly one parameter")}
		}
	default:
		return EvalResult{Value: NewError(e.Pos(), KindType, "observe callback must be a function or closure, got %s", cb.Value.Type())}
	}
	target.Binding.Listener = cb.Value
	return EvalResult{Value: theUnit, Class: ClassLiteral}
}
