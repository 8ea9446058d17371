package interp

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/cwbudde/go-earl/internal/parser"
)

// evalExpr dispatches on expr's concrete type.
func (in *Interpreter) evalExpr(expr ast.Expression, ctx *Context) EvalResult {
	switch e := expr.(type) {
	case *literalExpr:
		return EvalResult{Value: e.v, Class: ClassLiteral}
	case *ast.Identifier:
		return in.evalIdentifier(e, ctx)
	case *ast.IntegerLiteral:
		return EvalResult{Value: &Int{Value: e.Value}, Class: ClassLiteral}
	case *ast.FloatLiteral:
		return EvalResult{Value: &Float{Value: e.Value}, Class: ClassLiteral}
	case *ast.StringLiteral:
		return EvalResult{Value: &Str{Value: e.Value}, Class: ClassLiteral}
	case *ast.CharLiteral:
		return EvalResult{Value: &Char{Value: e.Value}, Class: ClassLiteral}
	case *ast.BooleanLiteral:
		return EvalResult{Value: &Bool{Value: e.Value}, Class: ClassLiteral}
	case *ast.NoneLiteral:
		return EvalResult{Value: &Option{}, Class: ClassLiteral}
	case *ast.ListLiteral:
		return in.evalListLiteral(e, ctx)
	case *ast.TupleLiteral:
		return in.evalTupleLiteral(e, ctx)
	case *ast.DictLiteral:
		return in.evalDictLiteral(e, ctx)
	case *ast.FuncCallExpr:
		return in.evalCall(e, ctx)
	case *ast.GetExpr:
		return in.evalGet(e, ctx)
	case *ast.ModAccessExpr:
		return in.evalModAccess(e, ctx)
	case *ast.ArrayAccessExpr:
		return in.evalArrayAccess(e, ctx)
	case *ast.SliceExpr:
		return in.evalSlice(e, ctx)
	case *ast.RangeExpr:
		return in.evalRange(e, ctx)
	case *ast.ClosureExpr:
		return EvalResult{Value: &Closure{Decl: e, Env: ctx}, Class: ClassLiteral}
	case *ast.FStringExpr:
		return in.evalFString(e, ctx)
	case *ast.CaseExpr:
		return in.evalCase(e, ctx)
	case *ast.PredicateExpr:
		return in.evalPredicate(e, ctx)
	case *ast.BinaryExpr:
		return in.evalBinary(e, ctx)
	case *ast.UnaryExpr:
		return in.evalUnary(e, ctx)
	case *ast.TypeKeywordExpr:
		return EvalResult{Value: &TypeKW{Name: e.Name}, Class: ClassLiteral}
	}
	return EvalResult{Value: NewError(expr.Pos(), KindInternal, "unhandled expression type %T", expr)}
}

func (in *Interpreter) evalIdentifier(e *ast.Identifier, ctx *Context) EvalResult {
	if v, ok := magicIdent(e.Name, ctx); ok {
		return EvalResult{Value: v, Class: ClassLiteral}
	}
	if e.Name == "this" {
		for cur := ctx; cur != nil; cur = cur.Owner {
			if cur.Instance != nil {
				return EvalResult{Value: cur.Instance, Class: ClassIdent}
			}
		}
		return EvalResult{Value: NewError(e.Pos(), KindUndeclared, "\"this\" outside a class method")}
	}
	if b, ok := ctx.LookupVar(e.Name); ok {
		if b.Attrs.Has(ast.AttrExperimental) && !b.Warned && !in.Config.SuppressWarnings {
			fmt.Fprintf(os.Stderr, "warning: %q is experimental\n", e.Name)
			b.Warned = true
		}
		return EvalResult{Value: b.Value, Class: ClassIdent, Binding: b}
	}
	if et, ok := ctx.LookupEnum(e.Name); ok {
		return EvalResult{Value: &EnumTypeValue{Enum: et}, Class: ClassLiteral}
	}
	if isIntrinsic(e.Name) {
		return EvalResult{Value: &Str{Value: e.Name}, Class: ClassIntrinsicFunction}
	}
	if fn, _, ok := ctx.LookupFunction(e.Name); ok {
		return EvalResult{Value: &FunctionRef{Name: e.Name, Fn: fn}, Class: ClassFunctionIdent}
	}
	if cl, ok := ctx.LookupClass(e.Name); ok {
		return EvalResult{Value: &ClassRef{Name: e.Name, Class: cl}, Class: ClassInstant}
	}
	return EvalResult{Value: NewError(e.Pos(), KindUndeclared, "undeclared identifier %q", e.Name)}
}

func (in *Interpreter) evalListLiteral(e *ast.ListLiteral, ctx *Context) EvalResult {
	elems := make([]Value, 0, len(e.Elements))
	for _, el := range e.Elements {
		res := in.evalExpr(el, ctx)
		if isError(res.Value) {
			return res
		}
		elems = append(elems, res.Value)
	}
	return EvalResult{Value: &List{Elements: elems}, Class: ClassLiteral}
}

func (in *Interpreter) evalTupleLiteral(e *ast.TupleLiteral, ctx *Context) EvalResult {
	elems := make([]Value, 0, len(e.Elements))
	for _, el := range e.Elements {
		res := in.evalExpr(el, ctx)
		if isError(res.Value) {
			return res
		}
		elems = append(elems, res.Value)
	}
	return EvalResult{Value: &Tuple{Elements: elems}, Class: ClassLiteral}
}

func (in *Interpreter) evalDictLiteral(e *ast.DictLiteral, ctx *Context) EvalResult {
	d := NewDict("")
	for i := range e.Keys {
		kRes := in.evalExpr(e.Keys[i], ctx)
		if isError(kRes.Value) {
			return kRes
		}
		vRes := in.evalExpr(e.Vals[i], ctx)
		if isError(vRes.Value) {
			return vRes
		}
		if d.KeyKind == "" {
			d.KeyKind = kRes.Value.Type()
		} else if kRes.Value.Type() != d.KeyKind {
			return EvalResult{Value: NewError(e.Pos(), KindType, "dict key must be %s, got %s", d.KeyKind, kRes.Value.Type())}
		}
		d.Set(kRes.Value, vRes.Value)
	}
	return EvalResult{Value: d, Class: ClassLiteral}
}

func (in *Interpreter) evalGet(e *ast.GetExpr, ctx *Context) EvalResult {
	leftRes := in.evalExpr(e.Left, ctx)
	if isError(leftRes.Value) {
		return leftRes
	}
	return in.evalMember(leftRes.Value, e.Right, e.Pos(), ctx)
}

func (in *Interpreter) evalModAccess(e *ast.ModAccessExpr, ctx *Context) EvalResult {
	mod, ok := ctx.LookupModule(e.Mod)
	if !ok {
		return EvalResult{Value: NewError(e.Pos(), KindUndeclared, "undeclared module %q", e.Mod)}
	}
	return in.evalMember(&Module{Name: mod.Name, Ctx: mod.Ctx, Depth: mod.Depth}, e.Right, e.Pos(), ctx)
}

// evalMember resolves `left.right`, the shared logic behind GetExpr and
// ModAccessExpr.
func (in *Interpreter) evalMember(left Value, right ast.Expression, pos lexer.Position, ctx *Context) EvalResult {
	switch recv := left.(type) {
	case *Instance:
		return in.evalInstanceMember(recv, right, pos, ctx)
	case *Module:
		return in.evalModuleMember(recv, right, pos)
	case *EnumTypeValue:
		if ident, ok := right.(*ast.Identifier); ok {
			if val, ok := recv.Enum.Entries[ident.Name]; ok {
				return EvalResult{Value: &Enum{TypeName: recv.Enum.Name, Name: ident.Name, Value: val}, Class: ClassLiteral}
			}
			return EvalResult{Value: NewError(pos, KindUndeclared, "enum %s has no member %q", recv.Enum.Name, ident.Name)}
		}
	}
	// Member intrinsic dispatch: `right` must name a member
	// intrinsic valid for left's kind, optionally called with args.
	switch call := right.(type) {
	case *ast.Identifier:
		return in.dispatchMemberIntrinsic(left, call.Name, nil, pos, ctx)
	case *ast.FuncCallExpr:
		name, ok := call.Callee.(*ast.Identifier)
		if !ok {
			return EvalResult{Value: NewError(pos, KindType, "invalid member call target")}
		}
		args := make([]Value, 0, len(call.Args))
		for _, a := range call.Args {
			res := in.evalExpr(a, ctx)
			if isError(res.Value) {
				return res
			}
			args = append(args, res.Value)
		}
		return in.dispatchMemberIntrinsic(left, name.Name, args, pos, ctx)
	}
	return EvalResult{Value: NewError(pos, KindType, "cannot access member on %s", left.Type())}
}

func (in *Interpreter) evalModuleMember(mod *Module, right ast.Expression, pos lexer.Position) EvalResult {
	var name string
	switch r := right.(type) {
	case *ast.Identifier:
		name = r.Name
	case *ast.FuncCallExpr:
		if ident, ok := r.Callee.(*ast.Identifier); ok {
			name = ident.Name
		}
	}
	if sub, ok := mod.Ctx.Imports[name]; ok {
		// Re-exported import: visible through a full-depth import only.
		if mod.Depth == "almost" {
			return EvalResult{Value: NewError(pos, KindUndeclared, "%q is not visible through an almost import of %q", name, mod.Name)}
		}
		return EvalResult{Value: sub, Class: ClassIdent}
	}
	if et, ok := mod.Ctx.Enums[name]; ok {
		if !et.Attrs.Has(ast.AttrPub) {
			return EvalResult{Value: NewError(pos, KindUndeclared, "%q is not pub in module %q", name, mod.Name)}
		}
		return EvalResult{Value: &EnumTypeValue{Enum: et}, Class: ClassLiteral}
	}
	b, ok := mod.Ctx.Scope.Get(name)
	if ok {
		if !b.Attrs.Has(ast.AttrPub) {
			return EvalResult{Value: NewError(pos, KindUndeclared, "%q is not pub in module %q", name, mod.Name)}
		}
		return EvalResult{Value: b.Value, Class: ClassIdent, Binding: b}
	}
	if fn, _, ok := mod.Ctx.LookupFunction(name); ok {
		if !fn.Attrs.Has(ast.AttrPub) {
			return EvalResult{Value: NewError(pos, KindUndeclared, "%q is not pub in module %q", name, mod.Name)}
		}
		return EvalResult{Value: &FunctionRef{Name: name, Fn: fn}, Class: ClassFunctionIdent}
	}
	if cl, ok := mod.Ctx.LookupClass(name); ok {
		if !cl.Attrs.Has(ast.AttrPub) {
			return EvalResult{Value: NewError(pos, KindUndeclared, "%q is not pub in module %q", name, mod.Name)}
		}
		return EvalResult{Value: &ClassRef{Name: name, Class: cl}, Class: ClassInstant}
	}
	return EvalResult{Value: NewError(pos, KindUndeclared, "module %q has no member %q", mod.Name, name)}
}

func (in *Interpreter) evalArrayAccess(e *ast.ArrayAccessExpr, ctx *Context) EvalResult {
	leftRes := in.evalExpr(e.Left, ctx)
	if isError(leftRes.Value) {
		return leftRes
	}
	if sl, ok := e.Index.(*ast.SliceExpr); ok {
		return in.evalSliceIndex(leftRes.Value, sl, e.Pos(), ctx)
	}
	idxRes := in.evalExpr(e.Index, ctx)
	if isError(idxRes.Value) {
		return idxRes
	}
	switch recv := leftRes.Value.(type) {
	case *Dict:
		v, ok := recv.Get(idxRes.Value)
		if !ok {
			return EvalResult{Value: NewError(e.Pos(), KindUndeclared, "key %s not in dict", displayString(idxRes.Value))}
		}
		return EvalResult{Value: v, Class: ClassLiteral, Key: idxRes.Value}
	default:
		v, err := nth(leftRes.Value, idxRes.Value, e.Pos())
		if err != nil {
			return EvalResult{Value: err}
		}
		return EvalResult{Value: v, Class: ClassLiteral}
	}
}

// nth implements `left.nth(index)` for List/Str/Tuple: an Int index is
// bounds-checked, a Slice index yields a new List/Str of the range.
func nth(recv Value, index Value, pos lexer.Position) (Value, *RuntimeError) {
	switch idx := index.(type) {
	case *Int:
		switch t := recv.(type) {
		case *List:
			if idx.Value < 0 || int(idx.Value) >= len(t.Elements) {
				return nil, NewError(pos, KindFatal, "index %d out of range for list of length %d", idx.Value, len(t.Elements))
			}
			return t.Elements[idx.Value], nil
		case *Tuple:
			if idx.Value < 0 || int(idx.Value) >= len(t.Elements) {
				return nil, NewError(pos, KindFatal, "index %d out of range for tuple of length %d", idx.Value, len(t.Elements))
			}
			return t.Elements[idx.Value], nil
		case *Str:
			if idx.Value < 0 || int(idx.Value) >= len(t.Value) {
				return nil, NewError(pos, KindFatal, "index %d out of range for string of length %d", idx.Value, len(t.Value))
			}
			return &Char{Value: t.Value[idx.Value]}, nil
		}
	}
	return nil, NewError(pos, KindType, "cannot index %s with %s", recv.Type(), index.Type())
}

func (in *Interpreter) evalSlice(e *ast.SliceExpr, ctx *Context) EvalResult {
	sl := &Slice{}
	if e.Start != nil {
		res := in.evalExpr(e.Start, ctx)
		if isError(res.Value) {
			return res
		}
		sl.Start = res.Value
	} else {
		sl.Start = theUnit
	}
	if e.End != nil {
		res := in.evalExpr(e.End, ctx)
		if isError(res.Value) {
			return res
		}
		sl.End = res.Value
	} else {
		sl.End = theUnit
	}
	return EvalResult{Value: sl, Class: ClassLiteral}
}

func (in *Interpreter) evalSliceIndex(recv Value, e *ast.SliceExpr, pos lexer.Position, ctx *Context) EvalResult {
	res := in.evalSlice(e, ctx)
	if isError(res.Value) {
		return res
	}
	sl := res.Value.(*Slice)
	v, err := sliceValue(recv, sl, pos)
	if err != nil {
		return EvalResult{Value: err}
	}
	return EvalResult{Value: v, Class: ClassLiteral}
}

// sliceValue implements the List/Str slice range: an explicit
// out-of-range end is an error; Void endpoints clamp to 0/len.
func sliceValue(recv Value, sl *Slice, pos lexer.Position) (Value, *RuntimeError) {
	length, err := lengthOf(recv, pos)
	if err != nil {
		return nil, err
	}
	start, explicitStart, serr := sliceBound(sl.Start, 0, length, pos)
	if serr != nil {
		return nil, serr
	}
	end, explicitEnd, eerr := sliceBound(sl.End, length, length, pos)
	if eerr != nil {
		return nil, eerr
	}
	if explicitStart && (start < 0 || start > length) {
		return nil, NewError(pos, KindType, "slice start %d out of range for length %d", start, length)
	}
	if explicitEnd && (end < 0 || end > length) {
		return nil, NewError(pos, KindType, "slice end %d out of range for length %d", end, length)
	}
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start > end {
		start = end
	}
	switch t := recv.(type) {
	case *List:
		return &List{Elements: append([]Value(nil), t.Elements[start:end]...)}, nil
	case *Str:
		return &Str{Value: t.Value[start:end]}, nil
	}
	return nil, NewError(pos, KindType, "cannot slice %s", recv.Type())
}

func lengthOf(v Value, pos lexer.Position) (int, *RuntimeError) {
	switch t := v.(type) {
	case *List:
		return len(t.Elements), nil
	case *Tuple:
		return len(t.Elements), nil
	case *Str:
		return len(t.Value), nil
	}
	return 0, NewError(pos, KindType, "%s has no length", v.Type())
}

func sliceBound(v Value, def, length int, pos lexer.Position) (int, bool, *RuntimeError) {
	switch t := v.(type) {
	case *Unit:
		return def, false, nil
	case *Int:
		return int(t.Value), true, nil
	}
	return 0, false, NewError(pos, KindType, "slice bound must be int or void, got %s", v.Type())
}

func (in *Interpreter) evalRange(e *ast.RangeExpr, ctx *Context) EvalResult {
	startRes := in.evalExpr(e.Start, ctx)
	if isError(startRes.Value) {
		return startRes
	}
	endRes := in.evalExpr(e.End, ctx)
	if isError(endRes.Value) {
		return endRes
	}
	if sc, ok := startRes.Value.(*Char); ok {
		ec, ok2 := endRes.Value.(*Char)
		if !ok2 {
			return EvalResult{Value: NewError(e.Pos(), KindType, "range endpoints must match kind")}
		}
		var out []Value
		end := ec.Value
		if e.Inclusive {
			end++
		}
		for c := sc.Value; c < end; c++ {
			out = append(out, &Char{Value: c})
		}
		return EvalResult{Value: &List{Elements: out}, Class: ClassLiteral}
	}
	si, ok := startRes.Value.(*Int)
	ei, ok2 := endRes.Value.(*Int)
	if !ok || !ok2 {
		return EvalResult{Value: NewError(e.Pos(), KindType, "range endpoints must be int or char")}
	}
	end := ei.Value
	if e.Inclusive {
		end++
	}
	out := make([]Value, 0, end-si.Value)
	for i := si.Value; i < end; i++ {
		out = append(out, &Int{Value: i})
	}
	return EvalResult{Value: &List{Elements: out}, Class: ClassLiteral}
}

func (in *Interpreter) evalFString(e *ast.FStringExpr, ctx *Context) EvalResult {
	var sb strings.Builder
	raw := e.Raw
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			end := strings.IndexByte(raw[i:], '}')
			if end == -1 {
				sb.WriteByte(raw[i])
				i++
				continue
			}
			segment := raw[i+1 : i+end]
			i += end + 1
			l := lexer.New(segment, "")
			p := parser.New(l)
			prog := p.ParseProgram()
			if len(prog.Statements) != 1 {
				return EvalResult{Value: NewError(e.Pos(), KindSyntax, "invalid interpolation segment %q", segment)}
			}
			exprStmt, ok := prog.Statements[0].(*ast.ExprStmt)
			if !ok {
				return EvalResult{Value: NewError(e.Pos(), KindSyntax, "invalid interpolation segment %q", segment)}
			}
			res := in.evalExpr(exprStmt.Expr, ctx)
			if isError(res.Value) {
				return res
			}
			sb.WriteString(res.Value.String())
			continue
		}
		sb.WriteByte(raw[i])
		i++
	}
	return EvalResult{Value: &Str{Value: sb.String()}, Class: ClassLiteral}
}

func (in *Interpreter) evalPredicate(e *ast.PredicateExpr, ctx *Context) EvalResult {
	res := in.evalExpr(e.Right, ctx)
	if isError(res.Value) {
		return res
	}
	return EvalResult{Value: &Predicate{Operator: e.Operator, Operand: res.Value}, Class: ClassLiteral}
}

func (in *Interpreter) evalCase(e *ast.CaseExpr, ctx *Context) EvalResult {
	scrutinee := in.evalExpr(e.Value, ctx)
	if isError(scrutinee.Value) {
		return scrutinee
	}
	for _, arm := range e.Arms {
		if arm.Pattern == nil {
			return in.evalExpr(arm.Result, ctx)
		}
		// `some(v)` with a bare identifier argument is a binding pattern,
		// not a call: it matches a Some option and binds v to the payload
		// over the arm's result.
		if bindName, ok := optionBindingPattern(arm.Pattern); ok {
			opt, isOpt := scrutinee.Value.(*Option)
			if !isOpt {
				continue
			}
			if !opt.IsSome {
				continue
			}
			ctx.Scope.Push()
			ctx.Scope.Declare(bindName, opt.Inner, 0)
			res := in.evalExpr(arm.Result, ctx)
			ctx.Scope.Pop()
			return res
		}
		patRes := in.evalExpr(arm.Pattern, ctx)
		if isError(patRes.Value) {
			return patRes
		}
		var matched bool
		if pred, ok := patRes.Value.(*Predicate); ok {
			m, err := pred.Matches(scrutinee.Value)
			if err != nil {
				return EvalResult{Value: NewError(e.Pos(), KindType, "%s", err.Error())}
			}
			matched = m
		} else {
			matched = scrutinee.Value.Equal(patRes.Value)
		}
		if matched {
			return in.evalExpr(arm.Result, ctx)
		}
	}
	return EvalResult{Value: theUnit, Class: ClassNone}
}

// optionBindingPattern reports whether pattern has the shape `some(ident)`
// and returns the identifier to bind.
func optionBindingPattern(pattern ast.Expression) (string, bool) {
	call, ok := pattern.(*ast.FuncCallExpr)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "some" {
		return "", false
	}
	arg, ok := call.Args[0].(*ast.Identifier)
	if !ok {
		return "", false
	}
	return arg.Name, true
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr, ctx *Context) EvalResult {
	if e.Operator == "||" || e.Operator == "&&" {
		left := in.evalExpr(e.Left, ctx)
		if isError(left.Value) {
			return left
		}
		lt := left.Value.Truthy()
		if e.Operator == "||" && lt {
			return EvalResult{Value: &Bool{Value: true}, Class: ClassLiteral}
		}
		if e.Operator == "&&" && !lt {
			return EvalResult{Value: &Bool{Value: false}, Class: ClassLiteral}
		}
		right := in.evalExpr(e.Right, ctx)
		if isError(right.Value) {
			return right
		}
		return EvalResult{Value: &Bool{Value: right.Value.Truthy()}, Class: ClassLiteral}
	}
	left := in.evalExpr(e.Left, ctx)
	if isError(left.Value) {
		return left
	}
	right := in.evalExpr(e.Right, ctx)
	if isError(right.Value) {
		return right
	}
	v, err := BinOp(e.Pos(), left.Value, e.Operator, right.Value)
	if err != nil {
		return EvalResult{Value: toRuntimeError(err, e.Pos())}
	}
	return EvalResult{Value: v, Class: ClassLiteral}
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr, ctx *Context) EvalResult {
	res := in.evalExpr(e.Operand, ctx)
	if isError(res.Value) {
		return res
	}
	v, err := UnaryOp(e.Pos(), e.Operator, res.Value)
	if err != nil {
		return EvalResult{Value: toRuntimeError(err, e.Pos())}
	}
	return EvalResult{Value: v, Class: ClassLiteral}
}

func toRuntimeError(err error, pos lexer.Position) *RuntimeError {
	if re, ok := err.(*RuntimeError); ok {
		return re
	}
	return NewError(pos, KindType, "%s", err.Error())
}

// Slice is the runtime representation of `start:end`, carried as a Value
// so it can be passed as an ArrayAccess index.
type Slice struct {
	Start Value
	End   Value
}

func (v *Slice) Type() string   { return "slice" }
func (v *Slice) String() string { return displayString(v.Start) + ":" + displayString(v.End) }
func (v *Slice) Truthy() bool   { return true }
func (v *Slice) Copy() Value    { return &Slice{Start: v.Start, End: v.End} }
func (v *Slice) Equal(o Value) bool {
	other, ok := o.(*Slice)
	return ok && other.Start.Equal(v.Start) && other.End.Equal(v.End)
}

// EnumTypeValue is the bare enum type name used on the left of `EnumName.Member`.
type EnumTypeValue struct{ Enum *EnumType }

func (v *EnumTypeValue) Type() string   { return "enum-type" }
func (v *EnumTypeValue) String() string { return v.Enum.Name }
func (v *EnumTypeValue) Truthy() bool   { return true }
func (v *EnumTypeValue) Copy() Value    { return v }
func (v *EnumTypeValue) Equal(o Value) bool {
	other, ok := o.(*EnumTypeValue)
	return ok && other.Enum == v.Enum
}

