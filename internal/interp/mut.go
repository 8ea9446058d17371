package interp

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

// evalMut evaluates an assignment: evaluate `left` to obtain an owning
// Binding or Dict slot, evaluate `right`, then assign a copy of it (`=`)
// or the result of SpecMutate (`op=`). Assigning through a ref holder mutates the
// shared Value, which is what makes `ref` parameters caller-visible.
func (in *Interpreter) evalMut(s *ast.MutStmt, ctx *Context) Value {
	rightRes := in.evalExpr(s.Right, ctx)
	if isError(rightRes.Value) {
		return rightRes.Value
	}

	leftRes := in.evalExpr(s.Left, ctx)
	if isError(leftRes.Value) {
		return leftRes.Value
	}

	if leftRes.Binding != nil {
		b := leftRes.Binding
		if b.Attrs.Has(ast.AttrConst) {
			return NewError(s.Pos(), KindFatal, "cannot assign to const binding")
		}
		var newVal Value
		if s.Operator == "=" {
			newVal = rightRes.Value.Copy()
		} else {
			v, err := SpecMutate(s.Pos(), b.Value, s.Operator, rightRes.Value)
			if err != nil {
				return toRuntimeError(err, s.Pos())
			}
			newVal = v
		}
		if in.Config.ShowMuts {
			fmt.Fprintf(os.Stderr, "%s %s %s\n", b.Name, s.Operator, newVal.String())
		}
		// Write through the existing Value where kinds allow so every
		// shared handle (ref parameters, captured closures) observes the
		// change; fall back to rebinding on a kind switch.
		if !writeInPlace(b.Value, newVal) {
			b.Value = newVal
		}
		if b.Listener != nil {
			if res := in.invokeListener(b.Listener, b.Value, ctx, s.Pos()); isError(res) {
				return res
			}
		}
		return theUnit
	}

	if leftRes.Key != nil {
		// Assignment into a Dict slot: `d[k] = v` / `d[k] += v`.
		getExpr, ok := s.Left.(*ast.ArrayAccessExpr)
		if !ok {
			return NewError(s.Pos(), KindType, "invalid dict assignment target")
		}
		recvRes := in.evalExpr(getExpr.Left, ctx)
		if isError(recvRes.Value) {
			return recvRes.Value
		}
		d, ok := recvRes.Value.(*Dict)
		if !ok {
			return NewError(s.Pos(), KindType, "invalid dict assignment target")
		}
		var newVal Value
		if s.Operator == "=" {
			newVal = rightRes.Value.Copy()
		} else {
			v, err := SpecMutate(s.Pos(), leftRes.Value, s.Operator, rightRes.Value)
			if err != nil {
				return toRuntimeError(err, s.Pos())
			}
			newVal = v
		}
		d.Set(leftRes.Key, newVal)
		return theUnit
	}

	if aa, ok := s.Left.(*ast.ArrayAccessExpr); ok {
		recvRes := in.evalExpr(aa.Left, ctx)
		if isError(recvRes.Value) {
			return recvRes.Value
		}
		if lst, ok := recvRes.Value.(*List); ok {
			idxRes := in.evalExpr(aa.Index, ctx)
			if isError(idxRes.Value) {
				return idxRes.Value
			}
			idx, ok := idxRes.Value.(*Int)
			if !ok || idx.Value < 0 || int(idx.Value) >= len(lst.Elements) {
				return NewError(s.Pos(), KindFatal, "list index out of range")
			}
			var newVal Value
			if s.Operator == "=" {
				newVal = rightRes.Value.Copy()
			} else {
				v, err := SpecMutate(s.Pos(), lst.Elements[idx.Value], s.Operator, rightRes.Value)
				if err != nil {
					return toRuntimeError(err, s.Pos())
				}
				newVal = v
			}
			lst.Elements[idx.Value] = newVal
			return theUnit
		}
	}

	return NewError(s.Pos(), KindFatal, "assignment target has no owning binding")
}

// invokeListener calls the event-listener callback installed by `observe`
// with the post-mutation value.
func (in *Interpreter) invokeListener(listener Value, newVal Value, ctx *Context, pos lexer.Position) Value {
	argExpr := &literalExpr{v: newVal, pos: pos}
	switch l := listener.(type) {
	case *Closure:
		res := in.callClosure(l, []ast.Expression{argExpr}, ctx, pos)
		return res.Value
	case *FunctionRef:
		res := in.callFunction(l.Fn, []ast.Expression{argExpr}, ctx, pos, nil)
		return res.Value
	}
	return theUnit
}

// writeInPlace copies src's payload into dst when both share a concrete
// kind, preserving dst's identity for every holder that shares it.
func writeInPlace(dst, src Value) bool {
	switch d := dst.(type) {
	case *Int:
		if s, ok := src.(*Int); ok {
			d.Value = s.Value
			return true
		}
	case *Float:
		if s, ok := src.(*Float); ok {
			d.Value = s.Value
			return true
		}
	case *Bool:
		if s, ok := src.(*Bool); ok {
			d.Value = s.Value
			return true
		}
	case *Char:
		if s, ok := src.(*Char); ok {
			d.Value = s.Value
			return true
		}
	case *Str:
		if s, ok := src.(*Str); ok {
			d.Value = s.Value
			return true
		}
	case *List:
		if s, ok := src.(*List); ok {
			d.Elements = s.Elements
			return true
		}
	case *Dict:
		if s, ok := src.(*Dict); ok {
			d.KeyKind, d.Keys, d.Values = s.KeyKind, s.Keys, s.Values
			return true
		}
	case *Option:
		if s, ok := src.(*Option); ok {
			d.IsSome, d.Inner = s.IsSome, s.Inner
			return true
		}
	}
	return false
}
