package interp

import (
	"sort"
	"strings"

	"github.com/cwbudde/go-earl/internal/lexer"
)

// memberIntrinsicNames lists every name dispatchMemberIntrinsic knows,
// keyed by receiver kind, for anyone (e.g. the help() intrinsic) that wants to list
// the member surface.
var memberIntrinsicNames = map[string][]string{
	"bool":      {"toggle", "ifelse"},
	"char":      {"ascii"},
	"str":       {"split", "substr", "trim", "remove_lines", "nth", "back", "rev", "contains", "filter", "foreach", "map", "fold"},
	"list":      {"nth", "back", "rev", "append", "pop", "contains", "filter", "foreach", "map", "fold"},
	"tuple":     {"nth", "back", "rev", "contains", "filter", "foreach", "map", "fold"},
	"dict":      {"insert", "has_key", "has_value", "empty"},
	"option":    {"unwrap", "unwrap_or", "is_some", "is_none"},
	"file":      {"read", "write", "writelines", "dump", "close"},
	"time":      {"raw", "readable", "years", "months", "days", "hours", "minutes", "seconds"},
	"predicate": {"check"},
}

// dispatchMemberIntrinsic resolves `receiver.name(args...)` (or the bare
// `receiver.name` form, args == nil) against the member intrinsic table for
// receiver's kind. args have already been evaluated
// left-to-right. Arity/kind mismatches are typed Type errors at pos.
func (in *Interpreter) dispatchMemberIntrinsic(receiver Value, name string, args []Value, pos lexer.Position, ctx *Context) EvalResult {
	switch name {
	case "toggle":
		b, ok := receiver.(*Bool)
		if !ok {
			return memberTypeErr(pos, receiver, name)
		}
		b.Value = !b.Value
		return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
	case "ifelse":
		b, ok := receiver.(*Bool)
		if !ok {
			return memberTypeErr(pos, receiver, name)
		}
		if len(args) != 2 {
			return memberArityErr(pos, "ifelse", 2, len(args))
		}
		if b.Value {
			return EvalResult{Value: args[0], Class: ClassIntrinsicMemberFunction}
		}
		return EvalResult{Value: args[1], Class: ClassIntrinsicMemberFunction}
	case "ascii":
		c, ok := receiver.(*Char)
		if !ok {
			return memberTypeErr(pos, receiver, name)
		}
		return EvalResult{Value: &Int{Value: int64(c.Value)}, Class: ClassIntrinsicMemberFunction}
	case "split":
		return in.dispatchStrSplit(receiver, args, pos)
	case "substr":
		return in.dispatchStrSubstr(receiver, args, pos)
	case "trim":
		return in.dispatchStrTrim(receiver, pos)
	case "remove_lines":
		return in.dispatchStrRemoveLines(receiver, pos)
	case "nth":
		return in.dispatchNth(receiver, args, pos)
	case "back":
		return in.dispatchBack(receiver, pos)
	case "rev":
		return in.dispatchRev(receiver, pos)
	case "append":
		return in.dispatchAppend(receiver, args, pos)
	case "pop":
		return in.dispatchPop(receiver, args, pos)
	case "contains":
		return in.dispatchContains(receiver, args, pos)
	case "filter":
		return in.dispatchFilter(receiver, args, pos, ctx)
	case "foreach":
		return in.dispatchForeach(receiver, args, pos, ctx)
	case "map":
		return in.dispatchMap(receiver, args, pos, ctx)
	case "fold":
		return in.dispatchFold(receiver, args, pos, ctx)
	case "insert":
		return in.dispatchDictInsert(receiver, args, pos)
	case "has_key":
		return in.dispatchDictHasKey(receiver, args, pos)
	case "has_value":
		return in.dispatchDictHasValue(receiver, args, pos)
	case "empty":
		return in.dispatchEmpty(receiver, pos)
	case "unwrap":
		return in.dispatchUnwrap(receiver, pos)
	case "unwrap_or":
		return in.dispatchUnwrapOr(receiver, args, pos)
	case "is_some":
		return in.dispatchIsSome(receiver, pos)
	case "is_none":
		return in.dispatchIsNone(receiver, pos)
	case "read", "write", "writelines", "dump", "close":
		return in.dispatchFileMember(receiver, name, args, pos)
	case "raw", "readable", "years", "months", "days", "hours", "minutes", "seconds":
		return in.dispatchTimeMember(receiver, name, pos)
	case "check":
		return in.dispatchPredicateCheck(receiver, args, pos)
	}
	return EvalResult{Value: NewError(pos, KindUndeclared, "%s has no member %q", receiver.Type(), name)}
}

func memberTypeErr(pos lexer.Position, recv Value, name string) EvalResult {
	return EvalResult{Value: NewError(pos, KindType, "%s has no member %q", recv.Type(), name)}
}

func memberArityErr(pos lexer.Position, name string, want, got int) EvalResult {
	return EvalResult{Value: NewError(pos, KindType, "%s expects %d argument(s), got %d", name, want, got)}
}

// elementsOf returns receiver's elements for the List/Tuple/Str member
// family. A Str is treated as a sequence of Char for
// nth/back/rev/contains/filter/foreach/map/fold.
func elementsOf(receiver Value) ([]Value, bool) {
	switch t := receiver.(type) {
	case *List:
		return t.Elements, true
	case *Tuple:
		return t.Elements, true
	case *Str:
		out := make([]Value, len(t.Value))
		for i := 0; i < len(t.Value); i++ {
			out[i] = &Char{Value: t.Value[i]}
		}
		return out, true
	}
	return nil, false
}

// rebuild constructs a new aggregate of the same kind as template, carrying
// elems, used by filter/map/rev to preserve the receiver's container kind.
func rebuild(template Value, elems []Value) Value {
	switch template.(type) {
	case *List:
		return &List{Elements: elems}
	case *Tuple:
		return &Tuple{Elements: elems}
	case *Str:
		var sb strings.Builder
		for _, e := range elems {
			if c, ok := e.(*Char); ok {
				sb.WriteByte(c.Value)
			} else {
				sb.WriteString(e.String())
			}
		}
		return &Str{Value: sb.String()}
	}
	return &List{Elements: elems}
}

func (in *Interpreter) dispatchNth(receiver Value, args []Value, pos lexer.Position) EvalResult {
	if len(args) != 1 {
		return memberArityErr(pos, "nth", 1, len(args))
	}
	if sl, ok := args[0].(*Slice); ok {
		v, err := sliceValue(receiver, sl, pos)
		if err != nil {
			return EvalResult{Value: err}
		}
		return EvalResult{Value: v, Class: ClassIntrinsicMemberFunction}
	}
	v, err := nth(receiver, args[0], pos)
	if err != nil {
		return EvalResult{Value: err}
	}
	return EvalResult{Value: v, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchBack(receiver Value, pos lexer.Position) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "back")
	}
	if len(elems) == 0 {
		return EvalResult{Value: NewError(pos, KindFatal, "back() on empty %s", receiver.Type())}
	}
	return EvalResult{Value: elems[len(elems)-1], Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchRev(receiver Value, pos lexer.Position) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "rev")
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return EvalResult{Value: rebuild(receiver, out), Class: ClassIntrinsicMemberFunction}
}

// dispatchAppend implements List.append(...values): in-place extension,
// visible through every shared handle to the same List. Tuples have no
// shape-changing members.
func (in *Interpreter) dispatchAppend(receiver Value, args []Value, pos lexer.Position) EvalResult {
	l, ok := receiver.(*List)
	if !ok {
		return EvalResult{Value: NewError(pos, KindType, "append is only defined for list, got %s", receiver.Type())}
	}
	l.Elements = append(l.Elements, args...)
	return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
}

// dispatchPop implements List.pop(index): removes and returns the element
// at index, in place.
func (in *Interpreter) dispatchPop(receiver Value, args []Value, pos lexer.Position) EvalResult {
	l, ok := receiver.(*List)
	if !ok {
		return EvalResult{Value: NewError(pos, KindType, "pop is only defined for list, got %s", receiver.Type())}
	}
	if len(args) != 1 {
		return memberArityErr(pos, "pop", 1, len(args))
	}
	idx, ok := args[0].(*Int)
	if !ok {
		return EvalResult{Value: NewError(pos, KindType, "pop expects an int index, got %s", args[0].Type())}
	}
	if idx.Value < 0 || int(idx.Value) >= len(l.Elements) {
		return EvalResult{Value: NewError(pos, KindFatal, "index %d out of range for list of length %d", idx.Value, len(l.Elements))}
	}
	removed := l.Elements[idx.Value]
	l.Elements = append(l.Elements[:idx.Value], l.Elements[idx.Value+1:]...)
	return EvalResult{Value: removed, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchContains(receiver Value, args []Value, pos lexer.Position) EvalResult {
	if len(args) != 1 {
		return memberArityErr(pos, "contains", 1, len(args))
	}
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "contains")
	}
	for _, e := range elems {
		if e.Equal(args[0]) {
			return EvalResult{Value: &Bool{Value: true}, Class: ClassIntrinsicMemberFunction}
		}
	}
	return EvalResult{Value: &Bool{Value: false}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchFilter(receiver Value, args []Value, pos lexer.Position, ctx *Context) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "filter")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "filter", 1, len(args))
	}
	var out []Value
	for _, e := range elems {
		res, rerr := in.callCallable(args[0], []Value{e}, ctx, pos)
		if rerr != nil {
			return EvalResult{Value: rerr}
		}
		if res.Truthy() {
			out = append(out, e)
		}
	}
	return EvalResult{Value: rebuild(receiver, out), Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchForeach(receiver Value, args []Value, pos lexer.Position, ctx *Context) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "foreach")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "foreach", 1, len(args))
	}
	for _, e := range elems {
		if _, rerr := in.callCallable(args[0], []Value{e}, ctx, pos); rerr != nil {
			return EvalResult{Value: rerr}
		}
	}
	return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchMap(receiver Value, args []Value, pos lexer.Position, ctx *Context) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "map")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "map", 1, len(args))
	}
	out := make([]Value, len(elems))
	for i, e := range elems {
		res, rerr := in.callCallable(args[0], []Value{e}, ctx, pos)
		if rerr != nil {
			return EvalResult{Value: rerr}
		}
		out[i] = res
	}
	// map's callback may change element kind (e.g. int -> str), so the
	// result is always a List rather than preserving a Str receiver's shape.
	if _, isStr := receiver.(*Str); isStr {
		return EvalResult{Value: &List{Elements: out}, Class: ClassIntrinsicMemberFunction}
	}
	return EvalResult{Value: rebuild(receiver, out), Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchFold(receiver Value, args []Value, pos lexer.Position, ctx *Context) EvalResult {
	elems, ok := elementsOf(receiver)
	if !ok {
		return memberTypeErr(pos, receiver, "fold")
	}
	if len(args) != 2 {
		return memberArityErr(pos, "fold", 2, len(args))
	}
	acc := args[0]
	callable := args[1]
	for _, e := range elems {
		res, rerr := in.callCallable(callable, []Value{acc, e}, ctx, pos)
		if rerr != nil {
			return EvalResult{Value: rerr}
		}
		acc = res
	}
	return EvalResult{Value: acc, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchDictInsert(receiver Value, args []Value, pos lexer.Position) EvalResult {
	d, ok := receiver.(*Dict)
	if !ok {
		return memberTypeErr(pos, receiver, "insert")
	}
	if len(args) != 2 {
		return memberArityErr(pos, "insert", 2, len(args))
	}
	if d.KeyKind != "" && args[0].Type() != d.KeyKind {
		return EvalResult{Value: NewError(pos, KindType, "dict key must be %s, got %s", d.KeyKind, args[0].Type())}
	}
	d.Set(args[0], args[1])
	return EvalResult{Value: theUnit, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchDictHasKey(receiver Value, args []Value, pos lexer.Position) EvalResult {
	d, ok := receiver.(*Dict)
	if !ok {
		return memberTypeErr(pos, receiver, "has_key")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "has_key", 1, len(args))
	}
	_, found := d.Get(args[0])
	return EvalResult{Value: &Bool{Value: found}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchDictHasValue(receiver Value, args []Value, pos lexer.Position) EvalResult {
	d, ok := receiver.(*Dict)
	if !ok {
		return memberTypeErr(pos, receiver, "has_value")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "has_value", 1, len(args))
	}
	for _, k := range d.Keys {
		v, _ := d.Get(k)
		if v.Equal(args[0]) {
			return EvalResult{Value: &Bool{Value: true}, Class: ClassIntrinsicMemberFunction}
		}
	}
	return EvalResult{Value: &Bool{Value: false}, Class: ClassIntrinsicMemberFunction}
}

// dispatchEmpty implements Dict.empty(); only Dict declares it.
func (in *Interpreter) dispatchEmpty(receiver Value, pos lexer.Position) EvalResult {
	d, ok := receiver.(*Dict)
	if !ok {
		return memberTypeErr(pos, receiver, "empty")
	}
	return EvalResult{Value: &Bool{Value: len(d.Keys) == 0}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchUnwrap(receiver Value, pos lexer.Position) EvalResult {
	o, ok := receiver.(*Option)
	if !ok {
		return memberTypeErr(pos, receiver, "unwrap")
	}
	if !o.IsSome {
		return EvalResult{Value: NewError(pos, KindFatal, "unwrap() called on none")}
	}
	return EvalResult{Value: o.Inner, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchUnwrapOr(receiver Value, args []Value, pos lexer.Position) EvalResult {
	o, ok := receiver.(*Option)
	if !ok {
		return memberTypeErr(pos, receiver, "unwrap_or")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "unwrap_or", 1, len(args))
	}
	if o.IsSome {
		return EvalResult{Value: o.Inner, Class: ClassIntrinsicMemberFunction}
	}
	return EvalResult{Value: args[0], Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchIsSome(receiver Value, pos lexer.Position) EvalResult {
	o, ok := receiver.(*Option)
	if !ok {
		return memberTypeErr(pos, receiver, "is_some")
	}
	return EvalResult{Value: &Bool{Value: o.IsSome}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchIsNone(receiver Value, pos lexer.Position) EvalResult {
	o, ok := receiver.(*Option)
	if !ok {
		return memberTypeErr(pos, receiver, "is_none")
	}
	return EvalResult{Value: &Bool{Value: !o.IsSome}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchPredicateCheck(receiver Value, args []Value, pos lexer.Position) EvalResult {
	p, ok := receiver.(*Predicate)
	if !ok {
		return memberTypeErr(pos, receiver, "check")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "check", 1, len(args))
	}
	matched, err := p.Matches(args[0])
	if err != nil {
		return EvalResult{Value: NewError(pos, KindType, "%s", err.Error())}
	}
	return EvalResult{Value: &Bool{Value: matched}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchStrSplit(receiver Value, args []Value, pos lexer.Position) EvalResult {
	s, ok := receiver.(*Str)
	if !ok {
		return memberTypeErr(pos, receiver, "split")
	}
	if len(args) != 1 {
		return memberArityErr(pos, "split", 1, len(args))
	}
	delim, ok := args[0].(*Str)
	if !ok {
		return EvalResult{Value: NewError(pos, KindType, "split expects a str delimiter, got %s", args[0].Type())}
	}
	var parts []string
	if delim.Value == "" {
		parts = strings.Split(s.Value, "")
	} else {
		parts = strings.Split(s.Value, delim.Value)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = &Str{Value: p}
	}
	return EvalResult{Value: &List{Elements: out}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchStrSubstr(receiver Value, args []Value, pos lexer.Position) EvalResult {
	s, ok := receiver.(*Str)
	if !ok {
		return memberTypeErr(pos, receiver, "substr")
	}
	if len(args) != 2 {
		return memberArityErr(pos, "substr", 2, len(args))
	}
	sl := &Slice{Start: args[0], End: args[1]}
	v, err := sliceValue(s, sl, pos)
	if err != nil {
		return EvalResult{Value: err}
	}
	return EvalResult{Value: v, Class: ClassIntrinsicMemberFunction}
}

// asciiWhitespace is the cutset for Str.trim(): leading and trailing
// ASCII whitespace only.
const asciiWhitespace = " \t\n\r\v\f"

func (in *Interpreter) dispatchStrTrim(receiver Value, pos lexer.Position) EvalResult {
	s, ok := receiver.(*Str)
	if !ok {
		return memberTypeErr(pos, receiver, "trim")
	}
	return EvalResult{Value: &Str{Value: strings.Trim(s.Value, asciiWhitespace)}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchStrRemoveLines(receiver Value, pos lexer.Position) EvalResult {
	s, ok := receiver.(*Str)
	if !ok {
		return memberTypeErr(pos, receiver, "remove_lines")
	}
	joined := strings.ReplaceAll(strings.ReplaceAll(s.Value, "\r\n", ""), "\n", "")
	return EvalResult{Value: &Str{Value: joined}, Class: ClassIntrinsicMemberFunction}
}

func (in *Interpreter) dispatchTimeMember(receiver Value, name string, pos lexer.Position) EvalResult {
	t, ok := receiver.(*Time)
	if !ok {
		return memberTypeErr(pos, receiver, name)
	}
	switch name {
	case "raw":
		return EvalResult{Value: &Int{Value: t.Value.Unix()}, Class: ClassIntrinsicMemberFunction}
	case "readable":
		y, mo, d := t.Value.Date()
		h, mi, se := t.Value.Clock()
		return EvalResult{Value: &Tuple{Elements: []Value{
			&Int{Value: int64(y)}, &Int{Value: int64(mo)}, &Int{Value: int64(d)},
			&Int{Value: int64(h)}, &Int{Value: int64(mi)}, &Int{Value: int64(se)},
		}}, Class: ClassIntrinsicMemberFunction}
	case "years":
		return EvalResult{Value: &Int{Value: int64(t.Value.Year())}, Class: ClassIntrinsicMemberFunction}
	case "months":
		return EvalResult{Value: &Int{Value: int64(t.Value.Month())}, Class: ClassIntrinsicMemberFunction}
	case "days":
		return EvalResult{Value: &Int{Value: int64(t.Value.Day())}, Class: ClassIntrinsicMemberFunction}
	case "hours":
		return EvalResult{Value: &Int{Value: int64(t.Value.Hour())}, Class: ClassIntrinsicMemberFunction}
	case "minutes":
		return EvalResult{Value: &Int{Value: int64(t.Value.Minute())}, Class: ClassIntrinsicMemberFunction}
	case "seconds":
		return EvalResult{Value: &Int{Value: int64(t.Value.Second())}, Class: ClassIntrinsicMemberFunction}
	}
	return memberTypeErr(pos, receiver, name)
}

// sortedMemberIntrinsicNames is used by the help() intrinsic to print a stable
// listing of every member name across kinds.
func sortedMemberIntrinsicNames() []string {
	seen := map[string]bool{}
	for _, names := range memberIntrinsicNames {
		for _, n := range names {
			seen[n] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
