package interp

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

var freeIntrinsicNames = map[string]bool{
	"print": true, "println": true, "fprint": true, "fprintln": true,
	"input": true, "len": true, "copy": true, "open": true,
	"type": true, "typeof": true, "assert": true, "some": true,
	"argv": true, "env": true, "sleep": true, "datetime": true,
	"unimplemented": true, "exit": true, "warn": true, "panic": true,
	"observe": true, "init_seed": true, "random": true, "sin": true,
	"cos": true, "help": true, "str": true, "int": true, "float": true,
	"bool": true, "tuple": true, "list": true, "unit": true, "Dict": true,
	"__internal_isdir__": true, "__internal_mkdir__": true,
	"__internal_move__": true, "__internal_ls__": true, "cd": true,
	"__internal_unix_system__": true, "__internal_unix_system_woutput__": true,
	"set_flag": true, "unset_flag": true, "flush": true,
}

// isIntrinsic reports whether name names a free intrinsic.
func isIntrinsic(name string) bool { return freeIntrinsicNames[name] }

var randSource = rand.New(rand.NewSource(1))

// callFreeIntrinsic dispatches a free intrinsic call by name.
// args have already been evaluated left-to-right; arity/kind mismatches
// are typed Type errors located at pos.
func (in *Interpreter) callFreeIntrinsic(name string, args []Value, pos lexer.Position, ctx *Context) (Value, error) {
	switch name {
	case "print":
		for _, a := range args {
			fmt.Fprint(in.Stdout, a.String())
		}
		return theUnit, nil
	case "println":
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(in.Stdout, strings.Join(parts, ""))
		return theUnit, nil
	case "fprint", "fprintln":
		if len(args) == 0 {
			return nil, typeError(pos, "%s requires a file argument", name)
		}
		f, ok := args[0].(*File)
		if !ok {
			return nil, typeError(pos, "%s requires a file as first argument, got %s", name, args[0].Type())
		}
		if f.Closed || f.Writer == nil {
			return nil, NewError(pos, KindFatal, "cannot write to closed or read-only file %q", f.Path)
		}
		var sb strings.Builder
		for _, a := range args[1:] {
			sb.WriteString(a.String())
		}
		if name == "fprintln" {
			sb.WriteByte('\n')
		}
		if _, err := f.Writer.Write([]byte(sb.String())); err != nil {
			return nil, NewError(pos, KindFatal, "write to %q failed: %s", f.Path, err.Error())
		}
		return theUnit, nil
	case "input":
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		return &Str{Value: strings.TrimRight(line, "\r\n")}, nil
	case "len":
		if len(args) != 1 {
			return nil, typeError(pos, "len expects 1 argument, got %d", len(args))
		}
		n, err := lengthOf(args[0], pos)
		if err != nil {
			if d, ok := args[0].(*Dict); ok {
				return &Int{Value: int64(len(d.Keys))}, nil
			}
			return nil, err
		}
		return &Int{Value: int64(n)}, nil
	case "copy":
		if len(args) != 1 {
			return nil, typeError(pos, "copy expects 1 argument, got %d", len(args))
		}
		if _, ok := args[0].(*File); ok {
			return nil, typeError(pos, "file values cannot be copied")
		}
		if inst, ok := args[0].(*Instance); ok {
			return deepCopyInstance(inst), nil
		}
		return args[0].Copy(), nil
	case "open":
		if len(args) != 2 {
			return nil, typeError(pos, "open expects 2 arguments (path, mode), got %d", len(args))
		}
		return openFile(args[0], args[1], pos)
	case "type":
		if len(args) != 1 {
			return nil, typeError(pos, "type expects 1 argument, got %d", len(args))
		}
		return &Str{Value: args[0].Type()}, nil
	case "typeof":
		if len(args) != 1 {
			return nil, typeError(pos, "typeof expects 1 argument, got %d", len(args))
		}
		return &TypeKW{Name: args[0].Type()}, nil
	case "assert":
		if len(args) < 1 {
			return nil, typeError(pos, "assert expects at least 1 argument")
		}
		if !args[0].Truthy() {
			msg := "assertion failed"
			if len(args) > 1 {
				msg = args[1].String()
			}
			return nil, NewError(pos, KindFatal, "%s", msg)
		}
		return theUnit, nil
	case "some":
		if len(args) != 1 {
			return nil, typeError(pos, "some expects 1 argument, got %d", len(args))
		}
		return &Option{IsSome: true, Inner: args[0]}, nil
	case "argv":
		out := make([]Value, 0, len(os.Args))
		for _, a := range os.Args {
			out = append(out, &Str{Value: a})
		}
		return &List{Elements: out}, nil
	case "env":
		if len(args) != 1 {
			return nil, typeError(pos, "env expects 1 argument, got %d", len(args))
		}
		key, ok := args[0].(*Str)
		if !ok {
			return nil, typeError(pos, "env expects a str argument, got %s", args[0].Type())
		}
		v, ok := os.LookupEnv(key.Value)
		if !ok {
			return &Option{}, nil
		}
		return &Option{IsSome: true, Inner: &Str{Value: v}}, nil
	case "sleep":
		if len(args) != 1 {
			return nil, typeError(pos, "sleep expects 1 argument (milliseconds), got %d", len(args))
		}
		ms, ok := args[0].(*Int)
		if !ok {
			return nil, typeError(pos, "sleep expects an int argument, got %s", args[0].Type())
		}
		time.Sleep(time.Duration(ms.Value) * time.Millisecond)
		return theUnit, nil
	case "datetime":
		return &Time{Value: time.Now()}, nil
	case "observe":
		// Reached only through an indirect call; evalCall intercepts the
		// direct form to capture the variable's binding.
		return nil, typeError(pos, "observe requires a variable as its first argument")
	case "unimplemented":
		msg := "unimplemented"
		if len(args) > 0 {
			msg = args[0].String()
		}
		return nil, NewError(pos, KindTodo, "%s", msg)
	case "exit":
		code := 0
		if len(args) > 0 {
			if i, ok := args[0].(*Int); ok {
				code = int(i.Value)
			}
		}
		os.Exit(code)
		return theUnit, nil
	case "warn":
		if !in.Config.SuppressWarnings {
			msg := ""
			if len(args) > 0 {
				msg = args[0].String()
			}
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
		}
		return theUnit, nil
	case "panic":
		msg := "panic"
		if len(args) > 0 {
			msg = args[0].String()
		}
		return nil, NewError(pos, KindFatal, "%s", msg)
	case "init_seed":
		if len(args) != 1 {
			return nil, typeError(pos, "init_seed expects 1 argument, got %d", len(args))
		}
		seed, ok := args[0].(*Int)
		if !ok {
			return nil, typeError(pos, "init_seed expects an int argument, got %s", args[0].Type())
		}
		randSource = rand.New(rand.NewSource(seed.Value))
		return theUnit, nil
	case "random":
		switch len(args) {
		case 0:
			return &Float{Value: randSource.Float64()}, nil
		case 2:
			lo, ok1 := args[0].(*Int)
			hi, ok2 := args[1].(*Int)
			if !ok1 || !ok2 {
				return nil, typeError(pos, "random(lo, hi) expects int arguments")
			}
			if hi.Value <= lo.Value {
				return nil, typeError(pos, "random(lo, hi) requires hi > lo")
			}
			return &Int{Value: lo.Value + randSource.Int63n(hi.Value-lo.Value)}, nil
		default:
			return nil, typeError(pos, "random expects 0 or 2 arguments, got %d", len(args))
		}
	case "sin", "cos":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument, got %d", name, len(args))
		}
		f, err := castFloat(pos, args[0])
		if err != nil {
			return nil, err
		}
		return mathTrig(name, f.(*Float).Value), nil
	case "help":
		names := make([]string, 0, len(freeIntrinsicNames))
		for n := range freeIntrinsicNames {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintln(in.Stdout, "free intrinsics:   "+strings.Join(names, " "))
		fmt.Fprintln(in.Stdout, "member intrinsics: "+strings.Join(sortedMemberIntrinsicNames(), " "))
		return theUnit, nil
	case "str":
		if len(args) != 1 {
			return nil, typeError(pos, "str expects 1 argument, got %d", len(args))
		}
		return &Str{Value: args[0].String()}, nil
	case "int":
		if len(args) != 1 {
			return nil, typeError(pos, "int expects 1 argument, got %d", len(args))
		}
		return castInt(pos, args[0])
	case "float":
		if len(args) != 1 {
			return nil, typeError(pos, "float expects 1 argument, got %d", len(args))
		}
		return castFloat(pos, args[0])
	case "bool":
		if len(args) != 1 {
			return nil, typeError(pos, "bool expects 1 argument, got %d", len(args))
		}
		return castBool(pos, args[0])
	case "tuple":
		return &Tuple{Elements: append([]Value(nil), args...)}, nil
	case "list":
		return &List{Elements: append([]Value(nil), args...)}, nil
	case "unit":
		return theUnit, nil
	case "Dict":
		if len(args) != 1 {
			return nil, typeError(pos, "Dict expects 1 argument (key type), got %d", len(args))
		}
		kw, ok := args[0].(*TypeKW)
		if !ok {
			return nil, typeError(pos, "Dict expects a type argument, got %s", args[0].Type())
		}
		switch kw.Name {
		case "int", "str", "char", "float":
		default:
			return nil, typeError(pos, "dict keys must be int, str, char, or float, got %s", kw.Name)
		}
		return NewDict(kw.Name), nil
	case "__internal_isdir__":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		info, err := os.Stat(args[0].String())
		return &Bool{Value: err == nil && info.IsDir()}, nil
	case "__internal_mkdir__":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		if err := os.MkdirAll(args[0].String(), 0o755); err != nil {
			return nil, NewError(pos, KindFatal, "mkdir %q failed: %s", args[0].String(), err.Error())
		}
		return theUnit, nil
	case "__internal_move__":
		if len(args) != 2 {
			return nil, typeError(pos, "%s expects 2 arguments", name)
		}
		if err := os.Rename(args[0].String(), args[1].String()); err != nil {
			return nil, NewError(pos, KindFatal, "move %q to %q failed: %s", args[0].String(), args[1].String(), err.Error())
		}
		return theUnit, nil
	case "__internal_ls__":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		entries, err := os.ReadDir(args[0].String())
		if err != nil {
			return nil, NewError(pos, KindFatal, "ls %q failed: %s", args[0].String(), err.Error())
		}
		out := make([]Value, 0, len(entries))
		for _, e := range entries {
			out = append(out, &Str{Value: e.Name()})
		}
		return &List{Elements: out}, nil
	case "cd":
		if len(args) != 1 {
			return nil, typeError(pos, "cd expects 1 argument")
		}
		if err := os.Chdir(args[0].String()); err != nil {
			return nil, NewError(pos, KindFatal, "cd %q failed: %s", args[0].String(), err.Error())
		}
		return theUnit, nil
	case "__internal_unix_system__":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		return in.runShell(pos, args[0].String()), nil
	case "__internal_unix_system_woutput__":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		out, rerr := in.runShellOutput(pos, args[0].String())
		if rerr != nil {
			return nil, rerr
		}
		return out, nil
	case "set_flag", "unset_flag":
		if len(args) != 1 {
			return nil, typeError(pos, "%s expects 1 argument", name)
		}
		flagName, ok := args[0].(*Str)
		if !ok {
			return nil, typeError(pos, "%s expects a str argument, got %s", name, args[0].Type())
		}
		if ptr, ok := in.Config.flagPointer(flagName.Value); ok {
			*ptr = name == "set_flag"
		} else {
			return nil, NewError(pos, KindUndeclared, "unknown flag %q", flagName.Value)
		}
		return theUnit, nil
	case "flush":
		if f, ok := in.Stdout.(*os.File); ok {
			f.Sync()
		}
		return theUnit, nil
	}
	return nil, NewError(pos, KindInternal, "unhandled intrinsic %q", name)
}

func mathTrig(name string, x float64) Value {
	if name == "sin" {
		return &Float{Value: math.Sin(x)}
	}
	return &Float{Value: math.Cos(x)}
}

// flagPointer resolves a runtime-settable flag name to its backing field
// for set_flag/unset_flag. Only the flags meaningful to
// toggle from within a running script are exposed here.
func (c *RuntimeConfig) flagPointer(name string) (*bool, bool) {
	switch name {
	case "show-bash":
		return &c.ShowBash, true
	case "show-lets":
		return &c.ShowLets, true
	case "show-muts":
		return &c.ShowMuts, true
	case "show-funs":
		return &c.ShowFuns, true
	case "suppress-warnings":
		return &c.SuppressWarnings, true
	case "error-on-bash-fail":
		return &c.ErrorOnBashFail, true
	case "no-sanitize-pipes":
		return &c.NoSanitizePipes, true
	case "verbose":
		return &c.Verbose, true
	}
	return nil, false
}

// callCallable invokes a FunctionRef or Closure with already-evaluated
// arguments, used by member intrinsics (foreach/map/filter/fold) that take
// a callback Value rather than an ast.Expression.
func (in *Interpreter) callCallable(callable Value, args []Value, ctx *Context, pos lexer.Position) (Value, *RuntimeError) {
	exprs := make([]ast.Expression, len(args))
	for i, a := range args {
		exprs[i] = &literalExpr{v: a, pos: pos}
	}
	switch c := callable.(type) {
	case *Closure:
		res := in.callClosure(c, exprs, ctx, pos)
		if isError(res.Value) {
			return nil, res.Value.(*RuntimeError)
		}
		return res.Value, nil
	case *FunctionRef:
		res := in.callFunction(c.Fn, exprs, ctx, pos, nil)
		if isError(res.Value) {
			return nil, res.Value.(*RuntimeError)
		}
		return res.Value, nil
	}
	return nil, typeError(pos, "expected a callable, got %s", callable.Type())
}
