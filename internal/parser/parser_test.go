package parser

import (
	"testing"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input, "<test>"))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors for %q: %v", input, errs)
	}
	return program
}

func TestParseLetStatement(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{"let x = 5;", "x"},
		{"let y = \"hi\";", "y"},
		{"let z = true;", "z"},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("expected 1 statement, got %d", len(program.Statements))
		}
		let, ok := program.Statements[0].(*ast.LetStmt)
		if !ok {
			t.Fatalf("expected *ast.LetStmt, got %T", program.Statements[0])
		}
		if len(let.Names) != 1 || let.Names[0] != tt.name {
			t.Fatalf("expected name %q, got %v", tt.name, let.Names)
		}
	}
}

func TestParseDestructuringLet(t *testing.T) {
	program := parseProgram(t, "let a, b = (1, 2);")
	let := program.Statements[0].(*ast.LetStmt)
	if len(let.Names) != 2 || let.Names[0] != "a" || let.Names[1] != "b" {
		t.Fatalf("unexpected names: %v", let.Names)
	}
	tup, ok := let.Value.(*ast.TupleLiteral)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("expected 2-element tuple literal, got %#v", let.Value)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3));"},
		{"(1 + 2) * 3;", "((1 + 2) * 3);"},
		{"a < b && c > d;", "((a < b) && (c > d));"},
		{"1 + 2 + 3;", "((1 + 2) + 3);"},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		got := program.Statements[0].String()
		if got != tt.want {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestParseFuncDecl(t *testing.T) {
	program := parseProgram(t, "fn add(a, ref b) { return a + b; }")
	fn, ok := program.Statements[0].(*ast.FuncDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.FuncDeclStmt, got %T", program.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected func decl: %+v", fn)
	}
	if !fn.Params[1].Ref {
		t.Fatalf("expected second param to carry ref")
	}
}

func TestParseAttributedFuncDecl(t *testing.T) {
	program := parseProgram(t, "@pub @world fn main() { }")
	fn := program.Statements[0].(*ast.FuncDeclStmt)
	if !fn.Attrs.Has(ast.AttrPub) || !fn.Attrs.Has(ast.AttrWorld) {
		t.Fatalf("expected pub and world attrs, got %s", fn.Attrs.String())
	}
}

func TestParseIfElse(t *testing.T) {
	program := parseProgram(t, "if x > 0 { let y = 1; } else { let y = 2; }")
	ifstmt, ok := program.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", program.Statements[0])
	}
	if ifstmt.Else == nil {
		t.Fatal("expected else branch")
	}
}

func TestParseWhileAndLoop(t *testing.T) {
	program := parseProgram(t, "while x < 10 { x += 1; } loop { break; }")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.WhileStmt); !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", program.Statements[0])
	}
	if _, ok := program.Statements[1].(*ast.LoopStmt); !ok {
		t.Fatalf("expected *ast.LoopStmt, got %T", program.Statements[1])
	}
}

func TestParseForRange(t *testing.T) {
	program := parseProgram(t, "for i in 0..10 { }")
	forStmt, ok := program.Statements[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected *ast.ForStmt, got %T", program.Statements[0])
	}
	if forStmt.Var != "i" {
		t.Fatalf("expected loop var i, got %s", forStmt.Var)
	}
}

func TestParseForeach(t *testing.T) {
	program := parseProgram(t, "foreach k, v in d { }")
	fe, ok := program.Statements[0].(*ast.ForeachStmt)
	if !ok {
		t.Fatalf("expected *ast.ForeachStmt, got %T", program.Statements[0])
	}
	if len(fe.Vars) != 2 || fe.Vars[0] != "k" || fe.Vars[1] != "v" {
		t.Fatalf("unexpected vars: %v", fe.Vars)
	}
}

func TestParseListDictLiterals(t *testing.T) {
	program := parseProgram(t, `let xs = [1, 2, 3]; let d = {"a": 1, "b": 2};`)
	lst := program.Statements[0].(*ast.LetStmt).Value.(*ast.ListLiteral)
	if len(lst.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(lst.Elements))
	}
	dict := program.Statements[1].(*ast.LetStmt).Value.(*ast.DictLiteral)
	if len(dict.Keys) != 2 {
		t.Fatalf("expected 2 dict entries, got %d", len(dict.Keys))
	}
}

func TestParseClosure(t *testing.T) {
	program := parseProgram(t, "let f = |x, y| { return x + y; };")
	closure := program.Statements[0].(*ast.LetStmt).Value.(*ast.ClosureExpr)
	if len(closure.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(closure.Params))
	}
}

func TestParseArrayAccessAndSlice(t *testing.T) {
	program := parseProgram(t, "let a = xs[0]; let b = xs[1:3];")
	access := program.Statements[0].(*ast.LetStmt).Value.(*ast.ArrayAccessExpr)
	if _, ok := access.Index.(*ast.IntegerLiteral); !ok {
		t.Fatalf("expected integer index, got %T", access.Index)
	}
	slice := program.Statements[1].(*ast.LetStmt).Value.(*ast.ArrayAccessExpr)
	if _, ok := slice.Index.(*ast.SliceExpr); !ok {
		t.Fatalf("expected slice index, got %T", slice.Index)
	}
}

func TestParseGetAndModAccess(t *testing.T) {
	program := parseProgram(t, "let a = obj.field; let b = math::pi;")
	get := program.Statements[0].(*ast.LetStmt).Value.(*ast.GetExpr)
	if get.Left.(*ast.Identifier).Name != "obj" {
		t.Fatalf("unexpected get left: %v", get.Left)
	}
	mod := program.Statements[1].(*ast.LetStmt).Value.(*ast.ModAccessExpr)
	if mod.Mod != "math" {
		t.Fatalf("expected module math, got %s", mod.Mod)
	}
}

func TestParseMethodCall(t *testing.T) {
	program := parseProgram(t, "obj.method(1, 2);")
	exprStmt := program.Statements[0].(*ast.ExprStmt)
	get := exprStmt.Expr.(*ast.GetExpr)
	call, ok := get.Right.(*ast.FuncCallExpr)
	if !ok {
		t.Fatalf("expected method call, got %T", get.Right)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
}

func TestParseClassDecl(t *testing.T) {
	input := `
class Point(x, y) {
	let x = x;
	let y = y;

	@pub fn dist() {
		return x * x + y * y;
	}
}`
	program := parseProgram(t, input)
	cls, ok := program.Statements[0].(*ast.ClassDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclStmt, got %T", program.Statements[0])
	}
	if cls.Name != "Point" || len(cls.CtorParams) != 2 {
		t.Fatalf("unexpected class decl: %+v", cls)
	}
	if len(cls.Members) != 2 || len(cls.Methods) != 1 {
		t.Fatalf("expected 2 members and 1 method, got %d/%d", len(cls.Members), len(cls.Methods))
	}
	if !cls.Methods[0].Attrs.Has(ast.AttrPub) {
		t.Fatalf("expected method to carry pub attr")
	}
}

func TestParseEnumDecl(t *testing.T) {
	program := parseProgram(t, "enum Color { Red, Green, Blue = 5 }")
	en, ok := program.Statements[0].(*ast.EnumDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.EnumDeclStmt, got %T", program.Statements[0])
	}
	if len(en.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(en.Entries))
	}
	if en.Entries[2].Value == nil {
		t.Fatal("expected explicit value for Blue")
	}
}

func TestParseMatchStatement(t *testing.T) {
	input := `match x { when < 0 -> print("neg"); when 0 -> print("zero"); else -> print("pos"); }`
	program := parseProgram(t, input)
	m, ok := program.Statements[0].(*ast.MatchStmt)
	if !ok {
		t.Fatalf("expected *ast.MatchStmt, got %T", program.Statements[0])
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[0].Pattern.(*ast.PredicateExpr); !ok {
		t.Fatalf("expected predicate pattern, got %T", m.Arms[0].Pattern)
	}
	if m.Arms[2].Pattern != nil {
		t.Fatal("expected nil pattern for else arm")
	}
}

func TestParseTryCatch(t *testing.T) {
	program := parseProgram(t, `try { risky(); } catch e { print(e); }`)
	try, ok := program.Statements[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected *ast.TryStmt, got %T", program.Statements[0])
	}
	if try.ErrName != "e" {
		t.Fatalf("expected error binding e, got %s", try.ErrName)
	}
}

func TestParseWithStatement(t *testing.T) {
	program := parseProgram(t, `with f = open("x.txt") { read(f); }`)
	with, ok := program.Statements[0].(*ast.WithStmt)
	if !ok {
		t.Fatalf("expected *ast.WithStmt, got %T", program.Statements[0])
	}
	if len(with.Ids) != 1 || with.Ids[0] != "f" {
		t.Fatalf("unexpected with ids: %v", with.Ids)
	}
}

func TestParseImportStatement(t *testing.T) {
	program := parseProgram(t, `import "math"; import almost "strings" as s;`)
	imp1 := program.Statements[0].(*ast.ImportStmt)
	if imp1.Depth != "full" || imp1.Path != "math" {
		t.Fatalf("unexpected import: %+v", imp1)
	}
	imp2 := program.Statements[1].(*ast.ImportStmt)
	if imp2.Depth != "almost" || imp2.Alias != "s" {
		t.Fatalf("unexpected aliased import: %+v", imp2)
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	program := parseProgram(t, "x += 1;")
	mut, ok := program.Statements[0].(*ast.MutStmt)
	if !ok {
		t.Fatalf("expected *ast.MutStmt, got %T", program.Statements[0])
	}
	if mut.Operator != "+=" {
		t.Fatalf("expected += operator, got %s", mut.Operator)
	}
}

func TestParsePipeStatement(t *testing.T) {
	program := parseProgram(t, "xs |> sum();")
	pipe, ok := program.Statements[0].(*ast.PipeStmt)
	if !ok {
		t.Fatalf("expected *ast.PipeStmt, got %T", program.Statements[0])
	}
	if pipe.Left.(*ast.Identifier).Name != "xs" {
		t.Fatalf("unexpected pipe left: %v", pipe.Left)
	}
}

func TestParseRangeExpr(t *testing.T) {
	program := parseProgram(t, "let r = 1..=10;")
	r := program.Statements[0].(*ast.LetStmt).Value.(*ast.RangeExpr)
	if !r.Inclusive {
		t.Fatal("expected inclusive range")
	}
}

func TestParseSomeCall(t *testing.T) {
	program := parseProgram(t, "let o = some(5);")
	call := program.Statements[0].(*ast.LetStmt).Value.(*ast.FuncCallExpr)
	if call.Callee.(*ast.Identifier).Name != "some" {
		t.Fatalf("expected callee 'some', got %v", call.Callee)
	}
}

func TestParseBashLiteral(t *testing.T) {
	program := parseProgram(t, "`ls -la`;")
	lit, ok := program.Statements[0].(*ast.BashLiteralStmt)
	if !ok {
		t.Fatalf("expected *ast.BashLiteralStmt, got %T", program.Statements[0])
	}
	if lit.Script != "ls -la" {
		t.Fatalf("unexpected script: %q", lit.Script)
	}
}

func TestParseInfoStatement(t *testing.T) {
	program := parseProgram(t, `info "documents the following function"; fn f() { }`)
	info, ok := program.Statements[0].(*ast.InfoStmt)
	if !ok {
		t.Fatalf("expected *ast.InfoStmt, got %T", program.Statements[0])
	}
	if info.Text != "documents the following function" {
		t.Fatalf("unexpected info text: %q", info.Text)
	}
}

func TestParserErrorReporting(t *testing.T) {
	p := New(lexer.New("let = 5;", "<test>"))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for missing identifier after let")
	}
}
