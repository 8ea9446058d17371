package interp

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/cwbudde/go-earl/internal/parser"
)

// runSource lexes, parses, and evaluates src against a fresh Interpreter,
// returning everything written to stdout. Parser errors fail the test
// immediately.
func runSource(t *testing.T, src string) string {
	t.Helper()

	l := lexer.New(src, "<test>")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "\n"))
	}

	var buf bytes.Buffer
	in := NewInterpreterWithOutput(&buf)
	if _, err := in.RunProgram(program, "<test>"); err != nil {
		t.Fatalf("evaluation error: %v", err)
	}
	return buf.String()
}

// TestEndToEndScenarios drives small whole programs through the
// interpreter and checks their stdout.
func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic and println",
			src:  `let x = 3; println(x + 4);`,
			want: "7\n",
		},
		{
			name: "list filter with a lambda",
			src:  `let l = [1,2,3,4]; println(l.filter(|e| e % 2 == 0));`,
			want: "[2, 4]\n",
		},
		{
			name: "recursive function",
			src:  `fn fact(n) { if n <= 1 { return 1; } return n * fact(n-1); } println(fact(5));`,
			want: "120\n",
		},
		{
			name: "string substr",
			src:  `let s = "hello"; println(s.substr(0, 4));`,
			want: "hell\n",
		},
		{
			name: "class method dispatch via this",
			src:  `class Pt(x, y) { fn sum() { return this.x + this.y; } } let p = Pt(3, 4); println(p.sum());`,
			want: "7\n",
		},
		{
			name: "option match",
			src:  `let o = some(9); match o { when some(v) -> println(v); when none -> println("n"); }`,
			want: "9\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runSource(t, tt.src)
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	src := `
		let base = 10;
		let add = |x| x + base;
		println(add(5));
	`
	if got, want := runSource(t, src), "15\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	src := `
		let i = 0;
		while true {
			i += 1;
			if i == 3 {
				continue;
			}
			if i > 5 {
				break;
			}
			println(i);
		}
	`
	want := "1\n2\n4\n5\n"
	if got := runSource(t, src); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestForeachOverList(t *testing.T) {
	src := `
		let total = 0;
		foreach e in [1, 2, 3, 4] {
			total += e;
		}
		println(total);
	`
	if got, want := runSource(t, src), "10\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConstAssignmentFails(t *testing.T) {
	l := lexer.New(`@const let x = 1; x = 2;`, "<test>")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "\n"))
	}

	var buf bytes.Buffer
	in := NewInterpreterWithOutput(&buf)
	_, err := in.RunProgram(program, "<test>")
	if err == nil {
		t.Fatal("expected an error assigning to a const binding")
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if re.Kind != KindFatal {
		t.Errorf("Kind = %s, want %s", re.Kind, KindFatal)
	}
}

func TestUndeclaredIdentifierFails(t *testing.T) {
	l := lexer.New(`println(nope);`, "<test>")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "\n"))
	}

	var buf bytes.Buffer
	in := NewInterpreterWithOutput(&buf)
	_, err := in.RunProgram(program, "<test>")
	if err == nil {
		t.Fatal("expected an undeclared-identifier error")
	}
}

func TestRefParameterMutatesCaller(t *testing.T) {
	src := `
		fn bump(ref n) {
			n += 1;
		}
		let x = 1;
		bump(x);
		println(x);
	`
	if got, want := runSource(t, src), "2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestObserveCallbackRunsPerMutation(t *testing.T) {
	src := `
		let x = 0;
		observe(x, |v| println(v));
		x = 1;
		x += 2;
	`
	if got, want := runSource(t, src), "1\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	src := `
		let a = [1, 2];
		let b = copy(a);
		b.append(3);
		println(a);
		println(b);
	`
	if got, want := runSource(t, src), "[1, 2]\n[1, 2, 3]\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestOptionRoundTrips(t *testing.T) {
	src := `
		println(some(5).unwrap());
		println(none.is_none());
		println(none.unwrap_or(7));
	`
	if got, want := runSource(t, src), "5\ntrue\n7\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestIntStrRoundTrip(t *testing.T) {
	src := `
		println(int(str(42)) == 42);
		println(str(int("17")));
	`
	if got, want := runSource(t, src), "true\n17\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDictInsertLookupIndex(t *testing.T) {
	src := `
		let d = Dict(typeof(0));
		d.insert(1, "a");
		d.insert(2, "b");
		println(d.has_key(1));
		println(d.has_value("b"));
		println(d[1]);
		println(d.empty());
	`
	if got, want := runSource(t, src), "true\ntrue\na\nfalse\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDictKeyKindEnforced(t *testing.T) {
	src := `let d = Dict(typeof(0)); d.insert("nope", 1);`
	l := lexer.New(src, "<test>")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "\n"))
	}
	in := NewInterpreterWithOutput(&bytes.Buffer{})
	if _, err := in.RunProgram(program, "<test>"); err == nil {
		t.Fatal("expected a key-kind mismatch error")
	}
}

func TestEnumMatch(t *testing.T) {
	src := `
		enum Color { Red, Green, Blue }
		let c = Color.Green;
		match c {
			when Color.Red -> println("r");
			when Color.Green -> println("g");
			else -> println("?");
		}
	`
	if got, want := runSource(t, src), "g\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPredicateMatchArm(t *testing.T) {
	src := `
		match 7 {
			when < 5 -> println("small");
			else -> println("big");
		}
	`
	if got, want := runSource(t, src), "big\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWithBindsOverBody(t *testing.T) {
	src := `
		with a = 1, b = 2 {
			println(a + b);
		}
	`
	if got, want := runSource(t, src), "3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTryCatchBindsMessage(t *testing.T) {
	src := `
		try {
			panic("boom");
		} catch e {
			println(e);
		}
	`
	if got, want := runSource(t, src), "boom\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFStringInterpolation(t *testing.T) {
	src := `
		let name = "earl";
		let n = 3;
		println(f"hi {name}, n+1 is {n + 1}");
	`
	if got, want := runSource(t, src), "hi earl, n+1 is 4\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestForRangeLoop(t *testing.T) {
	src := `
		for i in 0..3 {
			println(i);
		}
	`
	if got, want := runSource(t, src), "0\n1\n2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestStringIndexAndSlice(t *testing.T) {
	src := `
		let s = "hello";
		println(s[1]);
		println(s[1:3]);
		println(s[:2]);
	`
	if got, want := runSource(t, src), "e\nel\nhe\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestImportIdempotenceAndPubVisibility(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.earl")
	module := "@pub let v = 1;\nlet hidden = 2;\n"
	if err := os.WriteFile(path, []byte(module), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}

	src := fmt.Sprintf("import %q; import %q;\nprintln(m::v);", path, path)
	l := lexer.New(src, "<test>")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %s", strings.Join(errs, "\n"))
	}

	var buf bytes.Buffer
	in := NewInterpreterWithOutput(&buf)
	if _, err := in.RunProgram(program, "<test>"); err != nil {
		t.Fatalf("evaluation error: %v", err)
	}
	if got, want := buf.String(), "1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if len(in.ModuleCache) != 1 {
		t.Errorf("module cache has %d entries, want 1 (idempotent import)", len(in.ModuleCache))
	}

	hidden := fmt.Sprintf("import %q; println(m::hidden);", path)
	l = lexer.New(hidden, "<test>")
	p = parser.New(l)
	program = p.ParseProgram()
	in = NewInterpreterWithOutput(&bytes.Buffer{})
	if _, err := in.RunProgram(program, "<test>"); err == nil {
		t.Fatal("expected a visibility error for a non-pub binding")
	}
}

func TestScopeBalanceAcrossExitPaths(t *testing.T) {
	srcs := []string{
		`fn f() { return 1; } f();`,
		`while true { break; }`,
		`for i in 0..3 { continue; }`,
		`try { panic("x"); } catch e { }`,
	}
	for _, src := range srcs {
		l := lexer.New(src, "<test>")
		p := parser.New(l)
		program := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			t.Fatalf("parser errors for %q: %s", src, strings.Join(errs, "\n"))
		}
		world := NewWorldContext("<test>")
		depth := world.Scope.Depth()
		in := NewInterpreterWithOutput(&bytes.Buffer{})
		if _, err := in.RunProgramIn(program, world); err != nil {
			t.Fatalf("evaluation error for %q: %v", src, err)
		}
		if world.Scope.Depth() != depth {
			t.Errorf("scope depth after %q = %d, want %d", src, world.Scope.Depth(), depth)
		}
	}
}

func TestClassInstanceCopyIsIndependent(t *testing.T) {
	src := `
		class Counter(n) {
			fn get() { return this.n; }
		}
		let a = Counter(1);
		let b = copy(a);
		b.n = 5;
		println(a.get());
		println(b.get());
	`
	if got, want := runSource(t, src), "1\n5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
