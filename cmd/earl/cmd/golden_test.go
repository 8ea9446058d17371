package cmd

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-earl/internal/interp"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGoldenScenarios runs small whole programs through the same
// interp.Interpreter entry point the `run` subcommand uses, and
// snapshots stdout via go-snaps.
func TestGoldenScenarios(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{"arithmetic", `let x = 3; println(x + 4);`},
		{"list_filter", `let l = [1,2,3,4]; println(l.filter(|e| e % 2 == 0));`},
		{"recursive_factorial", `fn fact(n) { if n <= 1 { return 1; } return n * fact(n-1); } println(fact(5));`},
		{"string_substr", `let s = "hello"; println(s.substr(0, 4));`},
		{"class_method_dispatch", `class Pt(x, y) { fn sum() { return this.x + this.y; } } let p = Pt(3, 4); println(p.sum());`},
		{"option_match", `let o = some(9); match o { when some(v) -> println(v); when none -> println("n"); }`},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			prog, ok := parseSource(sc.src, "<golden>")
			if !ok {
				t.Fatalf("failed to parse scenario %q", sc.name)
			}

			var buf bytes.Buffer
			in := interp.NewInterpreterWithOutput(&buf)
			if _, err := in.RunProgram(prog, "<golden>"); err != nil {
				t.Fatalf("evaluation error for %q: %v", sc.name, err)
			}

			snaps.MatchSnapshot(t, buf.String())
		})
	}
}
