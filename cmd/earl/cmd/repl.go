package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	earlerrors "github.com/cwbudde/go-earl/internal/errors"
	"github.com/cwbudde/go-earl/internal/interp"
	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/cwbudde/go-earl/internal/parser"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive EARL REPL",
	Long: `Start an interactive read-eval-print loop.

Each accepted statement is evaluated against a single persistent World
context: the REPL drives eval_stmt turn by turn rather than mutating the
World's program vector. Hot-reload/file-watch is not offered here even
though --watch is accepted by the root command for compatibility.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// replBalance tracks bracket nesting across lines so multi-line block
// statements (fn/if/while/class bodies) can be entered across several
// lines before the REPL attempts to parse and evaluate them.
func replBalance(s string, depth int) int {
	for _, r := range s {
		switch r {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return depth
}

func runRepl(_ *cobra.Command, _ []string) error {
	color := wantColor()
	in := interp.NewInterpreter()
	in.Config = buildRuntimeConfig()
	world := interp.NewWorldContext("<repl>")

	welcome := flags.replWelcome
	if welcome == "" {
		welcome = "EARL REPL. Type an expression or statement; Ctrl-D to exit."
	}
	fmt.Println(welcome)

	scanner := bufio.NewScanner(os.Stdin)
	prompt := "earl> "
	contPrompt := "....> "

	var buf strings.Builder
	depth := 0

	fmt.Print(prompt)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteString("\n")
		depth = replBalance(line, depth)

		if depth > 0 {
			fmt.Print(contPrompt)
			continue
		}

		src := buf.String()
		buf.Reset()
		depth = 0

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			fmt.Print(prompt)
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			return nil
		}

		evalReplTurn(in, world, src, color)
		fmt.Print(prompt)
	}
	fmt.Println()
	return scanner.Err()
}

// evalReplTurn lexes, parses, and evaluates one REPL turn against the
// persistent world, printing the resulting value (unless Unit) or any
// error.
func evalReplTurn(in *interp.Interpreter, world *interp.Context, src string, color bool) {
	l := lexer.New(src, "<repl>")
	p := parser.New(l)
	prog := p.ParseProgram()

	if perrs := p.ParserErrors(); len(perrs) > 0 {
		compilerErrors := make([]*earlerrors.CompilerError, 0, len(perrs))
		for _, pe := range perrs {
			compilerErrors = append(compilerErrors, earlerrors.NewCompilerError(pe.Pos, pe.Message, src, "<repl>"))
		}
		fmt.Fprint(os.Stderr, earlerrors.FormatErrors(compilerErrors, color))
		fmt.Fprintln(os.Stderr)
		return
	}

	val, err := in.RunProgramIn(prog, world)
	if err != nil {
		re, ok := err.(*interp.RuntimeError)
		if !ok {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		ce := earlerrors.NewCompilerError(re.Pos, re.Error(), src, "<repl>")
		fmt.Fprint(os.Stderr, ce.Format(color))
		fmt.Fprintln(os.Stderr)
		return
	}
	if val != nil && val.Type() != "unit" {
		fmt.Println(val.String())
	}
}
