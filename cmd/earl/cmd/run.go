package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-earl/internal/ast"
	earlerrors "github.com/cwbudde/go-earl/internal/errors"
	"github.com/cwbudde/go-earl/internal/interp"
	"github.com/spf13/cobra"
)

var dumpAST bool

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an EARL script",
	Long: `Execute an EARL program from a file, or from stdin if no file is given.

Examples:
  # Run a script file
  earl run script.earl

  # Run from stdin
  cat script.earl | earl run

  # Run with every declared function signature printed first
  earl run --show-funs script.earl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
}

func runScript(_ *cobra.Command, args []string) error {
	if flags.toPy {
		fmt.Fprintln(os.Stderr, "earl: --to-py is accepted for compatibility but the transpiler is not available in this build")
	}
	if flags.watch {
		fmt.Fprintln(os.Stderr, "earl: --watch is accepted for compatibility but the hot-reload file watcher is not available in this build")
	}

	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, ok := parseSource(src, filename)
	if !ok {
		return fmt.Errorf("parsing failed")
	}

	if dumpAST {
		fmt.Println(prog.String())
		fmt.Println()
	}

	if flags.showFuns {
		printDeclaredFunctions(prog)
	}

	if flags.check {
		fmt.Printf("%s: OK\n", displayName(filename))
		return nil
	}

	in := interp.NewInterpreter()
	in.Config = buildRuntimeConfig()

	_, runErr := in.RunProgram(prog, filename)
	if runErr != nil {
		re, ok := runErr.(*interp.RuntimeError)
		if !ok {
			return runErr
		}
		ce := earlerrors.NewCompilerError(re.Pos, re.Error(), src, filename)
		fmt.Fprint(os.Stderr, ce.FormatWithContext(2, wantColor()))
		fmt.Fprintln(os.Stderr)
		if flags.verbose && len(re.Trace) > 0 {
			fmt.Fprintln(os.Stderr, "call stack:")
			fmt.Fprintln(os.Stderr, re.Trace.String())
		}
		return fmt.Errorf("runtime error")
	}
	return nil
}

// printDeclaredFunctions statically scans the program's top-level
// statements for `fn` declarations and prints each signature before
// execution begins (`--show-funs`). It does not descend into
// class bodies or nested blocks; those signatures are only known once the
// enclosing scope runs.
func printDeclaredFunctions(prog *ast.Program) {
	fmt.Fprintln(os.Stderr, "Declared functions:")
	for _, stmt := range prog.Statements {
		fn, ok := stmt.(*ast.FuncDeclStmt)
		if !ok {
			continue
		}
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.String()
		}
		fmt.Fprintf(os.Stderr, "  %sfn %s(%s)\n", fn.Attrs.String(), fn.Name, strings.Join(params, ", "))
	}
}
