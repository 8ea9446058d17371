package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-earl/internal/ast"
	"github.com/cwbudde/go-earl/internal/config"
	earlerrors "github.com/cwbudde/go-earl/internal/errors"
	"github.com/cwbudde/go-earl/internal/interp"
	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/cwbudde/go-earl/internal/parser"
	"github.com/mattn/go-isatty"
)

// readSource loads program text either from a file argument or, if args is
// empty, from stdin. filename is "<stdin>" in the latter case.
func readSource(args []string) (src, filename string, err error) {
	if len(args) == 1 {
		filename = args[0]
		data, readErr := os.ReadFile(filename)
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", filename, readErr)
		}
		return string(data), filename, nil
	}
	data, readErr := readAll(os.Stdin)
	if readErr != nil {
		return "", "", readErr
	}
	return data, "<stdin>", nil
}

func readAll(f *os.File) (string, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := f.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}

// parseSource lexes and parses src, formatting and printing any parser
// errors through internal/errors.
func parseSource(src, filename string) (*ast.Program, bool) {
	l := lexer.New(src, filename)
	p := parser.New(l)
	prog := p.ParseProgram()

	if perrs := p.ParserErrors(); len(perrs) > 0 {
		compilerErrors := make([]*earlerrors.CompilerError, 0, len(perrs))
		for _, pe := range perrs {
			compilerErrors = append(compilerErrors, earlerrors.NewCompilerError(pe.Pos, pe.Message, src, filename))
		}
		fmt.Fprint(os.Stderr, earlerrors.FormatErrors(compilerErrors, wantColor()))
		fmt.Fprintln(os.Stderr)
		return nil, false
	}
	return prog, true
}

// wantColor resolves REPL/error coloring: --repl-nocolor forces it off,
// otherwise autodetect via go-isatty.
func wantColor() bool {
	if flags.replNoColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// buildRuntimeConfig translates the closed CLI flag set plus
// any `~/.earl` dotfile defaults into an interp.RuntimeConfig. Flags take
// precedence over the dotfile; the dotfile only fills in values the user
// didn't pass on the command line.
func buildRuntimeConfig() *interp.RuntimeConfig {
	cfg := interp.NewRuntimeConfig()

	if rc, err := config.LoadEarlRC(); err == nil {
		cfg.Include = rc.List("include")
		cfg.Import = rc.List("import")
		if rc.Bool("verbose") {
			flags.verbose = true
		}
	} else if flags.verbose {
		fmt.Fprintf(os.Stderr, "warning: ~/.earl: %s\n", err)
	}

	cfg.WithoutStdlib = flags.withoutStdlib
	cfg.ReplNoColor = flags.replNoColor
	cfg.Watch = flags.watch
	cfg.ShowFuns = flags.showFuns
	cfg.Check = flags.check
	cfg.ToPy = flags.toPy
	cfg.Verbose = flags.verbose
	cfg.ShowBash = flags.showBash
	cfg.ShowLets = flags.showLets
	cfg.ShowMuts = flags.showMuts
	cfg.NoSanitizePipes = flags.noSanitizePipes
	cfg.ErrorOnBashFail = flags.errorOnBashFail
	cfg.SuppressWarnings = flags.suppressWarnings
	cfg.DisableImplicitReturns = flags.disableImplicitReturns
	cfg.ReplTheme = flags.replTheme
	cfg.ReplWelcome = flags.replWelcome
	if len(flags.include) > 0 {
		cfg.Include = flags.include
	}
	if len(flags.importMods) > 0 {
		cfg.Import = flags.importMods
	}
	return cfg
}
