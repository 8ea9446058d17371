package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// flagSet mirrors the closed CLI flag set one-to-one. It is
// populated by root's persistent flags and read by every subcommand that
// builds a RuntimeConfig.
type flagSet struct {
	withoutStdlib          bool
	replNoColor            bool
	watch                  bool
	showFuns               bool
	check                  bool
	toPy                   bool
	verbose                bool
	showBash               bool
	showLets               bool
	showMuts               bool
	noSanitizePipes        bool
	errorOnBashFail        bool
	suppressWarnings       bool
	disableImplicitReturns bool
	replTheme              string
	replWelcome            string
	include                []string
	importMods             []string
}

var flags flagSet

var rootCmd = &cobra.Command{
	Use:   "earl",
	Short: "EARL interpreter",
	Long: `earl is a Go implementation of the EARL scripting language: a small
dynamically-typed language with first-class functions, closures, classes,
modules, enums, and a rich intrinsic library.

This interpreter implements the core evaluator and runtime; the
source-to-Python transpiler and hot-reload file watcher are accepted as
flags for compatibility but are not implemented here (see "run --to-py").`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flags.withoutStdlib, "without-stdlib", false, "do not auto-import the standard library prelude")
	pf.BoolVar(&flags.replNoColor, "repl-nocolor", false, "disable REPL color output")
	pf.BoolVarP(&flags.watch, "watch", "w", false, "watch the source file and hot-reload on change (not available in this build)")
	pf.BoolVar(&flags.showFuns, "show-funs", false, "print every declared function signature before running")
	pf.BoolVarP(&flags.check, "check", "c", false, "parse only and report syntax errors, without evaluating anything")
	pf.BoolVar(&flags.toPy, "to-py", false, "transpile to Python instead of evaluating (not available in this build)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose diagnostic output")
	pf.BoolVar(&flags.showBash, "show-bash", false, "print bash-literal blocks before executing them")
	pf.BoolVar(&flags.showLets, "show-lets", false, "print each `let` binding as it is evaluated")
	pf.BoolVar(&flags.showMuts, "show-muts", false, "print each mutation as it is evaluated")
	pf.BoolVar(&flags.noSanitizePipes, "no-sanitize-pipes", false, "do not sanitize shell pipe arguments")
	pf.BoolVar(&flags.errorOnBashFail, "error-on-bash-fail", false, "treat a nonzero shell exit status as a fatal error")
	pf.BoolVar(&flags.suppressWarnings, "suppress-warnings", false, "suppress experimental-access warnings")
	pf.StringSliceVar(&flags.include, "include", nil, "additional module include directories (comma-separated)")
	pf.StringSliceVar(&flags.importMods, "import", nil, "modules to import automatically before running the entrypoint")
	pf.StringVar(&flags.replTheme, "repl-theme", "", "REPL color theme name")
	pf.StringVar(&flags.replWelcome, "repl-welcome", "", "REPL welcome banner text")
	pf.BoolVar(&flags.disableImplicitReturns, "disable-implicit-returns", false, "require an explicit `return` in every function body")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
