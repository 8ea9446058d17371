package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	fmtWrite bool
	fmtList  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format EARL source files",
	Long: `Format EARL source files by parsing them and re-emitting the AST's own
canonical String() form.

By default fmt formats the files named on the command line and writes the
result to standard output. If no path is given, it reads from standard
input.

Examples:
  earl fmt hello.earl
  earl fmt --write file1.earl file2.earl
  earl fmt -l *.earl`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVar(&fmtWrite, "write", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
}

func runFmt(_ *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use --write and -l together")
	}

	if len(args) == 0 {
		src, _, err := readSource(nil)
		if err != nil {
			return err
		}
		formatted, err := formatSource(src, "<stdin>")
		if err != nil {
			return err
		}
		fmt.Print(formatted)
		return nil
	}

	hasErrors := false
	for _, path := range args {
		if err := formatFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "earl fmt: %s: %v\n", path, err)
			hasErrors = true
		}
	}
	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	original := string(src)

	formatted, err := formatSource(original, path)
	if err != nil {
		return err
	}

	changed := formatted != original
	switch {
	case fmtList:
		if changed {
			fmt.Println(path)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				return err
			}
		}
	default:
		fmt.Print(formatted)
	}
	return nil
}

func formatSource(src, filename string) (string, error) {
	prog, ok := parseSource(src, filename)
	if !ok {
		return "", fmt.Errorf("parse error")
	}
	return prog.String() + "\n", nil
}
