package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse an EARL file without running it",
	Long: `Parse an EARL program without executing its top-level statements.
Exits nonzero on any syntax error. This is the subcommand form of the
global --check/-c flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: checkScript,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkScript(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	if _, ok := parseSource(src, filename); !ok {
		return fmt.Errorf("check failed")
	}
	fmt.Printf("%s: OK\n", displayName(filename))
	return nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<stdin>"
	}
	return filename
}
