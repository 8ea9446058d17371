package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseAsText bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an EARL file and print its AST",
	Long: `Parse an EARL program and print the resulting AST.

By default the tree is serialized as YAML (structured, diffable). Pass
--text for the statements' own String() rendering instead.

Examples:
  earl parse script.earl
  earl parse --text script.earl`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseAsText, "text", false, "print the AST's own String() form instead of YAML")
}

func parseScript(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	prog, ok := parseSource(src, filename)
	if !ok {
		return fmt.Errorf("parsing failed")
	}

	if parseAsText {
		fmt.Println(prog.String())
		return nil
	}

	out, err := yaml.Marshal(prog)
	if err != nil {
		return fmt.Errorf("failed to marshal AST as YAML: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
