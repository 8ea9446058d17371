package cmd

import (
	"fmt"

	"github.com/cwbudde/go-earl/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos  bool
	lexOnlyErr  bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an EARL file and print the resulting tokens",
	Long: `Tokenize (lex) an EARL program and print the resulting token stream.

Examples:
  # Tokenize a script file
  earl lex script.earl

  # Show token positions
  earl lex --show-pos script.earl

  # Show only illegal tokens
  earl lex --only-errors script.earl`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexOnlyErr, "only-errors", false, "show only illegal tokens")
}

func lexScript(_ *cobra.Command, args []string) error {
	src, filename, err := readSource(args)
	if err != nil {
		return err
	}

	l := lexer.New(src, filename)
	tokenCount, errorCount := 0, 0
	for {
		tok := l.NextToken()
		isIllegal := tok.Type == lexer.ILLEGAL

		if !lexOnlyErr || isIllegal {
			tokenCount++
			if isIllegal {
				errorCount++
			}
			printLexToken(tok)
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	if flags.verbose {
		fmt.Printf("---\ntotal tokens: %d, errors: %d\n", tokenCount, errorCount)
	}
	if lexOnlyErr && errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printLexToken(tok lexer.Token) {
	var out string
	switch {
	case tok.Type == lexer.EOF:
		out = "[EOF]"
	case tok.Type == lexer.ILLEGAL:
		out = fmt.Sprintf("[ILLEGAL] %q", tok.Literal)
	default:
		out = fmt.Sprintf("[%-12s] %q", tok.Type, tok.Literal)
	}
	if lexShowPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}
