package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wisp/internal/diag"
	"wisp/internal/lexer"
	"wisp/internal/source"
	"wisp/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.wsp>",
	Short: "print the token stream for a wisp source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	file := fs.Get(fileID)

	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiag)
	lx := lexer.New(file, bag)

	out := cmd.OutOrStdout()
	for {
		tok := lx.Next()
		fmt.Fprintf(out, "%-4d %-16s %q\n", tok.Line, tok.Kind, tok.Text)
		if tok.Kind == token.EOF {
			break
		}
	}

	if bag.HasErrors() {
		for _, d := range bag.Items() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Code, d.Message)
		}
		os.Exit(1)
	}
	return nil
}
