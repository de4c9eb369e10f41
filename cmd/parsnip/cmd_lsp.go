package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/ebnf"
	"github.com/dhamidi/parsnip/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server reporting parse errors for the grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadGrammar(cmd.ErrOrStderr(), ebnf.WithNamedProductions())
			if err != nil {
				return err
			}
			server := lsp.NewServer(p, version)
			return server.RunStdio()
		},
	}
}
