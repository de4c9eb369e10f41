package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/compile"
	"github.com/dhamidi/parsnip/ebnf"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "dump",
		Short:        "Print the compiled program of the grammar",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := buildGrammar(cmd.ErrOrStderr(), ebnf.WithNamedProductions())
			if err != nil {
				return err
			}
			c, err := compile.Compile(p)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), compile.Listing(c.Program()))
			return nil
		},
	}
}
