package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhamidi/parsnip/ebnf"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "check [grammar]",
		Short:         "Parse and verify an EBNF grammar file",
		Long:          "Parse and verify an EBNF grammar file. Without --start only the syntax is checked.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := viper.GetString("grammar")
			if len(args) == 1 {
				filename = args[0]
			}
			if filename == "" {
				return fmt.Errorf("no grammar given")
			}
			start := viper.GetString("start")

			grammar, err := ebnf.Load(filename, start)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return reported{err}
			}
			if start != "" {
				if _, err := ebnf.Build(grammar, start); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return reported{err}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d productions\n", filename, len(grammar))
			return nil
		},
	}
}
