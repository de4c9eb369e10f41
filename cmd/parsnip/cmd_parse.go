package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/ebnf"
	"github.com/dhamidi/parsnip/lsp"
	"github.com/dhamidi/parsnip/parse"
	"github.com/dhamidi/parsnip/trace"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var tracing bool

	cmd := &cobra.Command{
		Use:           "parse <file>",
		Short:         "Parse a file with the grammar and print its syntax tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			p, err := loadGrammar(cmd.ErrOrStderr(), ebnf.WithNamedProductions())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			text := string(data)

			popts := []parse.Option{parse.WithCancel(cmd.Context())}
			if tracing {
				popts = append(popts, parse.WithTracer(trace.New("parsnip.parse")))
			}
			node, ok, err := parse.TryParse(p, text, popts...)
			if err != nil {
				return fmt.Errorf("%s:%w", filename, err)
			}
			if !ok {
				for _, d := range lsp.Diagnose(cmd.Context(), p, text) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", filename, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Message)
				}
				return reported{fmt.Errorf("parse %s: no match", filename)}
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				if err := node.Format(out); err != nil {
					return fmt.Errorf("format tree: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&tracing, "trace", false, "log every production entered and left (needs -vv)")

	return cmd
}
