package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/dhamidi/parsnip/compile"
	"github.com/dhamidi/parsnip/ebnf"
	"github.com/dhamidi/parsnip/parse"
)

// loadGrammar builds the parser selected by the grammar, start and compiled
// settings. Grammar errors are listed on w.
func loadGrammar(w io.Writer, opts ...ebnf.Option) (parse.Parser[*ebnf.Node], error) {
	p, err := buildGrammar(w, opts...)
	if err != nil || !viper.GetBool("compiled") {
		return p, err
	}
	c, err := compile.Compile(p)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// buildGrammar is loadGrammar without compilation.
func buildGrammar(w io.Writer, opts ...ebnf.Option) (parse.Parser[*ebnf.Node], error) {
	filename := viper.GetString("grammar")
	start := viper.GetString("start")
	if filename == "" {
		return nil, errors.New("no grammar given (use --grammar or PARSNIP_GRAMMAR)")
	}
	if start == "" {
		return nil, errors.New("no start production given (use --start or PARSNIP_START)")
	}

	grammar, err := ebnf.Load(filename, start)
	if err != nil {
		printErrors(w, err)
		return nil, reported{err}
	}
	p, err := ebnf.Build(grammar, start, opts...)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", filename, err)
	}
	return p, nil
}

func printErrors(w io.Writer, err error) {
	for _, e := range ebnf.Errors(err) {
		fmt.Fprintln(w, e)
	}
}
