// Package ebnf builds parsers from EBNF grammars.
//
// Grammars use the notation of golang.org/x/exp/ebnf. A production whose
// name starts with an upper-case letter is syntactic: whitespace is skipped
// before each of its terminals and before every lexical production it
// refers to, and it produces an interior Node. Any other production is
// lexical: it matches characters exactly and produces a leaf Node holding
// the matched text.
//
// Alternatives are ordered. The first alternative that matches wins, even
// if a later one would match more input.
package ebnf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	xebnf "golang.org/x/exp/ebnf"
)

var log = commonlog.GetLogger("parsnip.ebnf")

// Load reads a grammar file. When start is not empty the grammar is also
// verified from that production.
func Load(filename, start string) (xebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Read(filename, f, start)
}

// Read is Load for an already opened grammar.
func Read(filename string, r io.Reader, start string) (xebnf.Grammar, error) {
	grammar, err := xebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return grammar, nil
	}
	if err := xebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	log.Debugf("loaded %s: %d productions", filename, len(grammar))
	return grammar, nil
}

// Errors returns the individual errors of a grammar error. The grammar
// parser reports all problems of a file at once as a list.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() != reflect.Slice {
			continue
		}
		list := make([]error, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if item, ok := v.Index(i).Interface().(error); ok {
				list = append(list, item)
			}
		}
		return list
	}
	return []error{err}
}

// IsLexical reports whether the production name denotes a lexical
// production.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
