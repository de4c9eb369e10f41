// Package parse is a parser combinator library.
//
// A grammar is a graph of values implementing Parser[T], built once with the
// constructor functions of this package and reused, read-only, by any
// number of concurrent parse calls. Each call owns its Context.
//
// # Contract
//
// Parse(ctx, r) either returns true and fills r with the span and value of
// the match, or returns false. Except for When, a parser that returns false
// leaves the cursor where it found it. Choice is ordered: the first
// alternative that succeeds wins.
//
// # Capabilities
//
// Parsers opt into optimizations by implementing extra interfaces:
// Seekable lets OneOf dispatch on the leading character, Compilable lets
// the compile package lower the parser into its intermediate form.
package parse

import "fmt"

// Result is filled by a successful Parse. It is passed by pointer so that
// a call chain can reuse the same storage.
type Result[T any] struct {
	Start int
	End   int
	Value T
}

// Set fills all fields of r.
func (r *Result[T]) Set(start, end int, value T) {
	r.Start = start
	r.End = end
	r.Value = value
}

// Parser is implemented by every grammar node.
type Parser[T any] interface {
	Parse(ctx *Context, r *Result[T]) bool
}

// Unit is the value of parsers that only recognize input.
type Unit struct{}

func mustParser[T any](p Parser[T], combinator string) {
	if p == nil {
		panic(fmt.Sprintf("parse.%s: nil parser", combinator))
	}
}
