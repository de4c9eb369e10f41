// Package compile turns a parser graph into a Program and runs it.
//
// A compiled parser accepts exactly the inputs of its source graph and
// produces the same values and spans. It trades the virtual calls of the
// interpreted graph for a flat instruction stream and is the form handed
// to code generators.
package compile

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/parse"
)

var log = commonlog.GetLogger("parsnip.compile")

// Compiled is a parser backed by a lowered Program.
type Compiled[T any] struct {
	prog *parse.Program
}

// Compile lowers p. It fails when p refers to a Deferred that was never
// Set or when the lowering produced an unbound label.
func Compile[T any](p parse.Parser[T]) (*Compiled[T], error) {
	if p == nil {
		return nil, fmt.Errorf("compile: nil parser")
	}
	e := parse.NewEmitter("main")
	f := parse.LowerParser(e, p)
	prog, err := e.Finish(f)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	log.Debugf("compiled %d procedures, %d ops", len(prog.Procedures), countOps(prog))
	return &Compiled[T]{prog: prog}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile[T any](p parse.Parser[T]) *Compiled[T] {
	c, err := Compile(p)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Compiled[T]) Parse(ctx *parse.Context, r *parse.Result[T]) bool {
	m := machine{ctx: ctx, prog: c.prog}
	out := m.call(c.prog.Entry)
	if !out.ok {
		return false
	}
	r.Set(out.start, out.end, parse.As[T](out.value))
	return true
}

// Program returns the lowered form. It must not be modified.
func (c *Compiled[T]) Program() *parse.Program { return c.prog }

func (c *Compiled[T]) String() string { return Listing(c.prog) }

func countOps(prog *parse.Program) int {
	n := 0
	for _, proc := range prog.Procedures {
		n += len(proc.Ops)
	}
	return n
}
