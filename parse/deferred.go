package parse

// Deferred is a parser whose definition is supplied after construction. It
// is how recursive grammars are tied together: create the Deferred, build
// the parsers that refer to it, then Set the definition.
type Deferred[T any] struct {
	name   string
	parser Parser[T]
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{name: "deferred"}
}

// NewDeferredNamed is NewDeferred with a name used in program listings.
func NewDeferredNamed[T any](name string) *Deferred[T] {
	return &Deferred[T]{name: name}
}

// Set supplies the definition. It may be called once.
func (d *Deferred[T]) Set(p Parser[T]) {
	mustParser(p, "Deferred.Set")
	if d.parser != nil {
		panic("parse.Deferred.Set: already set")
	}
	d.parser = p
}

// Recursive builds a parser that can refer to itself through self.
func Recursive[T any](build func(self Parser[T]) Parser[T]) *Deferred[T] {
	d := NewDeferred[T]()
	d.Set(build(d))
	return d
}

func (d *Deferred[T]) Parse(ctx *Context, r *Result[T]) bool {
	if d.parser == nil {
		panic("parse.Deferred: used before Set")
	}
	return d.parser.Parse(ctx, r)
}

func (d *Deferred[T]) Lower(e *Emitter) Fragment {
	r := e.Result("call")
	if d.parser == nil {
		e.Errorf("parse: deferred parser %q lowered before Set", d.name)
		e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
		return r
	}
	idx := e.Procedure(d, d.name, func(e *Emitter) Fragment {
		return LowerParser(e, d.parser)
	})
	e.Emit(Op{Code: OpCall, Proc: idx, A: r.Ok, B: r.Value, C: r.Start, D: r.End})
	return r
}

func (d *Deferred[T]) String() string { return d.name }
