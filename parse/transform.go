package parse

import "fmt"

type thenParser[T, U any] struct {
	p  Parser[T]
	fn func(T) U
}

// Then converts the value of p with fn. The span is unchanged.
func Then[T, U any](p Parser[T], fn func(T) U) Parser[U] {
	mustParser(p, "Then")
	if fn == nil {
		panic("parse.Then: nil function")
	}
	return &thenParser[T, U]{p: p, fn: fn}
}

// ThenValue replaces the value of p with v.
func ThenValue[T, U any](p Parser[T], v U) Parser[U] {
	return Then(p, func(T) U { return v })
}

func (p *thenParser[T, U]) Parse(ctx *Context, r *Result[U]) bool {
	var inner Result[T]
	if !p.p.Parse(ctx, &inner) {
		return false
	}
	r.Set(inner.Start, inner.End, p.fn(inner.Value))
	return true
}

func (p *thenParser[T, U]) Leading() ([]rune, bool, bool) { return leadingOf(p.p) }

func (p *thenParser[T, U]) Lower(e *Emitter) Fragment {
	f := LowerParser(e, p.p)
	value := e.Declare("then_val", KindValue)
	skip := e.NewLabel()
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: skip})
	e.Emit(Op{Code: OpMap, A: value, B: f.Value, Map: func(v any) any { return p.fn(As[T](v)) }})
	e.Bind(skip)
	return Fragment{Ok: f.Ok, Value: value, Start: f.Start, End: f.End}
}

type thenSpanParser[T, U any] struct {
	p  Parser[T]
	fn func(start, end int, v T) U
}

// ThenSpan is Then with access to the span of the match.
func ThenSpan[T, U any](p Parser[T], fn func(start, end int, v T) U) Parser[U] {
	mustParser(p, "ThenSpan")
	if fn == nil {
		panic("parse.ThenSpan: nil function")
	}
	return &thenSpanParser[T, U]{p: p, fn: fn}
}

func (p *thenSpanParser[T, U]) Parse(ctx *Context, r *Result[U]) bool {
	var inner Result[T]
	if !p.p.Parse(ctx, &inner) {
		return false
	}
	r.Set(inner.Start, inner.End, p.fn(inner.Start, inner.End, inner.Value))
	return true
}

func (p *thenSpanParser[T, U]) Leading() ([]rune, bool, bool) { return leadingOf(p.p) }

func (p *thenSpanParser[T, U]) Lower(e *Emitter) Fragment {
	f := LowerParser(e, p.p)
	value := e.Declare("thenspan_val", KindValue)
	skip := e.NewLabel()
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: skip})
	e.Emit(Op{
		Code: OpMapSpan, A: value, B: f.Value, C: f.Start, D: f.End,
		MapSpan: func(_ *Context, start, end int, v any) any {
			return p.fn(start, end, As[T](v))
		},
	})
	e.Bind(skip)
	return Fragment{Ok: f.Ok, Value: value, Start: f.Start, End: f.End}
}

type whenParser[T any] struct {
	p    Parser[T]
	pred func(T) bool
}

// When succeeds only if p succeeds and pred accepts its value. A rejected
// value leaves the cursor where p stopped; enclosing combinators restore it.
func When[T any](p Parser[T], pred func(T) bool) Parser[T] {
	mustParser(p, "When")
	if pred == nil {
		panic("parse.When: nil predicate")
	}
	return &whenParser[T]{p: p, pred: pred}
}

func (p *whenParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	if !p.p.Parse(ctx, r) {
		return false
	}
	return p.pred(r.Value)
}

func (p *whenParser[T]) Leading() ([]rune, bool, bool) { return leadingOf(p.p) }

func (p *whenParser[T]) Lower(e *Emitter) Fragment {
	f := LowerParser(e, p.p)
	ok := e.Declare("when_ok", KindBool)
	skip := e.NewLabel()
	e.Emit(Op{Code: OpCopy, A: ok, B: f.Ok})
	e.Emit(Op{Code: OpJumpIfNot, A: ok, Target: skip})
	e.Emit(Op{Code: OpTest, A: ok, B: f.Value, Test: func(v any) bool { return p.pred(As[T](v)) }})
	e.Bind(skip)
	return Fragment{Ok: ok, Value: f.Value, Start: f.Start, End: f.End}
}

type notParser[T any] struct {
	p Parser[T]
}

// Not succeeds without consuming input when p fails, and fails when p
// succeeds.
func Not[T any](p Parser[T]) Parser[Unit] {
	mustParser(p, "Not")
	return &notParser[T]{p: p}
}

func (p *notParser[T]) Parse(ctx *Context, r *Result[Unit]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var inner Result[T]
	matched := p.p.Parse(ctx, &inner)
	c.ResetTo(start)
	if matched {
		return false
	}
	r.Set(start.Offset, start.Offset, Unit{})
	return true
}

func (p *notParser[T]) Lower(e *Emitter) Fragment {
	r := e.Result("not")
	start := e.Declare("not_pos", KindPos)
	e.Emit(Op{Code: OpMark, A: start})
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpCopy, A: r.Ok, B: f.Ok})
	e.Emit(Op{Code: OpNot, A: r.Ok})
	e.Emit(Op{Code: OpConst, A: r.Value, Value: Unit{}})
	e.Emit(Op{Code: OpOffset, A: r.Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: r.Start})
	return r
}

type captureParser[T any] struct {
	p Parser[T]
}

// Capture produces the input text matched by p.
func Capture[T any](p Parser[T]) Parser[string] {
	mustParser(p, "Capture")
	return &captureParser[T]{p: p}
}

func (p *captureParser[T]) Parse(ctx *Context, r *Result[string]) bool {
	var inner Result[T]
	if !p.p.Parse(ctx, &inner) {
		return false
	}
	r.Set(inner.Start, inner.End, ctx.Cursor().Slice(inner.Start, inner.End))
	return true
}

func (p *captureParser[T]) Leading() ([]rune, bool, bool) { return leadingOf(p.p) }

func (p *captureParser[T]) Lower(e *Emitter) Fragment {
	f := LowerParser(e, p.p)
	value := e.Declare("capture_val", KindValue)
	skip := e.NewLabel()
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: skip})
	e.Emit(Op{
		Code: OpMapSpan, A: value, B: f.Value, C: f.Start, D: f.End,
		MapSpan: func(ctx *Context, start, end int, _ any) any {
			return ctx.Cursor().Slice(start, end)
		},
	})
	e.Bind(skip)
	return Fragment{Ok: f.Ok, Value: value, Start: f.Start, End: f.End}
}

type skipWSParser[T any] struct {
	p Parser[T]
}

// SkipWhitespace skips whitespace before p. On failure the whitespace is
// not consumed either. The span of the result is that of p.
func SkipWhitespace[T any](p Parser[T]) Parser[T] {
	mustParser(p, "SkipWhitespace")
	return &skipWSParser[T]{p: p}
}

func (p *skipWSParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	ctx.SkipWhitespace()
	if p.p.Parse(ctx, r) {
		return true
	}
	c.ResetTo(start)
	return false
}

func (p *skipWSParser[T]) Leading() ([]rune, bool, bool) {
	chars, skip, ok := leadingOf(p.p)
	if !ok || skip {
		// An inner skip already looks past whitespace.
		return chars, skip, ok
	}
	return chars, true, true
}

func (p *skipWSParser[T]) Lower(e *Emitter) Fragment {
	start := e.Declare("ws_pos", KindPos)
	done := e.NewLabel()
	e.Emit(Op{Code: OpMark, A: start})
	e.Emit(Op{Code: OpSkipWS})
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpJumpIf, A: f.Ok, Target: done})
	e.Emit(Op{Code: OpReset, A: start})
	e.Bind(done)
	return f
}

type namedParser[T any] struct {
	name string
	p    Parser[T]
}

// Named labels p for tracing. The tracer of the Context sees an enter and an
// exit event around every attempt of p.
func Named[T any](name string, p Parser[T]) Parser[T] {
	mustParser(p, "Named")
	return &namedParser[T]{name: name, p: p}
}

func (p *namedParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	ctx.Enter(p.name)
	ok := p.p.Parse(ctx, r)
	ctx.Exit(p.name, ok)
	return ok
}

func (p *namedParser[T]) Leading() ([]rune, bool, bool) { return leadingOf(p.p) }

func (p *namedParser[T]) Lower(e *Emitter) Fragment {
	e.Emit(Op{Code: OpEnter, Name: p.name})
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpExit, A: f.Ok, Name: p.name})
	return f
}

func (p *namedParser[T]) String() string { return p.name }

type elseErrorParser[T any] struct {
	p       Parser[T]
	message string
}

// ElseError turns a failure of p into a structural error carrying message.
// The parse is abandoned; no enclosing alternative is tried. It is not
// Seekable: it must run on any leading character to raise its error.
func ElseError[T any](p Parser[T], message string) Parser[T] {
	mustParser(p, "ElseError")
	return &elseErrorParser[T]{p: p, message: message}
}

func (p *elseErrorParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	if !p.p.Parse(ctx, r) {
		ctx.Fail("%s", p.message)
	}
	return true
}

func (p *elseErrorParser[T]) Lower(e *Emitter) Fragment {
	f := LowerParser(e, p.p)
	ok := e.NewLabel()
	e.Emit(Op{Code: OpJumpIf, A: f.Ok, Target: ok})
	e.Emit(Op{Code: OpRaise, Name: p.message})
	e.Bind(ok)
	return f
}

type funcParser[T any] struct {
	fn func(ctx *Context, r *Result[T]) bool
}

// Func wraps a hand-written parse function. It must follow the same rules
// as any Parser: fill r and return true on success, restore the cursor and
// return false otherwise.
func Func[T any](fn func(ctx *Context, r *Result[T]) bool) Parser[T] {
	if fn == nil {
		panic("parse.Func: nil function")
	}
	return &funcParser[T]{fn: fn}
}

func (p *funcParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	return p.fn(ctx, r)
}

func (p *funcParser[T]) String() string { return fmt.Sprintf("func(%T)", p.fn) }
