package parse

type zeroOrOne[T any] struct {
	p   Parser[T]
	def T
}

// ZeroOrOne always succeeds. When p fails it produces the zero value and an
// empty span at the current position.
func ZeroOrOne[T any](p Parser[T]) Parser[T] {
	var zero T
	return ZeroOrOneDefault(p, zero)
}

// ZeroOrOneDefault is ZeroOrOne with an explicit default value.
func ZeroOrOneDefault[T any](p Parser[T], def T) Parser[T] {
	mustParser(p, "ZeroOrOne")
	return &zeroOrOne[T]{p: p, def: def}
}

func (p *zeroOrOne[T]) Parse(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	if p.p.Parse(ctx, r) {
		return true
	}
	c.ResetTo(start)
	r.Set(start.Offset, start.Offset, p.def)
	return true
}

func (p *zeroOrOne[T]) Lower(e *Emitter) Fragment {
	r := e.Result("opt")
	start := e.Declare("opt_pos", KindPos)
	missing := e.NewLabel()
	done := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: missing})
	e.Emit(Op{Code: OpCopy, A: r.Value, B: f.Value})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(missing)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpConst, A: r.Value, Value: p.def})
	e.Emit(Op{Code: OpOffset, A: r.Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: r.Start})
	e.Bind(done)
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	return r
}

type many[T any] struct {
	p   Parser[T]
	min int
}

// ZeroOrMany matches p as many times as possible. An iteration that fails
// is rolled back; one that succeeds without consuming input ends the loop
// and is not included.
func ZeroOrMany[T any](p Parser[T]) Parser[[]T] {
	mustParser(p, "ZeroOrMany")
	return &many[T]{p: p}
}

// OneOrMany is ZeroOrMany requiring at least one element.
func OneOrMany[T any](p Parser[T]) Parser[[]T] {
	mustParser(p, "OneOrMany")
	return &many[T]{p: p, min: 1}
}

func (p *many[T]) Parse(ctx *Context, r *Result[[]T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var items []T
	from, to := start.Offset, start.Offset
	for {
		ctx.CheckCancel()
		before := c.Position()
		var item Result[T]
		if !p.p.Parse(ctx, &item) {
			c.ResetTo(before)
			break
		}
		if c.Offset() == before.Offset {
			break
		}
		if len(items) == 0 {
			from = item.Start
		}
		to = item.End
		items = append(items, item.Value)
	}
	if len(items) < p.min {
		c.ResetTo(start)
		return false
	}
	r.Set(from, to, items)
	return true
}

func (p *many[T]) Leading() ([]rune, bool, bool) {
	if p.min == 0 {
		return nil, false, false
	}
	return leadingOf(p.p)
}

func (p *many[T]) Lower(e *Emitter) Fragment {
	r := e.Result("many")
	start := e.Declare("many_pos", KindPos)
	before := e.Declare("many_iter", KindPos)
	seen := e.Declare("many_seen", KindBool)
	item := e.Declare("many_item", KindValue)
	loop := e.NewLabel()
	stop := e.NewLabel()
	end := e.NewLabel()
	fail := e.NewLabel()
	done := e.NewLabel()
	notFirst := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	e.Emit(Op{Code: OpConst, A: r.Value, Value: nil})
	e.Emit(Op{Code: OpSetBool, A: seen, Flag: false})
	e.Emit(Op{Code: OpOffset, A: r.Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: r.Start})

	e.Bind(loop)
	e.Emit(Op{Code: OpCheckCancel})
	e.Emit(Op{Code: OpMark, A: before})
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: stop})
	e.Emit(Op{Code: OpJumpIfSame, A: before, Target: end})
	e.Emit(Op{Code: OpJumpIf, A: seen, Target: notFirst})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
	e.Emit(Op{Code: OpSetBool, A: seen, Flag: true})
	e.Bind(notFirst)
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpCopy, A: item, B: f.Value})
	e.Emit(Op{Code: OpAppend, A: r.Value, B: item, Append: appendTo[T]})
	e.Emit(Op{Code: OpJump, Target: loop})

	e.Bind(stop)
	e.Emit(Op{Code: OpReset, A: before})
	e.Bind(end)
	if p.min > 0 {
		e.Emit(Op{Code: OpJumpIfNot, A: seen, Target: fail})
	}
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(fail)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Bind(done)
	return r
}

func appendTo[T any](list, v any) any {
	return append(As[[]T](list), As[T](v))
}

type separated[S, T any] struct {
	sep Parser[S]
	p   Parser[T]
}

// Separated matches one or more p separated by sep. A separator that is not
// followed by an element is not consumed.
func Separated[S, T any](sep Parser[S], p Parser[T]) Parser[[]T] {
	mustParser(sep, "Separated")
	mustParser(p, "Separated")
	return &separated[S, T]{sep: sep, p: p}
}

func (p *separated[S, T]) Parse(ctx *Context, r *Result[[]T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var first Result[T]
	if !p.p.Parse(ctx, &first) {
		c.ResetTo(start)
		return false
	}
	items := []T{first.Value}
	to := first.End
	for {
		ctx.CheckCancel()
		before := c.Position()
		var sep Result[S]
		if !p.sep.Parse(ctx, &sep) {
			c.ResetTo(before)
			break
		}
		var item Result[T]
		if !p.p.Parse(ctx, &item) {
			c.ResetTo(before)
			break
		}
		if c.Offset() == before.Offset {
			break
		}
		to = item.End
		items = append(items, item.Value)
	}
	r.Set(first.Start, to, items)
	return true
}

func (p *separated[S, T]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p)
}

func (p *separated[S, T]) Lower(e *Emitter) Fragment {
	r := e.Result("sep")
	start := e.Declare("sep_pos", KindPos)
	before := e.Declare("sep_iter", KindPos)
	item := e.Declare("sep_item", KindValue)
	loop := e.NewLabel()
	rollback := e.NewLabel()
	end := e.NewLabel()
	fail := e.NewLabel()
	done := e.NewLabel()

	// The element parser is emitted once: the first pass through the body
	// handles the leading element, later passes come from the separator.
	first := e.Declare("sep_first", KindBool)
	body := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	e.Emit(Op{Code: OpConst, A: r.Value, Value: nil})
	e.Emit(Op{Code: OpSetBool, A: first, Flag: true})
	e.Emit(Op{Code: OpMark, A: before})
	e.Emit(Op{Code: OpJump, Target: body})

	e.Bind(loop)
	e.Emit(Op{Code: OpCheckCancel})
	e.Emit(Op{Code: OpMark, A: before})
	s := LowerParser(e, p.sep)
	e.Emit(Op{Code: OpJumpIfNot, A: s.Ok, Target: rollback})

	e.Bind(body)
	f := LowerParser(e, p.p)
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: rollback})
	notFirst := e.NewLabel()
	e.Emit(Op{Code: OpJumpIfNot, A: first, Target: notFirst})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
	e.Emit(Op{Code: OpSetBool, A: first, Flag: false})
	appendItem := e.NewLabel()
	e.Emit(Op{Code: OpJump, Target: appendItem})
	e.Bind(notFirst)
	e.Emit(Op{Code: OpJumpIfSame, A: before, Target: end})
	e.Bind(appendItem)
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpCopy, A: item, B: f.Value})
	e.Emit(Op{Code: OpAppend, A: r.Value, B: item, Append: appendTo[T]})
	e.Emit(Op{Code: OpJump, Target: loop})

	e.Bind(rollback)
	e.Emit(Op{Code: OpJumpIf, A: first, Target: fail})
	e.Emit(Op{Code: OpReset, A: before})
	e.Bind(end)
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(fail)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Bind(done)
	return r
}
