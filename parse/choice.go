package parse

// Choice tries alternatives in order and commits to the first success.
type Choice[T any] struct {
	alts     []Parser[T]
	dispatch *Dispatch
}

// OneOf builds an ordered choice. When every alternative is Seekable the
// choice looks up the leading character to skip alternatives that cannot
// match; the outcome is the same as trying them all in order.
func OneOf[T any](alts ...Parser[T]) *Choice[T] {
	if len(alts) == 0 {
		panic("parse.OneOf: no alternatives")
	}
	erased := make([]any, len(alts))
	for i, alt := range alts {
		mustParser(alt, "OneOf")
		erased[i] = alt
	}
	return &Choice[T]{alts: alts, dispatch: NewDispatch(erased)}
}

// Linear returns the same choice without character dispatch.
func (p *Choice[T]) Linear() *Choice[T] {
	return &Choice[T]{alts: p.alts}
}

// Dispatching reports whether the choice uses a dispatch table.
func (p *Choice[T]) Dispatching() bool { return p.dispatch != nil }

func (p *Choice[T]) Parse(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	if p.dispatch != nil {
		for _, i := range p.dispatch.Candidates(ctx.Scanner) {
			if p.alts[i].Parse(ctx, r) {
				return true
			}
			c.ResetTo(start)
		}
		return false
	}
	for _, alt := range p.alts {
		if alt.Parse(ctx, r) {
			return true
		}
		c.ResetTo(start)
	}
	return false
}

// Leading is the union of the alternatives' characters when they agree on
// whitespace skipping.
func (p *Choice[T]) Leading() ([]rune, bool, bool) {
	var all []rune
	var skip bool
	for i, alt := range p.alts {
		chars, s, ok := leadingOf(alt)
		if !ok {
			return nil, false, false
		}
		if i > 0 && s != skip {
			return nil, false, false
		}
		skip = s
		all = append(all, chars...)
	}
	return all, skip, true
}

func (p *Choice[T]) Lower(e *Emitter) Fragment {
	r := e.Result("oneof")
	start := e.Declare("oneof_pos", KindPos)
	done := e.NewLabel()
	e.Emit(Op{Code: OpMark, A: start})

	win := func(f Fragment) {
		e.Emit(Op{Code: OpCopy, A: r.Value, B: f.Value})
		e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
		e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
		e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
		e.Emit(Op{Code: OpJump, Target: done})
	}

	if p.dispatch == nil {
		for _, alt := range p.alts {
			next := e.NewLabel()
			f := LowerParser(e, alt)
			e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: next})
			win(f)
			e.Bind(next)
			e.Emit(Op{Code: OpReset, A: start})
		}
		e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
		e.Bind(done)
		return r
	}

	cases := e.Declare("oneof_cases", KindCases)
	loop := e.NewLabel()
	retry := e.NewLabel()
	fail := e.NewLabel()
	targets := make([]Label, len(p.alts))
	for i := range targets {
		targets[i] = e.NewLabel()
	}
	e.Emit(Op{Code: OpDispatch, A: cases, Dispatch: p.dispatch})
	e.Bind(loop)
	e.Emit(Op{Code: OpNextCase, A: cases, Targets: targets, Target: fail})
	for i, alt := range p.alts {
		e.Bind(targets[i])
		f := LowerParser(e, alt)
		e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: retry})
		win(f)
	}
	e.Bind(retry)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpJump, Target: loop})
	e.Bind(fail)
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Bind(done)
	return r
}
