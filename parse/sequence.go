package parse

// Every SeqN resets the cursor to where the sequence started when any of
// its children fails.

// Tuple2 holds the values of a 2-element sequence.
type Tuple2[T1, T2 any] struct {
	V1 T1
	V2 T2
}

// Tuple3 holds the values of a 3-element sequence.
type Tuple3[T1, T2, T3 any] struct {
	V1 T1
	V2 T2
	V3 T3
}

// Tuple4 holds the values of a 4-element sequence.
type Tuple4[T1, T2, T3, T4 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

// Tuple5 holds the values of a 5-element sequence.
type Tuple5[T1, T2, T3, T4, T5 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
}

// Tuple6 holds the values of a 6-element sequence.
type Tuple6[T1, T2, T3, T4, T5, T6 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
}

// Tuple7 holds the values of a 7-element sequence.
type Tuple7[T1, T2, T3, T4, T5, T6, T7 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
	V5 T5
	V6 T6
	V7 T7
}

type seq2[T1, T2 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
}

// Seq2 matches p1 then p2. The span runs from the start of the first
// match to the end of the last one.
func Seq2[T1, T2 any](p1 Parser[T1], p2 Parser[T2]) Parser[Tuple2[T1, T2]] {
	mustParser(p1, "Seq2")
	mustParser(p2, "Seq2")
	return &seq2[T1, T2]{p1: p1, p2: p2}
}

func (p *seq2[T1, T2]) Parse(ctx *Context, r *Result[Tuple2[T1, T2]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r2.End, Tuple2[T1, T2]{r1.Value, r2.Value})
	return true
}

func (p *seq2[T1, T2]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq2[T1, T2]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
	}, func(v []any) any {
		return Tuple2[T1, T2]{As[T1](v[0]), As[T2](v[1])}
	})
}

type seq3[T1, T2, T3 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
	p3 Parser[T3]
}

// Seq3 matches 3 parsers in order and produces their values as a tuple.
func Seq3[T1, T2, T3 any](p1 Parser[T1], p2 Parser[T2], p3 Parser[T3]) Parser[Tuple3[T1, T2, T3]] {
	mustParser(p1, "Seq3")
	mustParser(p2, "Seq3")
	mustParser(p3, "Seq3")
	return &seq3[T1, T2, T3]{p1: p1, p2: p2, p3: p3}
}

func (p *seq3[T1, T2, T3]) Parse(ctx *Context, r *Result[Tuple3[T1, T2, T3]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	var r3 Result[T3]
	if !p.p3.Parse(ctx, &r3) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r3.End, Tuple3[T1, T2, T3]{r1.Value, r2.Value, r3.Value})
	return true
}

func (p *seq3[T1, T2, T3]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq3[T1, T2, T3]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p3) },
	}, func(v []any) any {
		return Tuple3[T1, T2, T3]{As[T1](v[0]), As[T2](v[1]), As[T3](v[2])}
	})
}

type seq4[T1, T2, T3, T4 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
	p3 Parser[T3]
	p4 Parser[T4]
}

// Seq4 matches 4 parsers in order and produces their values as a tuple.
func Seq4[T1, T2, T3, T4 any](p1 Parser[T1], p2 Parser[T2], p3 Parser[T3], p4 Parser[T4]) Parser[Tuple4[T1, T2, T3, T4]] {
	mustParser(p1, "Seq4")
	mustParser(p2, "Seq4")
	mustParser(p3, "Seq4")
	mustParser(p4, "Seq4")
	return &seq4[T1, T2, T3, T4]{p1: p1, p2: p2, p3: p3, p4: p4}
}

func (p *seq4[T1, T2, T3, T4]) Parse(ctx *Context, r *Result[Tuple4[T1, T2, T3, T4]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	var r3 Result[T3]
	if !p.p3.Parse(ctx, &r3) {
		c.ResetTo(start)
		return false
	}
	var r4 Result[T4]
	if !p.p4.Parse(ctx, &r4) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r4.End, Tuple4[T1, T2, T3, T4]{r1.Value, r2.Value, r3.Value, r4.Value})
	return true
}

func (p *seq4[T1, T2, T3, T4]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq4[T1, T2, T3, T4]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p3) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p4) },
	}, func(v []any) any {
		return Tuple4[T1, T2, T3, T4]{As[T1](v[0]), As[T2](v[1]), As[T3](v[2]), As[T4](v[3])}
	})
}

type seq5[T1, T2, T3, T4, T5 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
	p3 Parser[T3]
	p4 Parser[T4]
	p5 Parser[T5]
}

// Seq5 matches 5 parsers in order and produces their values as a tuple.
func Seq5[T1, T2, T3, T4, T5 any](p1 Parser[T1], p2 Parser[T2], p3 Parser[T3], p4 Parser[T4], p5 Parser[T5]) Parser[Tuple5[T1, T2, T3, T4, T5]] {
	mustParser(p1, "Seq5")
	mustParser(p2, "Seq5")
	mustParser(p3, "Seq5")
	mustParser(p4, "Seq5")
	mustParser(p5, "Seq5")
	return &seq5[T1, T2, T3, T4, T5]{p1: p1, p2: p2, p3: p3, p4: p4, p5: p5}
}

func (p *seq5[T1, T2, T3, T4, T5]) Parse(ctx *Context, r *Result[Tuple5[T1, T2, T3, T4, T5]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	var r3 Result[T3]
	if !p.p3.Parse(ctx, &r3) {
		c.ResetTo(start)
		return false
	}
	var r4 Result[T4]
	if !p.p4.Parse(ctx, &r4) {
		c.ResetTo(start)
		return false
	}
	var r5 Result[T5]
	if !p.p5.Parse(ctx, &r5) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r5.End, Tuple5[T1, T2, T3, T4, T5]{r1.Value, r2.Value, r3.Value, r4.Value, r5.Value})
	return true
}

func (p *seq5[T1, T2, T3, T4, T5]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq5[T1, T2, T3, T4, T5]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p3) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p4) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p5) },
	}, func(v []any) any {
		return Tuple5[T1, T2, T3, T4, T5]{As[T1](v[0]), As[T2](v[1]), As[T3](v[2]), As[T4](v[3]), As[T5](v[4])}
	})
}

type seq6[T1, T2, T3, T4, T5, T6 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
	p3 Parser[T3]
	p4 Parser[T4]
	p5 Parser[T5]
	p6 Parser[T6]
}

// Seq6 matches 6 parsers in order and produces their values as a tuple.
func Seq6[T1, T2, T3, T4, T5, T6 any](p1 Parser[T1], p2 Parser[T2], p3 Parser[T3], p4 Parser[T4], p5 Parser[T5], p6 Parser[T6]) Parser[Tuple6[T1, T2, T3, T4, T5, T6]] {
	mustParser(p1, "Seq6")
	mustParser(p2, "Seq6")
	mustParser(p3, "Seq6")
	mustParser(p4, "Seq6")
	mustParser(p5, "Seq6")
	mustParser(p6, "Seq6")
	return &seq6[T1, T2, T3, T4, T5, T6]{p1: p1, p2: p2, p3: p3, p4: p4, p5: p5, p6: p6}
}

func (p *seq6[T1, T2, T3, T4, T5, T6]) Parse(ctx *Context, r *Result[Tuple6[T1, T2, T3, T4, T5, T6]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	var r3 Result[T3]
	if !p.p3.Parse(ctx, &r3) {
		c.ResetTo(start)
		return false
	}
	var r4 Result[T4]
	if !p.p4.Parse(ctx, &r4) {
		c.ResetTo(start)
		return false
	}
	var r5 Result[T5]
	if !p.p5.Parse(ctx, &r5) {
		c.ResetTo(start)
		return false
	}
	var r6 Result[T6]
	if !p.p6.Parse(ctx, &r6) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r6.End, Tuple6[T1, T2, T3, T4, T5, T6]{r1.Value, r2.Value, r3.Value, r4.Value, r5.Value, r6.Value})
	return true
}

func (p *seq6[T1, T2, T3, T4, T5, T6]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq6[T1, T2, T3, T4, T5, T6]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p3) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p4) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p5) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p6) },
	}, func(v []any) any {
		return Tuple6[T1, T2, T3, T4, T5, T6]{As[T1](v[0]), As[T2](v[1]), As[T3](v[2]), As[T4](v[3]), As[T5](v[4]), As[T6](v[5])}
	})
}

type seq7[T1, T2, T3, T4, T5, T6, T7 any] struct {
	p1 Parser[T1]
	p2 Parser[T2]
	p3 Parser[T3]
	p4 Parser[T4]
	p5 Parser[T5]
	p6 Parser[T6]
	p7 Parser[T7]
}

// Seq7 matches 7 parsers in order and produces their values as a tuple.
func Seq7[T1, T2, T3, T4, T5, T6, T7 any](p1 Parser[T1], p2 Parser[T2], p3 Parser[T3], p4 Parser[T4], p5 Parser[T5], p6 Parser[T6], p7 Parser[T7]) Parser[Tuple7[T1, T2, T3, T4, T5, T6, T7]] {
	mustParser(p1, "Seq7")
	mustParser(p2, "Seq7")
	mustParser(p3, "Seq7")
	mustParser(p4, "Seq7")
	mustParser(p5, "Seq7")
	mustParser(p6, "Seq7")
	mustParser(p7, "Seq7")
	return &seq7[T1, T2, T3, T4, T5, T6, T7]{p1: p1, p2: p2, p3: p3, p4: p4, p5: p5, p6: p6, p7: p7}
}

func (p *seq7[T1, T2, T3, T4, T5, T6, T7]) Parse(ctx *Context, r *Result[Tuple7[T1, T2, T3, T4, T5, T6, T7]]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var r1 Result[T1]
	if !p.p1.Parse(ctx, &r1) {
		c.ResetTo(start)
		return false
	}
	var r2 Result[T2]
	if !p.p2.Parse(ctx, &r2) {
		c.ResetTo(start)
		return false
	}
	var r3 Result[T3]
	if !p.p3.Parse(ctx, &r3) {
		c.ResetTo(start)
		return false
	}
	var r4 Result[T4]
	if !p.p4.Parse(ctx, &r4) {
		c.ResetTo(start)
		return false
	}
	var r5 Result[T5]
	if !p.p5.Parse(ctx, &r5) {
		c.ResetTo(start)
		return false
	}
	var r6 Result[T6]
	if !p.p6.Parse(ctx, &r6) {
		c.ResetTo(start)
		return false
	}
	var r7 Result[T7]
	if !p.p7.Parse(ctx, &r7) {
		c.ResetTo(start)
		return false
	}
	r.Set(r1.Start, r7.End, Tuple7[T1, T2, T3, T4, T5, T6, T7]{r1.Value, r2.Value, r3.Value, r4.Value, r5.Value, r6.Value, r7.Value})
	return true
}

func (p *seq7[T1, T2, T3, T4, T5, T6, T7]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.p1)
}

func (p *seq7[T1, T2, T3, T4, T5, T6, T7]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.p1) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p2) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p3) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p4) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p5) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p6) },
		func(e *Emitter) Fragment { return LowerParser(e, p.p7) },
	}, func(v []any) any {
		return Tuple7[T1, T2, T3, T4, T5, T6, T7]{As[T1](v[0]), As[T2](v[1]), As[T3](v[2]), As[T4](v[3]), As[T5](v[4]), As[T6](v[5]), As[T7](v[6])}
	})
}

type left[L, R any] struct {
	l Parser[L]
	r Parser[R]
}

// Left matches l then r and keeps the value of l.
func Left[L, R any](l Parser[L], r Parser[R]) Parser[L] {
	mustParser(l, "Left")
	mustParser(r, "Left")
	return &left[L, R]{l: l, r: r}
}

func (p *left[L, R]) Parse(ctx *Context, r *Result[L]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var rl Result[L]
	if !p.l.Parse(ctx, &rl) {
		c.ResetTo(start)
		return false
	}
	var rr Result[R]
	if !p.r.Parse(ctx, &rr) {
		c.ResetTo(start)
		return false
	}
	r.Set(rl.Start, rr.End, rl.Value)
	return true
}

func (p *left[L, R]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.l)
}

func (p *left[L, R]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.l) },
		func(e *Emitter) Fragment { return LowerParser(e, p.r) },
	}, func(v []any) any { return As[L](v[0]) })
}

type right[L, R any] struct {
	l Parser[L]
	r Parser[R]
}

// Right matches l then r and keeps the value of r.
func Right[L, R any](l Parser[L], r Parser[R]) Parser[R] {
	mustParser(l, "Right")
	mustParser(r, "Right")
	return &right[L, R]{l: l, r: r}
}

func (p *right[L, R]) Parse(ctx *Context, r *Result[R]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var rl Result[L]
	if !p.l.Parse(ctx, &rl) {
		c.ResetTo(start)
		return false
	}
	var rr Result[R]
	if !p.r.Parse(ctx, &rr) {
		c.ResetTo(start)
		return false
	}
	r.Set(rl.Start, rr.End, rr.Value)
	return true
}

func (p *right[L, R]) Leading() ([]rune, bool, bool) {
	return leadingOf(p.l)
}

func (p *right[L, R]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, p.l) },
		func(e *Emitter) Fragment { return LowerParser(e, p.r) },
	}, func(v []any) any { return As[R](v[1]) })
}

// lowerSeq emits children in order; the first failure jumps to a single
// reset point.
func lowerSeq(e *Emitter, children []func(*Emitter) Fragment, build func([]any) any) Fragment {
	r := e.Result("seq")
	start := e.Declare("seq_pos", KindPos)
	fail := e.NewLabel()
	done := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	frags := make([]Fragment, 0, len(children))
	for _, lower := range children {
		f := lower(e)
		e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: fail})
		frags = append(frags, f)
	}
	args := make([]Slot, len(frags))
	for i, f := range frags {
		args[i] = f.Value
	}
	e.Emit(Op{Code: OpBuild, A: r.Value, Args: args, Build: build})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: frags[0].Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: frags[len(frags)-1].End})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(fail)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Bind(done)
	return r
}
