package parse

type betweenParser[A, T, C any] struct {
	prefix Parser[A]
	p      Parser[T]
	suffix Parser[C]

	// Set when prefix and suffix are plain characters.
	openChar, closeChar rune
	fast                bool
}

// Between matches prefix, p and suffix in sequence and produces the value of
// p. The span runs from the start of prefix to the end of suffix.
func Between[A, T, C any](prefix Parser[A], p Parser[T], suffix Parser[C]) Parser[T] {
	mustParser(prefix, "Between")
	mustParser(p, "Between")
	mustParser(suffix, "Between")
	b := &betweenParser[A, T, C]{prefix: prefix, p: p, suffix: suffix}
	open, ok1 := any(prefix).(*CharParser)
	shut, ok2 := any(suffix).(*CharParser)
	if ok1 && ok2 {
		b.openChar, b.closeChar, b.fast = open.char, shut.char, true
	}
	return b
}

func (b *betweenParser[A, T, C]) Parse(ctx *Context, r *Result[T]) bool {
	if b.fast {
		return b.parseChars(ctx, r)
	}
	c := ctx.Cursor()
	start := c.Position()
	var pre Result[A]
	if !b.prefix.Parse(ctx, &pre) {
		c.ResetTo(start)
		return false
	}
	var inner Result[T]
	if !b.p.Parse(ctx, &inner) {
		c.ResetTo(start)
		return false
	}
	var suf Result[C]
	if !b.suffix.Parse(ctx, &suf) {
		c.ResetTo(start)
		return false
	}
	r.Set(pre.Start, suf.End, inner.Value)
	return true
}

func (b *betweenParser[A, T, C]) parseChars(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	if !c.MatchChar(b.openChar) {
		return false
	}
	c.Advance()
	var inner Result[T]
	if !b.p.Parse(ctx, &inner) || !c.MatchChar(b.closeChar) {
		c.ResetTo(start)
		return false
	}
	c.Advance()
	r.Set(start.Offset, c.Offset(), inner.Value)
	return true
}

func (b *betweenParser[A, T, C]) Leading() ([]rune, bool, bool) {
	return leadingOf(b.prefix)
}

func (b *betweenParser[A, T, C]) Lower(e *Emitter) Fragment {
	return lowerSeq(e, []func(*Emitter) Fragment{
		func(e *Emitter) Fragment { return LowerParser(e, b.prefix) },
		func(e *Emitter) Fragment { return LowerParser(e, b.p) },
		func(e *Emitter) Fragment { return LowerParser(e, b.suffix) },
	}, func(v []any) any { return v[1] })
}
