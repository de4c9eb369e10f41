package parse

// BinaryOp is an infix operator of one precedence tier.
type BinaryOp[T any] struct {
	match   func(ctx *Context) bool
	lower   func(e *Emitter) Fragment
	combine func(a, b T) T
}

// Binary pairs an operator parser with the function combining its operands.
func Binary[O, T any](op Parser[O], combine func(a, b T) T) BinaryOp[T] {
	mustParser(op, "Binary")
	if combine == nil {
		panic("parse.Binary: nil combine")
	}
	return BinaryOp[T]{
		match: func(ctx *Context) bool {
			var r Result[O]
			return op.Parse(ctx, &r)
		},
		lower:   func(e *Emitter) Fragment { return LowerParser(e, op) },
		combine: combine,
	}
}

type leftAssoc[T any] struct {
	operand Parser[T]
	ops     []BinaryOp[T]
}

// LeftAssociative matches operand (op operand)* and folds the values from
// the left. Operators are tried in order. An operator that is not followed
// by an operand is left unconsumed and ends the chain.
func LeftAssociative[T any](operand Parser[T], ops ...BinaryOp[T]) Parser[T] {
	mustParser(operand, "LeftAssociative")
	if len(ops) == 0 {
		panic("parse.LeftAssociative: no operators")
	}
	return &leftAssoc[T]{operand: operand, ops: ops}
}

func (p *leftAssoc[T]) Parse(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var lhs Result[T]
	if !p.operand.Parse(ctx, &lhs) {
		c.ResetTo(start)
		return false
	}
	value, end := lhs.Value, lhs.End
chain:
	for {
		before := c.Position()
		for _, op := range p.ops {
			if !op.match(ctx) {
				c.ResetTo(before)
				continue
			}
			var rhs Result[T]
			if !p.operand.Parse(ctx, &rhs) {
				c.ResetTo(before)
				break chain
			}
			value, end = op.combine(value, rhs.Value), rhs.End
			if c.Offset() == before.Offset {
				break chain
			}
			continue chain
		}
		break
	}
	r.Set(lhs.Start, end, value)
	return true
}

func (p *leftAssoc[T]) Leading() ([]rune, bool, bool) { return leadingOf(p.operand) }

// Lower emits the operand once; the first pass produces the left-hand side
// and later passes are entered from a matched operator.
func (p *leftAssoc[T]) Lower(e *Emitter) Fragment {
	r := e.Result("binary")
	start := e.Declare("binary_pos", KindPos)
	before := e.Declare("binary_iter", KindPos)
	first := e.Declare("binary_first", KindBool)
	which := e.Declare("binary_op", KindValue)
	operand := e.NewLabel()
	combine := e.NewLabel()
	operandFailed := e.NewLabel()
	loop := e.NewLabel()
	fail := e.NewLabel()
	end := e.NewLabel()
	done := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	e.Emit(Op{Code: OpSetBool, A: first, Flag: true})

	e.Bind(operand)
	f := LowerParser(e, p.operand)
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: operandFailed})
	e.Emit(Op{Code: OpJumpIfNot, A: first, Target: combine})
	e.Emit(Op{Code: OpSetBool, A: first, Flag: false})
	e.Emit(Op{Code: OpCopy, A: r.Value, B: f.Value})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpJump, Target: loop})

	e.Bind(combine)
	e.Emit(Op{Code: OpBuild, A: r.Value, Args: []Slot{which, r.Value, f.Value}, Build: func(args []any) any {
		return p.ops[args[0].(int)].combine(As[T](args[1]), As[T](args[2]))
	}})
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpJumpIfSame, A: before, Target: end})
	e.Emit(Op{Code: OpJump, Target: loop})

	e.Bind(operandFailed)
	e.Emit(Op{Code: OpJumpIf, A: first, Target: fail})
	e.Emit(Op{Code: OpReset, A: before})
	e.Emit(Op{Code: OpJump, Target: end})

	e.Bind(loop)
	e.Emit(Op{Code: OpMark, A: before})
	for i, op := range p.ops {
		next := e.NewLabel()
		of := op.lower(e)
		e.Emit(Op{Code: OpJumpIfNot, A: of.Ok, Target: next})
		e.Emit(Op{Code: OpConst, A: which, Value: i})
		e.Emit(Op{Code: OpJump, Target: operand})
		e.Bind(next)
		e.Emit(Op{Code: OpReset, A: before})
	}
	e.Emit(Op{Code: OpJump, Target: end})

	e.Bind(fail)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(end)
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	e.Bind(done)
	return r
}

// UnaryOp is a prefix operator.
type UnaryOp[T any] struct {
	match func(ctx *Context, start *int) bool
	lower func(e *Emitter) Fragment
	apply func(T) T
}

// Prefix pairs an operator parser with the function applied to its operand.
func Prefix[O, T any](op Parser[O], apply func(T) T) UnaryOp[T] {
	mustParser(op, "Prefix")
	if apply == nil {
		panic("parse.Prefix: nil apply")
	}
	return UnaryOp[T]{
		match: func(ctx *Context, start *int) bool {
			var r Result[O]
			if !op.Parse(ctx, &r) {
				return false
			}
			*start = r.Start
			return true
		},
		lower: func(e *Emitter) Fragment { return LowerParser(e, op) },
		apply: apply,
	}
}

type unary[T any] struct {
	operand Parser[T]
	ops     []UnaryOp[T]
}

// Unary matches any number of prefix operators followed by operand. The
// operators apply innermost first, so "--x" is neg(neg(x)). If the operand
// is missing the whole construct fails and consumes nothing. An operator
// that matches without consuming input ends the prefix run.
func Unary[T any](operand Parser[T], ops ...UnaryOp[T]) Parser[T] {
	mustParser(operand, "Unary")
	if len(ops) == 0 {
		panic("parse.Unary: no operators")
	}
	return &unary[T]{operand: operand, ops: ops}
}

func (p *unary[T]) Parse(ctx *Context, r *Result[T]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var buf [8]int
	applied := buf[:0]
	from := -1
prefixes:
	for {
		before := c.Position()
		for i, op := range p.ops {
			var at int
			if op.match(ctx, &at) {
				if c.Offset() == before.Offset {
					break prefixes
				}
				if from < 0 {
					from = at
				}
				applied = append(applied, i)
				continue prefixes
			}
			c.ResetTo(before)
		}
		break
	}
	var operand Result[T]
	if !p.operand.Parse(ctx, &operand) {
		c.ResetTo(start)
		return false
	}
	if from < 0 {
		from = operand.Start
	}
	r.Set(from, operand.End, applyPrefixes(p.ops, applied, operand.Value))
	return true
}

func applyPrefixes[T any](ops []UnaryOp[T], applied []int, v T) T {
	for i := len(applied) - 1; i >= 0; i-- {
		v = ops[applied[i]].apply(v)
	}
	return v
}

func (p *unary[T]) Lower(e *Emitter) Fragment {
	r := e.Result("unary")
	start := e.Declare("unary_pos", KindPos)
	before := e.Declare("unary_iter", KindPos)
	seen := e.Declare("unary_seen", KindBool)
	applied := e.Declare("unary_ops", KindValue)
	which := e.Declare("unary_op", KindValue)
	loop := e.NewLabel()
	operand := e.NewLabel()
	fail := e.NewLabel()
	done := e.NewLabel()

	e.Emit(Op{Code: OpMark, A: start})
	e.Emit(Op{Code: OpSetBool, A: seen, Flag: false})
	e.Emit(Op{Code: OpConst, A: applied, Value: nil})

	e.Bind(loop)
	e.Emit(Op{Code: OpMark, A: before})
	for i, op := range p.ops {
		next := e.NewLabel()
		notFirst := e.NewLabel()
		of := op.lower(e)
		e.Emit(Op{Code: OpJumpIfNot, A: of.Ok, Target: next})
		e.Emit(Op{Code: OpJumpIfSame, A: before, Target: operand})
		e.Emit(Op{Code: OpJumpIf, A: seen, Target: notFirst})
		e.Emit(Op{Code: OpCopy, A: r.Start, B: of.Start})
		e.Emit(Op{Code: OpSetBool, A: seen, Flag: true})
		e.Bind(notFirst)
		e.Emit(Op{Code: OpConst, A: which, Value: i})
		e.Emit(Op{Code: OpAppend, A: applied, B: which, Append: appendTo[int]})
		e.Emit(Op{Code: OpJump, Target: loop})
		e.Bind(next)
		e.Emit(Op{Code: OpReset, A: before})
	}

	e.Bind(operand)
	f := LowerParser(e, p.operand)
	e.Emit(Op{Code: OpJumpIfNot, A: f.Ok, Target: fail})
	hasStart := e.NewLabel()
	e.Emit(Op{Code: OpJumpIf, A: seen, Target: hasStart})
	e.Emit(Op{Code: OpCopy, A: r.Start, B: f.Start})
	e.Bind(hasStart)
	e.Emit(Op{Code: OpBuild, A: r.Value, Args: []Slot{applied, f.Value}, Build: func(args []any) any {
		return applyPrefixes(p.ops, As[[]int](args[0]), As[T](args[1]))
	}})
	e.Emit(Op{Code: OpCopy, A: r.End, B: f.End})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: true})
	e.Emit(Op{Code: OpJump, Target: done})
	e.Bind(fail)
	e.Emit(Op{Code: OpReset, A: start})
	e.Emit(Op{Code: OpSetBool, A: r.Ok, Flag: false})
	e.Bind(done)
	return r
}

// Tier is one precedence level of binary operators.
type Tier[T any] []BinaryOp[T]

// Precedence layers left-associative tiers over operand. Tiers are listed
// from tightest to loosest binding.
func Precedence[T any](operand Parser[T], tiers ...Tier[T]) Parser[T] {
	mustParser(operand, "Precedence")
	p := operand
	for _, tier := range tiers {
		p = LeftAssociative(p, tier...)
	}
	return p
}
