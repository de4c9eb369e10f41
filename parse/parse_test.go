package parse_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/parsnip/parse"
	"github.com/dhamidi/parsnip/scanner"
)

func token[T any](p parse.Parser[T]) parse.Parser[T] { return parse.SkipWhitespace(p) }

func attempt[T any](p parse.Parser[T]) func(*parse.Context) bool {
	return func(ctx *parse.Context) bool {
		var r parse.Result[T]
		return p.Parse(ctx, &r)
	}
}

func TestNoProgressOnFailure(t *testing.T) {
	even := func(v int64) bool { return v%2 == 0 }
	tests := []struct {
		name  string
		run   func(*parse.Context) bool
		input string
	}{
		{"Text", attempt(parse.Text("abc")), "abx"},
		{"TextFold", attempt(parse.TextFold("abc")), "ABX"},
		{"Char", attempt(parse.Char('a')), "b"},
		{"CharRange", attempt(parse.CharRange('a', 'f')), "z"},
		{"AnyOf", attempt(parse.AnyOf("xyz")), "a"},
		{"Pattern", attempt(parse.Pattern(scanner.IsDigit, 3, 0)), "12a"},
		{"Integer", attempt(parse.Integer(scanner.NumberSign)), "-x"},
		{"IntegerOverflow", attempt(parse.Integer(0)), "99999999999999999999"},
		{"Decimal", attempt(parse.Decimal(0)), "12."},
		{"DecimalExponent", attempt(parse.Decimal(scanner.NumberExponent)), "1e"},
		{"QuotedString", attempt(parse.QuotedString()), `"abc`},
		{"Identifier", attempt(parse.Identifier()), "9a"},
		{"NonWhitespace", attempt(parse.NonWhitespace()), " a"},
		{"Eof", attempt(parse.Eof()), "a"},
		{"Seq3", attempt(parse.Seq3(parse.Text("a"), parse.Text("b"), parse.Text("c"))), "abx"},
		{"Left", attempt(parse.Left(parse.Text("a"), parse.Text("b"))), "ax"},
		{"Right", attempt(parse.Right(parse.Text("a"), parse.Text("b"))), "ax"},
		{"OneOf", attempt(parse.OneOf(parse.Text("ab"), parse.Text("ac"))), "ad"},
		{"OneOfLinear", attempt(parse.OneOf(parse.Text("ab"), parse.Text("ac")).Linear()), "ad"},
		{"OneOrMany", attempt(parse.OneOrMany(parse.Text("ab"))), "ac"},
		{"Separated", attempt(parse.Separated(parse.Char(','), parse.Integer(0))), "x"},
		{"Between", attempt(parse.Between(parse.Char('('), parse.Integer(0), parse.Char(')'))), "(12]"},
		{"BetweenTokens", attempt(parse.Between(token(parse.Char('(')), token(parse.Integer(0)), token(parse.Char(')')))), " ( 12 ]"},
		{"Then", attempt(parse.Then(parse.Text("ab"), func(s string) int { return len(s) })), "ax"},
		{"Not", attempt(parse.Not(parse.Text("ab"))), "abc"},
		{"Capture", attempt(parse.Capture(parse.Seq2(parse.Text("a"), parse.Text("b")))), "ax"},
		{"SkipWhitespace", attempt(token(parse.Text("a"))), "   b"},
		{"Named", attempt(parse.Named("ab", parse.Text("ab"))), "ax"},
		{"Deferred", attempt(parse.Recursive(func(self parse.Parser[string]) parse.Parser[string] {
			return parse.Text("ab")
		})), "ax"},
		{"LeftAssociative", attempt(parse.LeftAssociative(parse.When(parse.Integer(0), even),
			parse.Binary(parse.Char('+'), func(a, b int64) int64 { return a + b }))), "3+4"},
		{"Unary", attempt(parse.Unary(parse.Integer(0),
			parse.Prefix(parse.Char('-'), func(v int64) int64 { return -v }))), "--x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := parse.NewContext(tt.input)
			require.False(t, tt.run(ctx))
			assert.Equal(t, 0, ctx.Cursor().Offset())
		})
	}
}

func TestOrderedChoice(t *testing.T) {
	for _, p := range []*parse.Choice[string]{
		parse.OneOf(parse.Text("a"), parse.Text("ab")),
		parse.OneOf(parse.Text("a"), parse.Text("ab")).Linear(),
	} {
		ctx := parse.NewContext("ab")
		var r parse.Result[string]
		require.True(t, p.Parse(ctx, &r))
		assert.Equal(t, "a", r.Value)
		assert.Equal(t, 1, ctx.Cursor().Offset())
	}
}

func TestSequenceAtomicity(t *testing.T) {
	p := parse.Seq3(parse.Text("a"), parse.Text("b"), parse.Text("c"))

	ctx := parse.NewContext("abc!")
	var r parse.Result[parse.Tuple3[string, string, string]]
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 3, r.End)
	assert.Equal(t, parse.Tuple3[string, string, string]{V1: "a", V2: "b", V3: "c"}, r.Value)

	ctx = parse.NewContext("abd")
	require.False(t, p.Parse(ctx, &r))
	assert.Equal(t, 0, ctx.Cursor().Offset())
}

func TestSeparatedLeavesTrailingSeparator(t *testing.T) {
	p := parse.Separated(parse.Char(','), parse.Integer(0))
	ctx := parse.NewContext("1,2,3,")
	var r parse.Result[[]int64]
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, []int64{1, 2, 3}, r.Value)
	assert.Equal(t, 5, ctx.Cursor().Offset())
	assert.Equal(t, 5, r.End)
}

func TestSkipWhitespaceSpan(t *testing.T) {
	ctx := parse.NewContext("  42")
	var r parse.Result[int64]
	require.True(t, token(parse.Integer(0)).Parse(ctx, &r))
	assert.Equal(t, int64(42), r.Value)
	assert.Equal(t, 2, r.Start)
	assert.Equal(t, 4, r.End)
}

func TestDecimalTrailingDot(t *testing.T) {
	ctx := parse.NewContext("12.")
	var r parse.Result[float64]
	require.False(t, parse.Decimal(0).Parse(ctx, &r))
	assert.Equal(t, 0, ctx.Cursor().Offset())
}

func arithmetic() parse.Parser[int64] {
	expr := parse.NewDeferred[int64]()
	primary := parse.OneOf[int64](
		token(parse.Integer(0)),
		parse.Between(token(parse.Char('(')), expr, token(parse.Char(')'))),
	)
	unary := parse.Unary(primary, parse.Prefix(token(parse.Char('-')), func(v int64) int64 { return -v }))
	expr.Set(parse.Precedence(unary,
		parse.Tier[int64]{
			parse.Binary(token(parse.Char('*')), func(a, b int64) int64 { return a * b }),
			parse.Binary(token(parse.Char('/')), func(a, b int64) int64 { return a / b }),
		},
		parse.Tier[int64]{
			parse.Binary(token(parse.Char('+')), func(a, b int64) int64 { return a + b }),
			parse.Binary(token(parse.Char('-')), func(a, b int64) int64 { return a - b }),
		},
	))
	return parse.Left[int64](expr, token(parse.Eof()))
}

func TestArithmetic(t *testing.T) {
	p := arithmetic()
	tests := []struct {
		input string
		want  int64
	}{
		{"3 + 4 * 2", 11},
		{"-3 + 4", 1},
		{"((1+2))", 3},
		{"2 * (3 + 4)", 14},
		{"10 - 4 - 3", 3},
		{"--5", 5},
		{" 7 ", 7},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parse.Parse(p, tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "1 +", "(1", "1 2", "-"} {
		_, ok := parse.Parse(p, bad)
		assert.False(t, ok, bad)
	}
}

func TestLeftAssociativeLeavesDanglingOperator(t *testing.T) {
	p := parse.LeftAssociative(parse.Integer(0),
		parse.Binary(parse.Char('+'), func(a, b int64) int64 { return a + b }))
	ctx := parse.NewContext("1+2+")
	var r parse.Result[int64]
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, int64(3), r.Value)
	assert.Equal(t, 3, ctx.Cursor().Offset())
	assert.Equal(t, 3, r.End)
}

func TestUnarySpanStartsAtOperator(t *testing.T) {
	p := parse.Unary(token(parse.Integer(0)),
		parse.Prefix(token(parse.Char('-')), func(v int64) int64 { return -v }))
	ctx := parse.NewContext("  - 4")
	var r parse.Result[int64]
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, int64(-4), r.Value)
	assert.Equal(t, 2, r.Start)
	assert.Equal(t, 5, r.End)
}

func TestRecursiveNesting(t *testing.T) {
	depth := parse.Recursive(func(self parse.Parser[int]) parse.Parser[int] {
		return parse.OneOf[int](
			parse.Then(parse.Between(parse.Char('['), self, parse.Char(']')), func(n int) int { return n + 1 }),
			parse.Always(0),
		)
	})
	got, ok := parse.Parse[int](depth, "[[[]]]")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func keywords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("%c%d", 'a'+rune(i%26), i)
	}
	return words
}

func TestSeekMatchesLinear(t *testing.T) {
	for _, n := range []int{1, 2, 50} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			words := keywords(n)
			alts := make([]parse.Parser[string], n)
			for i, w := range words {
				alts[i] = parse.Text(w)
			}
			seek := parse.OneOf(alts...)
			linear := seek.Linear()
			require.True(t, seek.Dispatching())
			require.False(t, linear.Dispatching())

			for _, input := range append(words, "zz-none", "") {
				sctx, lctx := parse.NewContext(input), parse.NewContext(input)
				var sr, lr parse.Result[string]
				sok := seek.Parse(sctx, &sr)
				lok := linear.Parse(lctx, &lr)
				assert.Equal(t, lok, sok, input)
				assert.Equal(t, lr, sr, input)
				assert.Equal(t, lctx.Cursor().Offset(), sctx.Cursor().Offset(), input)
			}
		})
	}
}

func TestSeekAcrossWhitespaceModes(t *testing.T) {
	p := parse.OneOf[string](token(parse.Text("let")), parse.Text(" "), token(parse.Text("lit")))
	require.True(t, p.Dispatching())
	for _, input := range []string{"  lit", " ", "let", "x"} {
		sctx, lctx := parse.NewContext(input), parse.NewContext(input)
		var sr, lr parse.Result[string]
		assert.Equal(t, p.Linear().Parse(lctx, &lr), p.Parse(sctx, &sr), input)
		assert.Equal(t, lr, sr, input)
	}
}

func TestChoiceWithRequiredAlternativeStaysLinear(t *testing.T) {
	required := parse.ElseError[string](parse.Text("b"), "expected b")
	for _, p := range []*parse.Choice[string]{
		parse.OneOf[string](parse.Text("a"), required),
		parse.OneOf[string](parse.Text("a"), parse.Named("b", parse.Left(required, parse.Text(";")))),
	} {
		require.False(t, p.Dispatching())
		for _, input := range []string{"a", "b;", "c", ""} {
			_, sok, serr := parse.TryParse[string](p, input)
			_, lok, lerr := parse.TryParse[string](p.Linear(), input)
			assert.Equal(t, lok, sok, input)
			assert.Equal(t, fmt.Sprint(lerr), fmt.Sprint(serr), input)
		}
	}

	_, ok, err := parse.TryParse[string](parse.OneOf[string](parse.Text("a"), required), "c")
	assert.False(t, ok)
	var perr *parse.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "1:1: expected b", perr.Error())
}

func TestChoiceOverDeferredIsLinear(t *testing.T) {
	d := parse.NewDeferred[string]()
	d.Set(parse.Text("b"))
	_, seekable := any(d).(parse.Seekable)
	assert.False(t, seekable)

	p := parse.OneOf[string](parse.Text("a"), d)
	require.False(t, p.Dispatching())
	v, ok := parse.Parse[string](p, "b")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestWhenLeavesCursorForEnclosingChoice(t *testing.T) {
	even := parse.When(parse.Integer(0), func(v int64) bool { return v%2 == 0 })

	ctx := parse.NewContext("3")
	var r parse.Result[int64]
	require.False(t, even.Parse(ctx, &r))
	assert.Equal(t, 1, ctx.Cursor().Offset())

	got, ok := parse.Parse[int64](parse.OneOf(even, parse.Always[int64](-1)), "3")
	require.True(t, ok)
	assert.Equal(t, int64(-1), got)
}

func TestZeroOrMany(t *testing.T) {
	p := parse.ZeroOrMany(parse.Char('a'))

	ctx := parse.NewContext("bbb")
	var r parse.Result[[]rune]
	require.True(t, p.Parse(ctx, &r))
	assert.Nil(t, r.Value)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 0, r.End)

	ctx = parse.NewContext("aab")
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, []rune{'a', 'a'}, r.Value)
	assert.Equal(t, 2, r.End)
}

func TestZeroOrManyStopsWithoutProgress(t *testing.T) {
	p := parse.ZeroOrMany(parse.ZeroOrOneDefault(parse.Char('a'), '-'))
	ctx := parse.NewContext("aab")
	var r parse.Result[[]rune]
	require.True(t, p.Parse(ctx, &r))
	assert.Equal(t, []rune{'a', 'a'}, r.Value)
	assert.Equal(t, 2, ctx.Cursor().Offset())
}

func TestZeroOrOneDefault(t *testing.T) {
	got, ok := parse.Parse(parse.ZeroOrOneDefault(parse.Integer(0), 7), "")
	require.True(t, ok)
	assert.Equal(t, int64(7), got)
}

func TestNotAndCapture(t *testing.T) {
	ident := parse.Capture(parse.Seq2(parse.Not(parse.Text("if")), parse.Identifier()))

	got, ok := parse.Parse(ident, "iffy")
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = parse.Parse(ident, "name")
	require.True(t, ok)
	assert.Equal(t, "name", got)
}

func TestQuotedStringValueAndSpan(t *testing.T) {
	ctx := parse.NewContext(`'a\tb' rest`)
	var r parse.Result[string]
	require.True(t, parse.QuotedString().Parse(ctx, &r))
	assert.Equal(t, "a\tb", r.Value)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 6, r.End)
}

func TestElseErrorIsStructural(t *testing.T) {
	p := parse.OneOf(
		parse.Right(parse.Text("let "), parse.ElseError(parse.Identifier(), "expected a name")),
		parse.Text("let 1"),
	)
	_, ok, err := parse.TryParse(p, "let 1")
	assert.False(t, ok)
	var perr *parse.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "expected a name", perr.Message)
	assert.Equal(t, "1:5: expected a name", perr.Error())

	_, ok = parse.Parse(p, "let 1")
	assert.False(t, ok)
}

func TestFuncFail(t *testing.T) {
	p := parse.Func(func(ctx *parse.Context, r *parse.Result[int]) bool {
		ctx.Fail("bad %s", "thing")
		return false
	})
	_, _, err := parse.TryParse(p, "x")
	require.EqualError(t, err, "1:1: bad thing")
}

func TestCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := parse.TryParse(parse.Text("a"), "a", parse.WithCancel(ctx))
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOtherPanicsPropagate(t *testing.T) {
	p := parse.Func(func(ctx *parse.Context, r *parse.Result[int]) bool {
		panic("boom")
	})
	assert.PanicsWithValue(t, "boom", func() { parse.TryParse(p, "") })
}

func TestConstructionMisuse(t *testing.T) {
	assert.PanicsWithValue(t, "parse.Seq2: nil parser", func() {
		parse.Seq2[int64, int64](nil, parse.Integer(0))
	})
	assert.PanicsWithValue(t, "parse.Text: empty text", func() { parse.Text("") })
	assert.PanicsWithValue(t, "parse.OneOf: no alternatives", func() { parse.OneOf[int]() })
	assert.PanicsWithValue(t, "parse.ZeroOrMany: nil parser", func() { parse.ZeroOrMany[int](nil) })

	d := parse.NewDeferred[string]()
	d.Set(parse.Text("a"))
	assert.Panics(t, func() { d.Set(parse.Text("b")) })
}

type events []string

func (e *events) Enter(name string, ctx *parse.Context) {
	*e = append(*e, "+"+name)
}

func (e *events) Exit(name string, ctx *parse.Context, ok bool) {
	*e = append(*e, fmt.Sprintf("-%s:%t", name, ok))
}

func TestNamedTracing(t *testing.T) {
	p := parse.OneOf(
		parse.Named("num", parse.Capture(parse.Integer(0))),
		parse.Named("word", parse.Capture(parse.OneOrMany(parse.CharRange('a', 'z')))),
	)
	require.True(t, p.Dispatching())

	var got events
	_, ok := parse.Parse[string](p, "abc", parse.WithTracer(&got))
	require.True(t, ok)
	assert.Equal(t, events{"+word", "-word:true"}, got)

	got = nil
	_, ok = parse.Parse[string](p.Linear(), "abc", parse.WithTracer(&got))
	require.True(t, ok)
	assert.Equal(t, events{"+num", "-num:false", "+word", "-word:true"}, got)
}
