package compile_test

import (
	"github.com/dhamidi/parsnip/parse"
	"github.com/dhamidi/parsnip/scanner"
)

func token[T any](p parse.Parser[T]) parse.Parser[T] { return parse.SkipWhitespace(p) }

func arithmetic() parse.Parser[int64] {
	expr := parse.NewDeferredNamed[int64]("expr")
	number := token(parse.Integer(0))
	group := parse.Between(token(parse.Char('(')), expr, token(parse.Char(')')))
	primary := parse.OneOf[int64](number, group)
	unary := parse.Unary(primary,
		parse.Prefix(token(parse.Char('-')), func(v int64) int64 { return -v }),
		parse.Prefix(token(parse.Char('+')), func(v int64) int64 { return v }),
	)
	expr.Set(parse.Precedence(unary,
		parse.Tier[int64]{
			parse.Binary(token(parse.Char('*')), func(a, b int64) int64 { return a * b }),
			parse.Binary(token(parse.Char('/')), func(a, b int64) int64 {
				if b == 0 {
					return 0
				}
				return a / b
			}),
		},
		parse.Tier[int64]{
			parse.Binary(token(parse.Char('+')), func(a, b int64) int64 { return a + b }),
			parse.Binary(token(parse.Char('-')), func(a, b int64) int64 { return a - b }),
		},
	))
	return parse.Left[int64](expr, token(parse.Eof()))
}

func jsonGrammar() parse.Parser[any] {
	value := parse.NewDeferredNamed[any]("value")

	str := token(parse.QuotedString('"'))
	number := parse.Then(token(parse.Decimal(scanner.NumberSign|scanner.NumberExponent)),
		func(f float64) any { return f })

	member := parse.Seq3(str, token(parse.Char(':')), value)
	members := parse.ZeroOrOne(parse.Separated(token(parse.Char(',')), member))
	object := parse.Then(
		parse.Between(token(parse.Char('{')), members, parse.ElseError(token(parse.Char('}')), "expected '}'")),
		func(ms []parse.Tuple3[string, rune, any]) any {
			obj := make(map[string]any, len(ms))
			for _, m := range ms {
				obj[m.V1] = m.V3
			}
			return obj
		})

	elements := parse.ZeroOrOne(parse.Separated(token(parse.Char(',')), parse.Parser[any](value)))
	array := parse.Then(
		parse.Between(token(parse.Char('[')), elements, parse.ElseError(token(parse.Char(']')), "expected ']'")),
		func(vs []any) any { return append([]any{}, vs...) })

	value.Set(parse.Named("value", parse.OneOf[any](
		object,
		array,
		parse.Then(str, func(s string) any { return s }),
		number,
		parse.ThenValue[string, any](token(parse.Text("true")), true),
		parse.ThenValue[string, any](token(parse.Text("false")), false),
		parse.ThenValue[string, any](token(parse.Text("null")), nil),
	)))
	return parse.Left[any](value, token(parse.Eof()))
}

// words is a grammar without a Deferred, exercising the remaining
// combinators.
func words() parse.Parser[[]string] {
	word := parse.Capture(parse.Seq2(
		parse.Not(parse.TextFold("end")),
		parse.Pattern(func(r rune) bool { return r >= 'a' && r <= 'z' }, 1, 0),
	))
	short := parse.When(token(word), func(s string) bool { return len(s) <= 5 })
	list := parse.OneOrMany(parse.OneOf[string](
		short,
		parse.ThenValue[string, string](token(parse.Identifier()), "<long>"),
		parse.ThenValue[rune, string](token(parse.AnyOf("0123456789")), "<digit>"),
	))
	tail := parse.ZeroOrOneDefault(token(parse.TextFold("END")), "")
	return parse.Then(parse.Seq2(list, tail), func(t parse.Tuple2[[]string, string]) []string {
		if t.V2 != "" {
			return append(t.V1, "END")
		}
		return t.V1
	})
}
