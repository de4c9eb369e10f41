package compile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/parsnip/compile"
	"github.com/dhamidi/parsnip/parse"
)

// snapshot is everything observable about one parse call.
type snapshot struct {
	Ok     bool
	Value  any
	Start  int
	End    int
	Offset int
	Err    string
}

func observe[T any](p parse.Parser[T], input string, opts ...parse.Option) snapshot {
	ctx := parse.NewContext(input, opts...)
	var r parse.Result[T]
	ok, err := parse.Run(ctx, p, &r)
	s := snapshot{Ok: ok, Offset: ctx.Cursor().Offset()}
	if ok {
		s.Value, s.Start, s.End = r.Value, r.Start, r.End
	}
	if err != nil {
		s.Err = err.Error()
	}
	return s
}

func differential[T any](t *testing.T, grammar parse.Parser[T], inputs []string) {
	t.Helper()
	compiled, err := compile.Compile(grammar)
	require.NoError(t, err)
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			want := observe(grammar, input)
			got := observe[T](compiled, input)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("compiled parse differs (-interpreted +compiled):\n%s", diff)
			}
		})
	}
}

func TestCompiledArithmeticMatchesInterpreted(t *testing.T) {
	differential(t, arithmetic(), []string{
		"3 + 4 * 2",
		"-3 + 4",
		"((1+2))",
		"  42",
		"10 / 0",
		"1 - - 2",
		"2 * (3 + 4) - -5",
		"+7",
		"1 +",
		"2 * (3",
		"",
		"abc",
		"((((((((((1))))))))))",
		"9223372036854775807",
		"9223372036854775808",
	})
}

func TestCompiledJSONMatchesInterpreted(t *testing.T) {
	differential(t, jsonGrammar(), []string{
		`{"a": [1, 2, {"b": null}], "c": "x\ny"}`,
		`[]`,
		`{}`,
		`[1,]`,
		`{"a" 1}`,
		`{"a": 1`,
		`"é"`,
		`"😀"`,
		`  true  `,
		`tru`,
		`-1.5e3`,
		`[true, false, null, "s", 0.5]`,
		`[[[[]]]]`,
		`1.`,
	})
}

func TestCompiledWordsMatchesInterpreted(t *testing.T) {
	differential(t, words(), []string{
		"hello wonderful 7 end",
		"a b c END",
		"",
		"   ",
		"extraordinary",
		"abc 1 2 3",
	})
}

func TestCompiledChoiceWithRequiredAlternative(t *testing.T) {
	required := parse.ElseError[string](parse.Text("b"), "expected b")
	choice := parse.OneOf[string](parse.Text("a"), required)
	require.False(t, choice.Dispatching())
	inputs := []string{"a", "b", "c", ""}
	differential[string](t, choice, inputs)
	differential[string](t, choice.Linear(), inputs)

	c := compile.MustCompile[string](choice)
	_, ok, err := parse.TryParse[string](c, "c")
	assert.False(t, ok)
	require.Error(t, err)
	assert.Equal(t, "1:1: expected b", err.Error())
}

func TestCompiledArithmeticValues(t *testing.T) {
	p := compile.MustCompile(arithmetic())
	for input, want := range map[string]int64{
		"3 + 4 * 2":  11,
		"-3 + 4":     1,
		"((1+2))":    3,
		"20 / 2 / 5": 2,
		"2 - 3 - 4":  -5,
	} {
		got, ok := parse.Parse[int64](p, input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
}

func TestCompiledJSONValue(t *testing.T) {
	p := compile.MustCompile(jsonGrammar())
	got, ok := parse.Parse[any](p, `{"k": [1, "two", {"three": true}]}`)
	require.True(t, ok)
	want := map[string]any{"k": []any{1.0, "two", map[string]any{"three": true}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestCompiledStructuralError(t *testing.T) {
	p := compile.MustCompile(jsonGrammar())
	_, ok, err := parse.TryParse[any](p, "[1,")
	assert.False(t, ok)
	var perr *parse.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "expected ']'", perr.Message)
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 3, perr.Pos.Column)
}

func TestUnsetDeferredDoesNotCompile(t *testing.T) {
	d := parse.NewDeferredNamed[int]("missing")
	_, err := compile.Compile[int](d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCompiledCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := parse.ZeroOrMany(parse.Then(parse.Char('a'), func(r rune) rune {
		cancel()
		return r
	}))
	for name, q := range map[string]parse.Parser[[]rune]{
		"interpreted": p,
		"compiled":    compile.MustCompile(p),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok, err := parse.TryParse(q, "aaaa", parse.WithCancel(ctx))
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.Canceled))
		})
	}
}

type recorder struct {
	events []string
}

func (r *recorder) Enter(name string, ctx *parse.Context) {
	r.events = append(r.events, "enter "+name+" "+ctx.Cursor().Position().String())
}

func (r *recorder) Exit(name string, ctx *parse.Context, ok bool) {
	outcome := "fail"
	if ok {
		outcome = "ok"
	}
	r.events = append(r.events, "exit "+name+" "+outcome)
}

func TestCompiledTracingMatchesInterpreted(t *testing.T) {
	grammar := jsonGrammar()
	compiled := compile.MustCompile(grammar)
	input := `[1, {"a": null}]`

	var interp, comp recorder
	_, ok := parse.Parse(grammar, input, parse.WithTracer(&interp))
	require.True(t, ok)
	_, ok = parse.Parse[any](compiled, input, parse.WithTracer(&comp))
	require.True(t, ok)

	require.NotEmpty(t, interp.events)
	assert.Equal(t, interp.events, comp.events)
}

func TestListing(t *testing.T) {
	c := compile.MustCompile(arithmetic())
	listing := c.String()
	assert.True(t, strings.HasPrefix(listing, "proc main (entry)\n"), listing)
	assert.Contains(t, listing, "proc expr1")
	assert.Contains(t, listing, "call")
	assert.Contains(t, listing, "dispatch")
	assert.Len(t, c.Program().Procedures, 2)
}
