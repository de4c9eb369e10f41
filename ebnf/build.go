package ebnf

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	xebnf "golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsnip/parse"
)

// Option configures Build.
type Option func(*builder)

// WithoutWhitespace disables whitespace skipping in syntactic productions.
func WithoutWhitespace() Option {
	return func(b *builder) {
		b.skipWhitespace = false
	}
}

// WithNamedProductions wraps every production in parse.Named so that a
// tracer sees production names.
func WithNamedProductions() Option {
	return func(b *builder) {
		b.named = true
	}
}

type builder struct {
	grammar        xebnf.Grammar
	productions    map[string]*parse.Deferred[*Node]
	skipWhitespace bool
	named          bool
	err            error
}

// Build returns a parser for start that must consume the whole input,
// trailing whitespace aside. The grammar is verified first; left-recursive
// productions are rejected.
func Build(grammar xebnf.Grammar, start string, opts ...Option) (parse.Parser[*Node], error) {
	if err := xebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	if err := checkLeftRecursion(grammar, start); err != nil {
		return nil, err
	}
	b := &builder{
		grammar:        grammar,
		productions:    make(map[string]*parse.Deferred[*Node]),
		skipWhitespace: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	root := b.production(start)
	if b.err != nil {
		return nil, b.err
	}
	log.Debugf("built %d productions from %s", len(b.productions), start)
	end := parse.Eof()
	if b.skipWhitespace && !IsLexical(start) {
		end = parse.SkipWhitespace(end)
	}
	return parse.Left[*Node](root, end), nil
}

func token[T any](b *builder, p parse.Parser[T]) parse.Parser[T] {
	if !b.skipWhitespace {
		return p
	}
	return parse.SkipWhitespace(p)
}

func (b *builder) production(name string) *parse.Deferred[*Node] {
	if d, ok := b.productions[name]; ok {
		return d
	}
	d := parse.NewDeferredNamed[*Node](name)
	b.productions[name] = d

	prod := b.grammar[name]
	lexical := IsLexical(name)
	var body parse.Parser[[]*Node]
	if prod == nil || prod.Expr == nil {
		body = parse.Always[[]*Node](nil)
	} else {
		body = b.expr(prod.Expr, lexical)
	}

	var p parse.Parser[*Node]
	if lexical {
		p = parse.ThenSpan(parse.Capture(body), func(start, end int, text string) *Node {
			return &Node{Kind: name, Text: text, Start: start, End: end}
		})
	} else {
		p = parse.ThenSpan(body, func(start, end int, children []*Node) *Node {
			return &Node{Kind: name, Start: start, End: end, Children: children}
		})
	}
	if b.named {
		p = parse.Named(name, p)
	}
	d.Set(p)
	return d
}

// expr builds the parser of an expression. In lexical context the value is
// always nil: the enclosing lexical production captures the text.
func (b *builder) expr(expr xebnf.Expression, lexical bool) parse.Parser[[]*Node] {
	switch e := expr.(type) {
	case xebnf.Alternative:
		alts := make([]parse.Parser[[]*Node], len(e))
		for i, alt := range e {
			alts[i] = b.expr(alt, lexical)
		}
		return parse.OneOf(alts...)
	case xebnf.Sequence:
		p := b.expr(e[len(e)-1], lexical)
		for i := len(e) - 2; i >= 0; i-- {
			p = parse.Then(parse.Seq2(b.expr(e[i], lexical), p), concat)
		}
		return p
	case *xebnf.Group:
		return b.expr(e.Body, lexical)
	case *xebnf.Option:
		return parse.ZeroOrOne(b.expr(e.Body, lexical))
	case *xebnf.Repetition:
		return parse.Then(parse.ZeroOrMany(b.expr(e.Body, lexical)), flatten)
	case *xebnf.Token:
		if e.String == "" {
			return parse.Always[[]*Node](nil)
		}
		lit := parse.Text(e.String)
		if lexical {
			return parse.ThenValue[string, []*Node](lit, nil)
		}
		return parse.ThenSpan(token[string](b, lit), leaf[string])
	case *xebnf.Range:
		lo, _ := utf8.DecodeRuneInString(e.Begin.String)
		hi, _ := utf8.DecodeRuneInString(e.End.String)
		if lo > hi {
			b.fail("%s: empty range %q … %q", e.Pos(), e.Begin.String, e.End.String)
			lo, hi = hi, lo
		}
		r := parse.CharRange(lo, hi)
		if lexical {
			return parse.ThenValue[rune, []*Node](r, nil)
		}
		return parse.ThenSpan(token(b, r), leaf[rune])
	case *xebnf.Name:
		ref := b.production(e.String)
		if lexical {
			return parse.ThenValue[*Node, []*Node](ref, nil)
		}
		var p parse.Parser[*Node] = ref
		if IsLexical(e.String) {
			p = token(b, p)
		}
		return parse.Then(p, func(n *Node) []*Node { return []*Node{n} })
	}
	b.fail("%s: unsupported expression %T", expr.Pos(), expr)
	return parse.Always[[]*Node](nil)
}

func (b *builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

func leaf[T string | rune](start, end int, v T) []*Node {
	text := string(v)
	return []*Node{{Kind: strconv.Quote(text), Text: text, Start: start, End: end}}
}

func concat(t parse.Tuple2[[]*Node, []*Node]) []*Node {
	switch {
	case len(t.V1) == 0:
		return t.V2
	case len(t.V2) == 0:
		return t.V1
	}
	out := make([]*Node, 0, len(t.V1)+len(t.V2))
	out = append(out, t.V1...)
	return append(out, t.V2...)
}

func flatten(items [][]*Node) []*Node {
	var out []*Node
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}
