package parse

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/parsnip/scanner"
)

// TextParser matches a literal string.
type TextParser struct {
	text string
	fold bool
}

// Text matches s exactly.
func Text(s string) *TextParser {
	if s == "" {
		panic("parse.Text: empty text")
	}
	return &TextParser{text: s}
}

// TextFold matches s ignoring case.
func TextFold(s string) *TextParser {
	if s == "" {
		panic("parse.TextFold: empty text")
	}
	return &TextParser{text: s, fold: true}
}

func (p *TextParser) Parse(ctx *Context, r *Result[string]) bool {
	var span scanner.TextSpan
	var ok bool
	if p.fold {
		ok = ctx.Scanner.ReadTextFold(p.text, &span)
	} else {
		ok = ctx.Scanner.ReadText(p.text, &span)
	}
	if !ok {
		return false
	}
	r.Set(span.Offset, span.End(), span.String())
	return true
}

func (p *TextParser) Leading() ([]rune, bool, bool) {
	first, _ := utf8.DecodeRuneInString(p.text)
	if !p.fold {
		return []rune{first}, false, true
	}
	return foldedRunes(first), false, true
}

func (p *TextParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "text", Erase[string](p))
}

func (p *TextParser) String() string { return strconv.Quote(p.text) }

func foldedRunes(r rune) []rune {
	set := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		set = append(set, f)
	}
	return set
}

// CharParser matches one specific character.
type CharParser struct {
	char rune
}

func Char(c rune) *CharParser {
	return &CharParser{char: c}
}

func (p *CharParser) Parse(ctx *Context, r *Result[rune]) bool {
	c := ctx.Cursor()
	if !c.MatchChar(p.char) {
		return false
	}
	start := c.Offset()
	c.Advance()
	r.Set(start, c.Offset(), p.char)
	return true
}

func (p *CharParser) Leading() ([]rune, bool, bool) {
	return []rune{p.char}, false, true
}

func (p *CharParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "char", Erase[rune](p))
}

func (p *CharParser) String() string { return strconv.QuoteRune(p.char) }

// setParser matches one character accepted by a predicate.
type setParser struct {
	accept  func(rune) bool
	leading []rune
}

// maxLeading bounds the dispatch table entries a character set may add.
const maxLeading = 256

// CharRange matches one character between lo and hi inclusive.
func CharRange(lo, hi rune) Parser[rune] {
	if lo > hi {
		panic("parse.CharRange: empty range")
	}
	p := &setParser{accept: func(r rune) bool { return r >= lo && r <= hi }}
	if hi-lo < maxLeading {
		for r := lo; r <= hi; r++ {
			p.leading = append(p.leading, r)
		}
	}
	return p
}

// AnyOf matches one of the characters in set.
func AnyOf(set string) Parser[rune] {
	if set == "" {
		panic("parse.AnyOf: empty set")
	}
	p := &setParser{accept: func(r rune) bool { return strings.ContainsRune(set, r) }}
	p.leading = []rune(set)
	return p
}

func (p *setParser) Parse(ctx *Context, r *Result[rune]) bool {
	c := ctx.Cursor()
	ch := c.Current()
	if c.EOF() || !p.accept(ch) {
		return false
	}
	start := c.Offset()
	c.Advance()
	r.Set(start, c.Offset(), ch)
	return true
}

func (p *setParser) Leading() ([]rune, bool, bool) {
	return p.leading, false, p.leading != nil
}

func (p *setParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "charset", Erase[rune](p))
}

type patternParser struct {
	accept   func(rune) bool
	min, max int
}

// Pattern matches between min and max characters accepted by pred. A max
// of zero means no upper bound.
func Pattern(pred func(rune) bool, min, max int) Parser[string] {
	if pred == nil {
		panic("parse.Pattern: nil predicate")
	}
	if min < 1 || (max != 0 && max < min) {
		panic("parse.Pattern: invalid bounds")
	}
	return &patternParser{accept: pred, min: min, max: max}
}

func (p *patternParser) Parse(ctx *Context, r *Result[string]) bool {
	c := ctx.Cursor()
	start := c.Position()
	n := 0
	for !c.EOF() && (p.max == 0 || n < p.max) && p.accept(c.Current()) {
		c.Advance()
		n++
	}
	if n < p.min {
		c.ResetTo(start)
		return false
	}
	r.Set(start.Offset, c.Offset(), c.Slice(start.Offset, c.Offset()))
	return true
}

func (p *patternParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "pattern", Erase[string](p))
}

type integerParser struct {
	opts scanner.NumberOptions
}

// Integer matches decimal digits, with a sign when opts allow it, and
// decodes them as an int64. Out-of-range literals do not match.
func Integer(opts scanner.NumberOptions) Parser[int64] {
	return &integerParser{opts: opts}
}

func (p *integerParser) Parse(ctx *Context, r *Result[int64]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var span scanner.TextSpan
	if !ctx.Scanner.ReadInteger(p.opts, &span) {
		return false
	}
	v, err := strconv.ParseInt(span.String(), 10, 64)
	if err != nil {
		c.ResetTo(start)
		return false
	}
	r.Set(span.Offset, span.End(), v)
	return true
}

func (p *integerParser) Leading() ([]rune, bool, bool) {
	return numberLeading(p.opts), false, true
}

func (p *integerParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "integer", Erase[int64](p))
}

type decimalParser struct {
	opts scanner.NumberOptions
}

// Decimal matches digits with an optional fraction, and an exponent when
// opts allow it, decoded as a float64. Infinite results do not match.
func Decimal(opts scanner.NumberOptions) Parser[float64] {
	return &decimalParser{opts: opts}
}

func (p *decimalParser) Parse(ctx *Context, r *Result[float64]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var span scanner.TextSpan
	if !ctx.Scanner.ReadDecimal(p.opts, &span) {
		return false
	}
	v, err := strconv.ParseFloat(span.String(), 64)
	if err != nil || math.IsInf(v, 0) {
		c.ResetTo(start)
		return false
	}
	r.Set(span.Offset, span.End(), v)
	return true
}

func (p *decimalParser) Leading() ([]rune, bool, bool) {
	return numberLeading(p.opts), false, true
}

func (p *decimalParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "decimal", Erase[float64](p))
}

func numberLeading(opts scanner.NumberOptions) []rune {
	lead := []rune("0123456789")
	if opts&scanner.NumberSign != 0 {
		lead = append(lead, '+', '-')
	}
	return lead
}

type quotedParser struct {
	quotes []rune
}

// QuotedString matches a quoted literal and produces its decoded value. The
// span includes the quotes. Without arguments '"' and '\'' both delimit.
func QuotedString(quotes ...rune) Parser[string] {
	if len(quotes) == 0 {
		quotes = scanner.DefaultQuotes
	}
	for _, q := range quotes {
		if q >= utf8.RuneSelf {
			panic("parse.QuotedString: quotes must be ASCII")
		}
	}
	return &quotedParser{quotes: quotes}
}

func (p *quotedParser) Parse(ctx *Context, r *Result[string]) bool {
	c := ctx.Cursor()
	start := c.Position()
	var span scanner.TextSpan
	if !ctx.Scanner.ReadQuotedString(&span, p.quotes...) {
		return false
	}
	v, ok := scanner.Decode(span.String())
	if !ok {
		c.ResetTo(start)
		return false
	}
	r.Set(span.Offset, span.End(), v)
	return true
}

func (p *quotedParser) Leading() ([]rune, bool, bool) {
	return p.quotes, false, true
}

func (p *quotedParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "string", Erase[string](p))
}

type identifierParser struct {
	first, rest func(rune) bool
}

// Identifier matches a letter, '_' or '$' followed by letters, digits, '_'
// or '$'.
func Identifier() Parser[string] {
	return &identifierParser{first: scanner.IsIdentifierStart, rest: scanner.IsIdentifierPart}
}

// IdentifierFunc matches an identifier with custom character classes.
func IdentifierFunc(first, rest func(rune) bool) Parser[string] {
	if first == nil || rest == nil {
		panic("parse.IdentifierFunc: nil predicate")
	}
	return &identifierParser{first: first, rest: rest}
}

func (p *identifierParser) Parse(ctx *Context, r *Result[string]) bool {
	var span scanner.TextSpan
	if !ctx.Scanner.ReadIdentifierFunc(p.first, p.rest, &span) {
		return false
	}
	r.Set(span.Offset, span.End(), span.String())
	return true
}

func (p *identifierParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "identifier", Erase[string](p))
}

type nonWhitespaceParser struct{}

// NonWhitespace matches up to the next whitespace character.
func NonWhitespace() Parser[string] { return nonWhitespaceParser{} }

func (nonWhitespaceParser) Parse(ctx *Context, r *Result[string]) bool {
	var span scanner.TextSpan
	if !ctx.Scanner.ReadNonWhitespace(&span) {
		return false
	}
	r.Set(span.Offset, span.End(), span.String())
	return true
}

func (p nonWhitespaceParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "nonws", Erase[string](p))
}

type eofParser struct{}

// Eof matches the end of input.
func Eof() Parser[Unit] { return eofParser{} }

func (eofParser) Parse(ctx *Context, r *Result[Unit]) bool {
	c := ctx.Cursor()
	if !c.EOF() {
		return false
	}
	r.Set(c.Offset(), c.Offset(), Unit{})
	return true
}

func (p eofParser) Lower(e *Emitter) Fragment {
	return emitMatch(e, "eof", Erase[Unit](p))
}

type alwaysParser[T any] struct {
	value T
}

// Always succeeds without consuming input and produces value.
func Always[T any](value T) Parser[T] {
	return &alwaysParser[T]{value: value}
}

func (p *alwaysParser[T]) Parse(ctx *Context, r *Result[T]) bool {
	off := ctx.Cursor().Offset()
	r.Set(off, off, p.value)
	return true
}

func (p *alwaysParser[T]) Lower(e *Emitter) Fragment {
	return emitMatch(e, "always", Erase[T](p))
}
