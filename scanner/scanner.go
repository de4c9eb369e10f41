// Package scanner implements the lexical primitives used by the parse
// package: numbers, identifiers, quoted strings, literal text and
// whitespace.
//
// Every Read method is transactional. It either consumes a complete token,
// fills the span and returns true, or leaves the cursor where it was and
// returns false.
package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/parsnip/cursor"
)

// NumberOptions selects the optional parts of a numeric literal.
type NumberOptions uint8

const (
	// NumberSign accepts a leading '+' or '-'.
	NumberSign NumberOptions = 1 << iota
	// NumberExponent accepts an exponent such as e10 or E-3 on decimals.
	NumberExponent
)

// Scanner reads tokens from a single buffer. It owns its cursor.
type Scanner struct {
	Cursor *cursor.Cursor

	// offset known not to start with whitespace, -1 when unknown
	nonWhitespace int
}

// New returns a scanner positioned at the start of text.
func New(text string) *Scanner {
	return &Scanner{
		Cursor:        cursor.New(text),
		nonWhitespace: -1,
	}
}

// Text returns the buffer being scanned.
func (s *Scanner) Text() string { return s.Cursor.Buffer() }

// SkipWhitespace consumes whitespace, line breaks included, and reports
// whether anything was skipped. Calling it again at the same offset is O(1).
func (s *Scanner) SkipWhitespace() bool {
	c := s.Cursor
	start := c.Offset()
	if start == s.nonWhitespace {
		return false
	}
	for IsWhitespace(c.Current()) {
		c.Advance()
	}
	s.nonWhitespace = c.Offset()
	return s.nonWhitespace != start
}

// PeekPastWhitespace returns the first character at or after the cursor
// that is not whitespace, without moving.
func (s *Scanner) PeekPastWhitespace() rune {
	c := s.Cursor
	if c.Offset() == s.nonWhitespace {
		return c.Current()
	}
	for _, r := range c.Remaining() {
		if !IsWhitespace(r) {
			return r
		}
	}
	return cursor.EOF
}

// ReadChar reads exactly the character r.
func (s *Scanner) ReadChar(r rune, span *TextSpan) bool {
	c := s.Cursor
	if !c.MatchChar(r) {
		return false
	}
	start := c.Offset()
	c.Advance()
	span.set(c.Buffer(), start, c.Offset())
	return true
}

// ReadText reads the literal text.
func (s *Scanner) ReadText(text string, span *TextSpan) bool {
	c := s.Cursor
	if !c.MatchText(text) {
		return false
	}
	start := c.Offset()
	s.advanceOver(len(text))
	span.set(c.Buffer(), start, c.Offset())
	return true
}

// ReadTextFold reads text ignoring case.
func (s *Scanner) ReadTextFold(text string, span *TextSpan) bool {
	c := s.Cursor
	n := c.MatchTextFold(text)
	if n < 0 {
		return false
	}
	start := c.Offset()
	s.advanceOver(n)
	span.set(c.Buffer(), start, c.Offset())
	return true
}

// advanceOver moves n bytes forward, taking the slow path only when the
// skipped text contains a line break.
func (s *Scanner) advanceOver(n int) {
	c := s.Cursor
	skipped := c.Remaining()[:n]
	if strings.ContainsAny(skipped, "\r\n") {
		c.AdvanceN(utf8.RuneCountInString(skipped))
		return
	}
	c.AdvanceNoNewLines(n)
}

// ReadWhile reads one or more characters satisfying pred.
func (s *Scanner) ReadWhile(pred func(rune) bool, span *TextSpan) bool {
	c := s.Cursor
	if c.EOF() || !pred(c.Current()) {
		return false
	}
	start := c.Offset()
	for !c.EOF() && pred(c.Current()) {
		c.Advance()
	}
	span.set(c.Buffer(), start, c.Offset())
	return true
}

// ReadDigits reads one or more ASCII digits.
func (s *Scanner) ReadDigits(span *TextSpan) bool {
	return s.ReadWhile(IsDigit, span)
}

// ReadNonWhitespace reads up to the next whitespace character.
func (s *Scanner) ReadNonWhitespace(span *TextSpan) bool {
	return s.ReadWhile(func(r rune) bool { return !IsWhitespace(r) }, span)
}

func (s *Scanner) readSign(opts NumberOptions) {
	if opts&NumberSign == 0 {
		return
	}
	if ch := s.Cursor.Current(); ch == '+' || ch == '-' {
		s.Cursor.Advance()
	}
}

func (s *Scanner) skipDigits() bool {
	c := s.Cursor
	if !IsDigit(c.Current()) {
		return false
	}
	for IsDigit(c.Current()) {
		c.Advance()
	}
	return true
}

// ReadInteger reads [sign] digit+.
func (s *Scanner) ReadInteger(opts NumberOptions, span *TextSpan) bool {
	c := s.Cursor
	start := c.Position()
	s.readSign(opts)
	if !s.skipDigits() {
		c.ResetTo(start)
		return false
	}
	span.set(c.Buffer(), start.Offset, c.Offset())
	return true
}

// ReadDecimal reads [sign] digit+ [ '.' digit+ ] [ exponent ]. A '.' or
// exponent marker that is not followed by digits fails the whole read.
func (s *Scanner) ReadDecimal(opts NumberOptions, span *TextSpan) bool {
	c := s.Cursor
	start := c.Position()
	s.readSign(opts)
	if !s.skipDigits() {
		c.ResetTo(start)
		return false
	}
	if c.MatchChar('.') {
		c.Advance()
		if !s.skipDigits() {
			c.ResetTo(start)
			return false
		}
	}
	if opts&NumberExponent != 0 && (c.MatchChar('e') || c.MatchChar('E')) {
		c.Advance()
		if ch := c.Current(); ch == '+' || ch == '-' {
			c.Advance()
		}
		if !s.skipDigits() {
			c.ResetTo(start)
			return false
		}
	}
	span.set(c.Buffer(), start.Offset, c.Offset())
	return true
}

// ReadIdentifier reads a letter, '_' or '$' followed by letters, digits, '_'
// or '$'.
func (s *Scanner) ReadIdentifier(span *TextSpan) bool {
	return s.ReadIdentifierFunc(IsIdentifierStart, IsIdentifierPart, span)
}

// ReadIdentifierFunc reads an identifier with custom character classes.
func (s *Scanner) ReadIdentifierFunc(first, rest func(rune) bool, span *TextSpan) bool {
	c := s.Cursor
	if c.EOF() || !first(c.Current()) {
		return false
	}
	start := c.Offset()
	c.Advance()
	for !c.EOF() && rest(c.Current()) {
		c.Advance()
	}
	span.set(c.Buffer(), start, c.Offset())
	return true
}

// DefaultQuotes are the delimiters ReadQuotedString accepts when none are
// given.
var DefaultQuotes = []rune{'"', '\''}

// ReadQuotedString reads a string delimited by one of quotes (ASCII only).
// The span includes the delimiters; use Decode to obtain the value.
func (s *Scanner) ReadQuotedString(span *TextSpan, quotes ...rune) bool {
	if len(quotes) == 0 {
		quotes = DefaultQuotes
	}
	c := s.Cursor
	q := c.Current()
	found := false
	for _, candidate := range quotes {
		if candidate == q && q < utf8.RuneSelf {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	buf := c.Buffer()
	start := c.Position()
	body := start.Offset + 1
	i := strings.IndexByte(buf[body:], byte(q))
	if i < 0 {
		return false
	}
	if strings.IndexByte(buf[body:body+i], '\\') < 0 {
		s.advanceOver(i + 2)
		span.set(buf, start.Offset, c.Offset())
		return true
	}

	c.Advance()
	for {
		switch ch := c.Current(); {
		case c.EOF():
			c.ResetTo(start)
			return false
		case ch == q:
			c.Advance()
			span.set(buf, start.Offset, c.Offset())
			return true
		case ch == '\\':
			c.Advance()
			if !s.skipEscape() {
				c.ResetTo(start)
				return false
			}
		default:
			c.Advance()
		}
	}
}

// skipEscape consumes the part of an escape sequence after the backslash.
func (s *Scanner) skipEscape() bool {
	c := s.Cursor
	digits := 0
	switch c.Current() {
	case '0', '\'', '"', '\\', 'b', 'f', 'n', 'r', 't', 'v':
		c.Advance()
		return true
	case 'x':
		digits = 2
	case 'u':
		digits = 4
	default:
		return false
	}
	c.Advance()
	for i := 0; i < digits; i++ {
		if !IsHexDigit(c.Current()) {
			return false
		}
		c.Advance()
	}
	return true
}
