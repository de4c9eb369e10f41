// Package cursor provides a positional view over a text buffer.
//
// A Cursor is the backtracking primitive of the parsing packages: every
// combinator snapshots a Position before trying something and restores it
// with ResetTo when the attempt fails.
package cursor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EOF is returned by Current and Peek when no character is available.
const EOF rune = -1

// Position is an immutable location in a buffer.
type Position struct {
	Offset int // byte offset from the start of the buffer
	Line   int // 1-based line number
	Column int // 1-based column, counted in characters
}

// Start is the position of the first character of any buffer.
var Start = Position{Offset: 0, Line: 1, Column: 1}

// Sub returns the length in bytes between q and p.
func (p Position) Sub(q Position) int {
	return p.Offset - q.Offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Cursor walks a read-only string buffer one character at a time.
type Cursor struct {
	buf    string
	offset int
	line   int
	column int
	ch     rune
	width  int
}

// New returns a cursor at the beginning of buf.
func New(buf string) *Cursor {
	c := &Cursor{buf: buf}
	c.ResetTo(Start)
	return c
}

func (c *Cursor) decode() {
	if c.offset >= len(c.buf) {
		c.ch, c.width = EOF, 0
		return
	}
	if b := c.buf[c.offset]; b < utf8.RuneSelf {
		c.ch, c.width = rune(b), 1
		return
	}
	c.ch, c.width = utf8.DecodeRuneInString(c.buf[c.offset:])
}

// Buffer returns the whole underlying text.
func (c *Cursor) Buffer() string { return c.buf }

// Current returns the character under the cursor, or EOF.
func (c *Cursor) Current() rune { return c.ch }

// Offset returns the byte offset of the current character.
func (c *Cursor) Offset() int { return c.offset }

// EOF reports whether the cursor is past the last character.
func (c *Cursor) EOF() bool { return c.width == 0 }

// Position returns a snapshot of the cursor that ResetTo accepts.
func (c *Cursor) Position() Position {
	return Position{Offset: c.offset, Line: c.line, Column: c.column}
}

// ResetTo restores a snapshot taken with Position.
func (c *Cursor) ResetTo(pos Position) {
	c.offset = pos.Offset
	c.line = pos.Line
	c.column = pos.Column
	c.decode()
}

// Advance moves past the current character.
func (c *Cursor) Advance() {
	if c.width == 0 {
		return
	}
	switch c.ch {
	case '\n':
		c.line++
		c.column = 1
	case '\r':
		// the following \n starts the new line
		if c.offset+1 >= len(c.buf) || c.buf[c.offset+1] != '\n' {
			c.column++
		}
	default:
		c.column++
	}
	c.offset += c.width
	c.decode()
}

// AdvanceN moves past n characters or until the end of the buffer.
func (c *Cursor) AdvanceN(n int) {
	for i := 0; i < n && c.width != 0; i++ {
		c.Advance()
	}
}

// AdvanceNoNewLines moves n bytes forward when the caller knows the skipped
// text contains no line breaks. The column advances by the number of
// characters in the skipped text.
func (c *Cursor) AdvanceNoNewLines(n int) {
	end := c.offset + n
	if end > len(c.buf) {
		end = len(c.buf)
	}
	c.column += utf8.RuneCountInString(c.buf[c.offset:end])
	c.offset = end
	c.decode()
}

// Peek returns the character n positions after the current one without
// moving. Peek(0) is Current.
func (c *Cursor) Peek(n int) rune {
	off := c.offset
	for i := 0; i < n; i++ {
		if off >= len(c.buf) {
			return EOF
		}
		if c.buf[off] < utf8.RuneSelf {
			off++
			continue
		}
		_, w := utf8.DecodeRuneInString(c.buf[off:])
		off += w
	}
	if off >= len(c.buf) {
		return EOF
	}
	if b := c.buf[off]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(c.buf[off:])
	return r
}

// MatchChar reports whether the current character is r.
func (c *Cursor) MatchChar(r rune) bool {
	return c.width != 0 && c.ch == r
}

// MatchText reports whether the remaining text starts with s.
func (c *Cursor) MatchText(s string) bool {
	return strings.HasPrefix(c.buf[c.offset:], s)
}

// MatchTextFold is MatchText under Unicode case folding. It returns the
// number of bytes the match spans in the buffer, or -1.
func (c *Cursor) MatchTextFold(s string) int {
	rest := c.buf[c.offset:]
	n := 0
	for _, want := range s {
		if n >= len(rest) {
			return -1
		}
		got, w := utf8.DecodeRuneInString(rest[n:])
		if got != want && !strings.EqualFold(string(got), string(want)) {
			return -1
		}
		n += w
	}
	return n
}

// Remaining returns the text from the cursor to the end of the buffer.
func (c *Cursor) Remaining() string {
	return c.buf[c.offset:]
}

// Slice returns the buffer text between two byte offsets.
func (c *Cursor) Slice(start, end int) string {
	return c.buf[start:end]
}
