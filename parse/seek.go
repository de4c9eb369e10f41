package parse

import "github.com/dhamidi/parsnip/scanner"

// Seekable is implemented by parsers that can only match when the input
// starts with one of a known set of characters. When skipWhitespace is true
// the character is the one found after leading whitespace. ok is false when
// the parser cannot make that promise, for example because its inner parser
// can match the empty string.
type Seekable interface {
	Leading() (chars []rune, skipWhitespace bool, ok bool)
}

func leadingOf(p any) ([]rune, bool, bool) {
	if s, ok := p.(Seekable); ok {
		return s.Leading()
	}
	return nil, false, false
}

// table maps a leading character to the ordered indices of the
// alternatives that may start with it.
type table struct {
	used   bool
	ascii  [128][]int
	sparse map[rune][]int
}

func (t *table) add(r rune, idx int) {
	t.used = true
	if r >= 0 && r < 128 {
		t.ascii[r] = appendIndex(t.ascii[r], idx)
		return
	}
	if t.sparse == nil {
		t.sparse = make(map[rune][]int)
	}
	t.sparse[r] = appendIndex(t.sparse[r], idx)
}

func appendIndex(list []int, idx int) []int {
	if n := len(list); n > 0 && list[n-1] == idx {
		return list
	}
	return append(list, idx)
}

func (t *table) lookup(r rune) []int {
	if r >= 0 && r < 128 {
		return t.ascii[r]
	}
	return t.sparse[r]
}

// Dispatch selects, in declaration order, the alternatives of a choice that
// can match at the current position. Alternatives that skip whitespace are
// keyed on the character after it; the others on the current character.
type Dispatch struct {
	raw table
	ws  table
}

// NewDispatch builds a dispatch over alts, or returns nil if one of them is
// not Seekable.
func NewDispatch(alts []any) *Dispatch {
	d := &Dispatch{}
	for i, alt := range alts {
		chars, skip, ok := leadingOf(alt)
		if !ok || len(chars) == 0 {
			return nil
		}
		t := &d.raw
		if skip {
			t = &d.ws
		}
		for _, r := range chars {
			t.add(r, i)
		}
	}
	return d
}

// Candidates returns the indices of the alternatives worth trying. It does
// not move the cursor.
func (d *Dispatch) Candidates(s *scanner.Scanner) []int {
	var raw, ws []int
	if d.raw.used {
		raw = d.raw.lookup(s.Cursor.Current())
	}
	if d.ws.used {
		ws = d.ws.lookup(s.PeekPastWhitespace())
	}
	switch {
	case len(ws) == 0:
		return raw
	case len(raw) == 0:
		return ws
	}
	merged := make([]int, 0, len(raw)+len(ws))
	i, j := 0, 0
	for i < len(raw) && j < len(ws) {
		if raw[i] < ws[j] {
			merged = append(merged, raw[i])
			i++
		} else {
			merged = append(merged, ws[j])
			j++
		}
	}
	merged = append(merged, raw[i:]...)
	return append(merged, ws[j:]...)
}
