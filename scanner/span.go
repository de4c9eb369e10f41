package scanner

// TextSpan is a view of part of a buffer. It never copies the buffer.
type TextSpan struct {
	Buffer string
	Offset int
	Length int
}

// NewTextSpan returns a span covering all of s.
func NewTextSpan(s string) TextSpan {
	return TextSpan{Buffer: s, Length: len(s)}
}

// String returns the spanned text. Slicing a Go string does not allocate.
func (t TextSpan) String() string {
	return t.Buffer[t.Offset : t.Offset+t.Length]
}

func (t TextSpan) Len() int { return t.Length }

func (t TextSpan) IsEmpty() bool { return t.Length == 0 }

// End returns the offset just past the span.
func (t TextSpan) End() int { return t.Offset + t.Length }

// Equal compares the spanned text, not the buffers the spans point into.
func (t TextSpan) Equal(other TextSpan) bool {
	return t.String() == other.String()
}

func (t *TextSpan) set(buf string, start, end int) {
	t.Buffer = buf
	t.Offset = start
	t.Length = end - start
}
