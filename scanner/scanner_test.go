package scanner

import (
	"strings"
	"testing"
	"unsafe"
)

func TestReadDecimal(t *testing.T) {
	tests := []struct {
		input string
		opts  NumberOptions
		want  string
		ok    bool
	}{
		{"123", 0, "123", true},
		{"12.5x", 0, "12.5", true},
		{"12.", 0, "", false},
		{"12.a", 0, "", false},
		{".5", 0, "", false},
		{"-1.5", NumberSign, "-1.5", true},
		{"-1.5", 0, "", false},
		{"1e10", NumberExponent, "1e10", true},
		{"1.5E-3", NumberExponent, "1.5E-3", true},
		{"1e", NumberExponent, "", false},
		{"1e", 0, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := New(tt.input)
			var span TextSpan
			ok := s.ReadDecimal(tt.opts, &span)
			if ok != tt.ok {
				t.Fatalf("ReadDecimal = %v, want %v", ok, tt.ok)
			}
			if !ok {
				if s.Cursor.Offset() != 0 {
					t.Errorf("Offset = %d after failure, want 0", s.Cursor.Offset())
				}
				return
			}
			if span.String() != tt.want {
				t.Errorf("span = %q, want %q", span.String(), tt.want)
			}
			if s.Cursor.Offset() != len(tt.want) {
				t.Errorf("Offset = %d, want %d", s.Cursor.Offset(), len(tt.want))
			}
		})
	}
}

func TestReadInteger(t *testing.T) {
	s := New("+42;")
	var span TextSpan
	if s.ReadInteger(0, &span) {
		t.Fatalf("ReadInteger accepted a sign without NumberSign")
	}
	if !s.ReadInteger(NumberSign, &span) {
		t.Fatalf("ReadInteger = false, want true")
	}
	if span.String() != "+42" {
		t.Errorf("span = %q, want %q", span.String(), "+42")
	}
	s = New("-")
	if s.ReadInteger(NumberSign, &span) || s.Cursor.Offset() != 0 {
		t.Errorf("lone sign consumed input")
	}
}

func TestReadIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"foo bar", "foo"},
		{"_x1", "_x1"},
		{"$id", "$id"},
		{"été", "été"},
		{"1abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := New(tt.input)
			var span TextSpan
			ok := s.ReadIdentifier(&span)
			if ok != (tt.want != "") {
				t.Fatalf("ReadIdentifier = %v", ok)
			}
			if ok && span.String() != tt.want {
				t.Errorf("span = %q, want %q", span.String(), tt.want)
			}
		})
	}
}

func TestReadQuotedString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello" rest`, `"hello"`},
		{`'single'`, `'single'`},
		{`"a\"b"`, `"a\"b"`},
		{`"tab\tnew\nline"`, `"tab\tnew\nline"`},
		{`"\x41é"`, `"\x41é"`},
		{`"\u0041\uD83D\uDE00" rest`, `"\u0041\uD83D\uDE00"`},
		{`"\uZZZZ"`, ""},
		{`"unterminated`, ""},
		{`"bad \q escape"`, ""},
		{`"short \x4"`, ""},
		{`"short \u12"`, ""},
		{`"\`, ""},
		{`nope`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := New(tt.input)
			var span TextSpan
			ok := s.ReadQuotedString(&span)
			if ok != (tt.want != "") {
				t.Fatalf("ReadQuotedString = %v", ok)
			}
			if !ok {
				if s.Cursor.Offset() != 0 {
					t.Errorf("Offset = %d after failure, want 0", s.Cursor.Offset())
				}
				return
			}
			if span.String() != tt.want {
				t.Errorf("span = %q, want %q", span.String(), tt.want)
			}
		})
	}
}

func TestReadQuotedStringTracksLines(t *testing.T) {
	s := New("\"a\nb\"x")
	var span TextSpan
	if !s.ReadQuotedString(&span) {
		t.Fatalf("ReadQuotedString = false")
	}
	pos := s.Cursor.Position()
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("Position = %v, want 2:3", pos)
	}
}

func TestReadQuotedStringCustomQuotes(t *testing.T) {
	s := New("`raw`")
	var span TextSpan
	if s.ReadQuotedString(&span) {
		t.Fatalf("backtick accepted with default quotes")
	}
	if !s.ReadQuotedString(&span, '`') {
		t.Fatalf("backtick rejected")
	}
}

func TestReadText(t *testing.T) {
	s := New("Select *")
	var span TextSpan
	if s.ReadText("select", &span) {
		t.Errorf("ReadText matched with different case")
	}
	if !s.ReadTextFold("select", &span) {
		t.Fatalf("ReadTextFold = false")
	}
	if span.String() != "Select" {
		t.Errorf("span = %q", span.String())
	}
	if s.Cursor.Position().Column != 7 {
		t.Errorf("Column = %d, want 7", s.Cursor.Position().Column)
	}
}

func TestSkipWhitespace(t *testing.T) {
	s := New("  \n\t x")
	if !s.SkipWhitespace() {
		t.Fatalf("SkipWhitespace = false")
	}
	if s.Cursor.Current() != 'x' {
		t.Errorf("Current = %q, want 'x'", s.Cursor.Current())
	}
	if s.SkipWhitespace() {
		t.Errorf("second SkipWhitespace reported progress")
	}
	if s.nonWhitespace != s.Cursor.Offset() {
		t.Errorf("cache = %d, want %d", s.nonWhitespace, s.Cursor.Offset())
	}
}

func TestPeekPastWhitespace(t *testing.T) {
	s := New("   (")
	if got := s.PeekPastWhitespace(); got != '(' {
		t.Errorf("PeekPastWhitespace = %q, want '('", got)
	}
	if s.Cursor.Offset() != 0 {
		t.Errorf("PeekPastWhitespace moved the cursor")
	}
	s = New("   ")
	if got := s.PeekPastWhitespace(); got != -1 {
		t.Errorf("PeekPastWhitespace = %q, want EOF", got)
	}
}

func TestTextSpanEqual(t *testing.T) {
	a := TextSpan{Buffer: "xxabc", Offset: 2, Length: 3}
	b := NewTextSpan("abc")
	if !a.Equal(b) {
		t.Errorf("spans with equal text are not Equal")
	}
	if a.Equal(TextSpan{Buffer: "abd", Length: 3}) {
		t.Errorf("spans with different text are Equal")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{`"plain"`, "plain", true},
		{`'it\'s'`, "it's", true},
		{`"\0\b\f\n\r\t\v\\\""`, "\x00\b\f\n\r\t\v\\\"", true},
		{`"\x41"`, "A", true},
		{`"\u0041"`, "A", true},
		{`"\u00e9t\u00E9"`, "été", true},
		{`"\uD83D\uDE00"`, "😀", true},
		{`"a\uD83D\uDE00b"`, "a😀b", true},
		{`"\uD83D"`, "\uFFFD", true},
		{`"\uD83Dx"`, "\uFFFDx", true},
		{`"\uD83D\u0041"`, "\uFFFDA", true},
		{`"\uDE00"`, "\uFFFD", true},
		{`"\u12"`, "", false},
		{`"\uZZZZ"`, "", false},
		{`"é"`, "é", true},
		{`"😀"`, "😀", true},
		{`"\q"`, "", false},
		{`"\x4"`, "", false},
		{`"x`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Decode(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Decode = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeWithoutEscapesDoesNotCopy(t *testing.T) {
	in := `"no escapes here"`
	got, ok := Decode(in)
	if !ok {
		t.Fatalf("Decode failed")
	}
	if unsafe.StringData(got) != unsafe.StringData(in[1:]) {
		t.Errorf("Decode copied a string without escapes")
	}
	allocs := testing.AllocsPerRun(100, func() { Decode(in) })
	if allocs != 0 {
		t.Errorf("Decode allocated %v times", allocs)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"quote \" and 'single'",
		"back\\slash",
		"\x00\b\f\n\r\t\v",
		"\x01\x1f\x7f",
		"unicode é 😀",
		strings.Repeat("\\\"", 10),
	}
	for _, in := range inputs {
		for _, q := range []byte{'"', '\''} {
			enc := Encode(in, q)
			s := New(enc)
			var span TextSpan
			if !s.ReadQuotedString(&span) || span.String() != enc {
				t.Errorf("ReadQuotedString rejected Encode(%q) = %s", in, enc)
				continue
			}
			got, ok := Decode(enc)
			if !ok || got != in {
				t.Errorf("Decode(Encode(%q)) = %q, %v", in, got, ok)
			}
		}
	}
}

func TestCharClasses(t *testing.T) {
	if !IsDigit('7') || IsDigit('a') || IsDigit(-1) {
		t.Errorf("IsDigit")
	}
	if !IsHexDigit('F') || IsHexDigit('g') {
		t.Errorf("IsHexDigit")
	}
	if !IsWhitespace(' ') || IsWhitespace('x') || IsWhitespace(-1) {
		t.Errorf("IsWhitespace")
	}
	if !IsNewLine('\r') || IsNewLine(' ') {
		t.Errorf("IsNewLine")
	}
}
