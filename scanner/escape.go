package scanner

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Decode turns a quoted literal read by ReadQuotedString into its value.
// Without a backslash it returns a substring of quoted and allocates
// nothing. It reports false for malformed input.
func Decode(quoted string) (string, bool) {
	if len(quoted) < 2 || quoted[0] != quoted[len(quoted)-1] {
		return "", false
	}
	body := quoted[1 : len(quoted)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body, true
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}
		i++
		switch body[i] {
		case '0':
			b.WriteByte(0)
		case '\'', '"', '\\':
			b.WriteByte(body[i])
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			r, ok := decodeHex(body, i+1, 2)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			r, ok := decodeHex(body, i+1, 4)
			if !ok {
				return "", false
			}
			i += 4
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if lo, ok := decodeHex(body, i+3, 4); ok {
					if combined := utf16.DecodeRune(r, lo); combined != utf8.RuneError {
						r = combined
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			return "", false
		}
		i++
	}
	return b.String(), true
}

func decodeHex(s string, at, n int) (rune, bool) {
	if at+n > len(s) {
		return 0, false
	}
	var r rune
	for i := at; i < at+n; i++ {
		v := hexValue(s[i])
		if v < 0 {
			return 0, false
		}
		r = r<<4 | v
	}
	return r, true
}

const hexDigits = "0123456789abcdef"

// Encode quotes s with the given delimiter, escaping the delimiter, the
// backslash and control characters.
func Encode(s string, quote byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == quote || ch == '\\':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case ch == 0:
			b.WriteString(`\0`)
		case ch == '\b':
			b.WriteString(`\b`)
		case ch == '\f':
			b.WriteString(`\f`)
		case ch == '\n':
			b.WriteString(`\n`)
		case ch == '\r':
			b.WriteString(`\r`)
		case ch == '\t':
			b.WriteString(`\t`)
		case ch == '\v':
			b.WriteString(`\v`)
		case ch < 0x20 || ch == 0x7f:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[ch>>4])
			b.WriteByte(hexDigits[ch&0xf])
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
