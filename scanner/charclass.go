package scanner

import "unicode"

const (
	classDigit uint8 = 1 << iota
	classHex
	classIdentStart
	classIdentPart
	classWhitespace
	classNewLine
)

// asciiClasses is built once and never written afterwards.
var asciiClasses = func() [128]uint8 {
	var t [128]uint8
	for c := '0'; c <= '9'; c++ {
		t[c] |= classDigit | classHex | classIdentPart
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] |= classIdentStart | classIdentPart
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] |= classIdentStart | classIdentPart
	}
	for _, c := range "abcdefABCDEF" {
		t[c] |= classHex
	}
	t['_'] |= classIdentStart | classIdentPart
	t['$'] |= classIdentStart | classIdentPart
	for _, c := range " \t\v\f\r\n" {
		t[c] |= classWhitespace
	}
	t['\n'] |= classNewLine
	t['\r'] |= classNewLine
	return t
}()

func IsDigit(r rune) bool {
	return r >= 0 && r < 128 && asciiClasses[r]&classDigit != 0
}

func IsHexDigit(r rune) bool {
	return r >= 0 && r < 128 && asciiClasses[r]&classHex != 0
}

// IsIdentifierStart reports whether r may start an identifier: letters,
// '_' and '$'.
func IsIdentifierStart(r rune) bool {
	if r >= 0 && r < 128 {
		return asciiClasses[r]&classIdentStart != 0
	}
	return unicode.IsLetter(r)
}

func IsIdentifierPart(r rune) bool {
	if r >= 0 && r < 128 {
		return asciiClasses[r]&classIdentPart != 0
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsWhitespace includes line breaks.
func IsWhitespace(r rune) bool {
	if r >= 0 && r < 128 {
		return asciiClasses[r]&classWhitespace != 0
	}
	return r > 0 && unicode.IsSpace(r)
}

func IsNewLine(r rune) bool {
	return r >= 0 && r < 128 && asciiClasses[r]&classNewLine != 0
}

func hexValue(b byte) rune {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0')
	case b >= 'a' && b <= 'f':
		return rune(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return rune(b-'A') + 10
	}
	return -1
}
