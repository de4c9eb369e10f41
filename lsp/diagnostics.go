package lsp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/parsnip/cursor"
	"github.com/dhamidi/parsnip/parse"
)

// Diagnose parses text with p and converts the outcome to diagnostics.
// The result is empty, never nil, when text matches. A mismatch is
// reported at the furthest position reached by a Named parser, so grammars
// built with ebnf.WithNamedProductions give the most precise locations.
func Diagnose[T any](ctx context.Context, p parse.Parser[T], text string) []protocol.Diagnostic {
	var far furthest
	pctx := parse.NewContext(text, parse.WithCancel(ctx), parse.WithTracer(&far))
	var r parse.Result[T]
	ok, err := parse.Run(pctx, p, &r)

	diagnostics := []protocol.Diagnostic{}
	switch {
	case err != nil:
		var perr *parse.ParseError
		if !errors.As(err, &perr) {
			return append(diagnostics, diagnostic(text, 0, err.Error()))
		}
		diagnostics = append(diagnostics, diagnostic(text, perr.Pos.Offset, perr.Message))
	case !ok:
		diagnostics = append(diagnostics, diagnostic(text, far.pos.Offset, unexpected(text, far.pos.Offset)))
	}
	return diagnostics
}

// furthest records the rightmost position at which a named parser was
// entered or left successfully. A failed parse is reported there.
type furthest struct {
	pos cursor.Position
}

func (f *furthest) Enter(name string, ctx *parse.Context) {
	f.update(ctx.Cursor().Position())
}

func (f *furthest) Exit(name string, ctx *parse.Context, ok bool) {
	if ok {
		f.update(ctx.Cursor().Position())
	}
}

func (f *furthest) update(pos cursor.Position) {
	if pos.Offset > f.pos.Offset {
		f.pos = pos
	}
}

func unexpected(text string, offset int) string {
	if offset >= len(text) {
		return "syntax error: unexpected end of input"
	}
	r, _ := utf8.DecodeRuneInString(text[offset:])
	return fmt.Sprintf("syntax error: unexpected %q", r)
}

func diagnostic(text string, offset int, message string) protocol.Diagnostic {
	start := toProtocol(text, offset)
	end := start
	if offset < len(text) {
		_, w := utf8.DecodeRuneInString(text[offset:])
		end = toProtocol(text, offset+w)
	}
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// toProtocol converts a byte offset to a zero-based line and UTF-16
// character index.
func toProtocol(text string, offset int) protocol.Position {
	offset = min(offset, len(text))
	before := text[:offset]
	line := strings.Count(before, "\n")
	units := 0
	for _, r := range before[strings.LastIndexByte(before, '\n')+1:] {
		units += utf16.RuneLen(r)
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}
