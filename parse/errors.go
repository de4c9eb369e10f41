package parse

import (
	"fmt"

	"github.com/dhamidi/parsnip/cursor"
)

// ParseError reports a structural failure or a cancellation together with
// the position where it was detected. Ordinary mismatches are never
// reported as errors.
type ParseError struct {
	Message string
	Pos     cursor.Position
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// panic payloads; recovered only by the entry points
type structural struct{ err *ParseError }
type cancelled struct{ err *ParseError }

// Parse runs p on text and returns its value. A mismatch or a structural
// failure yields false.
func Parse[T any](p Parser[T], text string, opts ...Option) (T, bool) {
	v, ok, err := TryParse(p, text, opts...)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, ok
}

// TryParse runs p on text. A mismatch returns ok == false and a nil error.
// Structural failures and cancellation return a *ParseError. Any other
// panic is a programming error and propagates.
func TryParse[T any](p Parser[T], text string, opts ...Option) (value T, ok bool, err error) {
	ctx := NewContext(text, opts...)
	var r Result[T]
	ok, err = Run(ctx, p, &r)
	if !ok || err != nil {
		var zero T
		return zero, false, err
	}
	return r.Value, true, nil
}

// Run executes p against an existing context, converting structural
// failures and cancellation into an error.
func Run[T any](ctx *Context, p Parser[T], r *Result[T]) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			switch sig := rec.(type) {
			case structural:
				ok, err = false, sig.err
			case cancelled:
				ok, err = false, sig.err
			default:
				panic(rec)
			}
		}
	}()
	ctx.CheckCancel()
	return p.Parse(ctx, r), nil
}
