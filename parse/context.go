package parse

import (
	"context"
	"fmt"

	"github.com/dhamidi/parsnip/cursor"
	"github.com/dhamidi/parsnip/scanner"
)

// Tracer receives enter and exit events from Named parsers.
type Tracer interface {
	Enter(name string, ctx *Context)
	Exit(name string, ctx *Context, ok bool)
}

// Context carries the state of one top-level parse call. It is created per
// call and must not be shared between goroutines.
type Context struct {
	Scanner *scanner.Scanner

	cancel context.Context
	done   <-chan struct{}
	tracer Tracer
}

type Option func(*Context)

// WithCancel makes the parse observe ctx. Repetition loops and entry points
// poll it; once ctx is done the parse stops with a cancellation error.
func WithCancel(ctx context.Context) Option {
	return func(c *Context) {
		c.cancel = ctx
		c.done = ctx.Done()
	}
}

func WithTracer(t Tracer) Option {
	return func(c *Context) {
		c.tracer = t
	}
}

// NewContext prepares a parse of text.
func NewContext(text string, opts ...Option) *Context {
	c := &Context{Scanner: scanner.New(text)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cursor is a shortcut for c.Scanner.Cursor.
func (c *Context) Cursor() *cursor.Cursor { return c.Scanner.Cursor }

func (c *Context) SkipWhitespace() { c.Scanner.SkipWhitespace() }

// CheckCancel stops the parse if the cancellation signal fired. The stop
// unwinds to TryParse and cannot be intercepted by combinators.
func (c *Context) CheckCancel() {
	if c.done == nil {
		return
	}
	select {
	case <-c.done:
		panic(cancelled{err: &ParseError{
			Message: "parse cancelled",
			Pos:     c.Cursor().Position(),
			Cause:   c.cancel.Err(),
		}})
	default:
	}
}

// Fail aborts the parse with a structural error at the current position.
// It is meant for hand-written sub-parsers (see Func) that find a required
// construct missing.
func (c *Context) Fail(format string, args ...any) {
	panic(structural{err: &ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     c.Cursor().Position(),
	}})
}

func (c *Context) Enter(name string) {
	if c.tracer != nil {
		c.tracer.Enter(name, c)
	}
}

func (c *Context) Exit(name string, ok bool) {
	if c.tracer != nil {
		c.tracer.Exit(name, c, ok)
	}
}
