// Package trace logs the enter and exit events of named parsers.
package trace

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/parsnip/parse"
)

// Logger is a parse.Tracer writing one debug record per event.
type Logger struct {
	log   commonlog.Logger
	depth int
}

// New returns a tracer logging to the commonlog logger called name.
func New(name string) *Logger {
	return &Logger{log: commonlog.GetLogger(name)}
}

func (l *Logger) Enter(name string, ctx *parse.Context) {
	l.log.Debugf("%*senter %s at %s", 2*l.depth, "", name, ctx.Cursor().Position())
	l.depth++
}

func (l *Logger) Exit(name string, ctx *parse.Context, ok bool) {
	if l.depth > 0 {
		l.depth--
	}
	outcome := "fail"
	if ok {
		outcome = "ok"
	}
	l.log.Debugf("%*sexit %s %s at %s", 2*l.depth, "", name, outcome, ctx.Cursor().Position())
}

// Depth is the number of named parsers currently entered.
func (l *Logger) Depth() int { return l.depth }
