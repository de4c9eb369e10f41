package compile

import (
	"fmt"

	"github.com/dhamidi/parsnip/cursor"
	"github.com/dhamidi/parsnip/parse"
)

// cell holds one local. Only the field matching the local's Kind is used.
type cell struct {
	ok    bool
	n     int
	pos   cursor.Position
	v     any
	cases []int
	next  int
}

type outcome struct {
	ok         bool
	value      any
	start, end int
}

type machine struct {
	ctx  *parse.Context
	prog *parse.Program
	args []any
}

func (m *machine) call(idx int) outcome {
	proc := m.prog.Procedures[idx]
	frame := make([]cell, len(proc.Locals))
	ctx := m.ctx
	c := ctx.Cursor()
	pc := 0
	for {
		op := &proc.Ops[pc]
		pc++
		switch op.Code {
		case parse.OpMark:
			frame[op.A].pos = c.Position()
		case parse.OpReset:
			c.ResetTo(frame[op.A].pos)
		case parse.OpOffset:
			frame[op.A].n = c.Offset()
		case parse.OpSkipWS:
			ctx.SkipWhitespace()
		case parse.OpSetBool:
			frame[op.A].ok = op.Flag
		case parse.OpCopy:
			frame[op.A] = frame[op.B]
		case parse.OpConst:
			frame[op.A].v = op.Value
		case parse.OpMatch:
			var r parse.Result[any]
			ok := op.Match(ctx, &r)
			frame[op.A].ok = ok
			if ok {
				frame[op.B].v = r.Value
				frame[op.C].n = r.Start
				frame[op.D].n = r.End
			}
		case parse.OpJump:
			pc = proc.Labels[op.Target]
		case parse.OpJumpIf:
			if frame[op.A].ok {
				pc = proc.Labels[op.Target]
			}
		case parse.OpJumpIfNot:
			if !frame[op.A].ok {
				pc = proc.Labels[op.Target]
			}
		case parse.OpJumpIfSame:
			if c.Offset() == frame[op.A].pos.Offset {
				pc = proc.Labels[op.Target]
			}
		case parse.OpMap:
			frame[op.A].v = op.Map(frame[op.B].v)
		case parse.OpMapSpan:
			frame[op.A].v = op.MapSpan(ctx, frame[op.C].n, frame[op.D].n, frame[op.B].v)
		case parse.OpTest:
			frame[op.A].ok = op.Test(frame[op.B].v)
		case parse.OpNot:
			frame[op.A].ok = !frame[op.A].ok
		case parse.OpBuild:
			args := m.args[:0]
			for _, s := range op.Args {
				args = append(args, frame[s].v)
			}
			frame[op.A].v = op.Build(args)
			clear(args)
			m.args = args[:0]
		case parse.OpAppend:
			frame[op.A].v = op.Append(frame[op.A].v, frame[op.B].v)
		case parse.OpCheckCancel:
			ctx.CheckCancel()
		case parse.OpCall:
			out := m.call(op.Proc)
			frame[op.A].ok = out.ok
			frame[op.B].v = out.value
			frame[op.C].n = out.start
			frame[op.D].n = out.end
		case parse.OpDispatch:
			frame[op.A].cases = op.Dispatch.Candidates(ctx.Scanner)
			frame[op.A].next = 0
		case parse.OpNextCase:
			cl := &frame[op.A]
			if cl.next >= len(cl.cases) {
				pc = proc.Labels[op.Target]
				break
			}
			i := cl.cases[cl.next]
			cl.next++
			pc = proc.Labels[op.Targets[i]]
		case parse.OpEnter:
			ctx.Enter(op.Name)
		case parse.OpExit:
			ctx.Exit(op.Name, frame[op.A].ok)
		case parse.OpRaise:
			ctx.Fail("%s", op.Name)
		case parse.OpReturn:
			res := proc.Result
			return outcome{
				ok:    frame[res.Ok].ok,
				value: frame[res.Value].v,
				start: frame[res.Start].n,
				end:   frame[res.End].n,
			}
		default:
			panic(fmt.Sprintf("compile: %s: unknown opcode %v at %d", proc.Name, op.Code, pc-1))
		}
	}
}
