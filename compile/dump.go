package compile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/parsnip/parse"
)

// Listing renders prog as text: one block per procedure with its locals,
// its operations and the labels bound to them.
func Listing(prog *parse.Program) string {
	var b strings.Builder
	for idx, proc := range prog.Procedures {
		if idx > 0 {
			b.WriteByte('\n')
		}
		writeProcedure(&b, prog, idx, proc)
	}
	return b.String()
}

func writeProcedure(b *strings.Builder, prog *parse.Program, idx int, proc *parse.Procedure) {
	fmt.Fprintf(b, "proc %s", proc.Name)
	if idx == prog.Entry {
		b.WriteString(" (entry)")
	}
	b.WriteString("\n")
	for i, l := range proc.Locals {
		fmt.Fprintf(b, "  local %d %s %s\n", i, l.Name, l.Kind)
	}
	res := proc.Result
	fmt.Fprintf(b, "  result %s %s %s %s\n",
		local(proc, res.Ok), local(proc, res.Value), local(proc, res.Start), local(proc, res.End))

	labels := make(map[int][]int)
	for l, at := range proc.Labels {
		labels[at] = append(labels[at], l)
	}
	for pc, op := range proc.Ops {
		for _, l := range labels[pc] {
			fmt.Fprintf(b, "L%d:\n", l)
		}
		fmt.Fprintf(b, "  %04d %s\n", pc, formatOp(prog, proc, op))
	}
}

func local(proc *parse.Procedure, s parse.Slot) string {
	if s < 0 || int(s) >= len(proc.Locals) {
		return "_"
	}
	return proc.Locals[s].Name
}

func formatOp(prog *parse.Program, proc *parse.Procedure, op parse.Op) string {
	slot := func(s parse.Slot) string { return local(proc, s) }
	label := func(l parse.Label) string { return "L" + strconv.Itoa(int(l)) }
	name := op.Code.String()
	switch op.Code {
	case parse.OpMark, parse.OpReset, parse.OpOffset, parse.OpNot:
		return fmt.Sprintf("%-11s %s", name, slot(op.A))
	case parse.OpSetBool:
		return fmt.Sprintf("%-11s %s %t", name, slot(op.A), op.Flag)
	case parse.OpCopy, parse.OpMap, parse.OpTest, parse.OpAppend:
		return fmt.Sprintf("%-11s %s %s", name, slot(op.A), slot(op.B))
	case parse.OpConst:
		return fmt.Sprintf("%-11s %s %#v", name, slot(op.A), op.Value)
	case parse.OpMatch:
		return fmt.Sprintf("%-11s %s %s %s %s %s", name, op.Name, slot(op.A), slot(op.B), slot(op.C), slot(op.D))
	case parse.OpMapSpan:
		return fmt.Sprintf("%-11s %s %s %s %s", name, slot(op.A), slot(op.B), slot(op.C), slot(op.D))
	case parse.OpJump:
		return fmt.Sprintf("%-11s %s", name, label(op.Target))
	case parse.OpJumpIf, parse.OpJumpIfNot, parse.OpJumpIfSame:
		return fmt.Sprintf("%-11s %s %s", name, slot(op.A), label(op.Target))
	case parse.OpBuild:
		args := make([]string, len(op.Args))
		for i, s := range op.Args {
			args[i] = slot(s)
		}
		return fmt.Sprintf("%-11s %s (%s)", name, slot(op.A), strings.Join(args, " "))
	case parse.OpCall:
		callee := strconv.Itoa(op.Proc)
		if op.Proc >= 0 && op.Proc < len(prog.Procedures) {
			callee = prog.Procedures[op.Proc].Name
		}
		return fmt.Sprintf("%-11s %s %s %s %s %s", name, callee, slot(op.A), slot(op.B), slot(op.C), slot(op.D))
	case parse.OpDispatch:
		return fmt.Sprintf("%-11s %s", name, slot(op.A))
	case parse.OpNextCase:
		targets := make([]string, len(op.Targets))
		for i, l := range op.Targets {
			targets[i] = label(l)
		}
		return fmt.Sprintf("%-11s %s [%s] else %s", name, slot(op.A), strings.Join(targets, " "), label(op.Target))
	case parse.OpEnter:
		return fmt.Sprintf("%-11s %s", name, op.Name)
	case parse.OpExit:
		return fmt.Sprintf("%-11s %s %s", name, op.Name, slot(op.A))
	case parse.OpRaise:
		return fmt.Sprintf("%-11s %q", name, op.Name)
	}
	return name
}
