package parse

import (
	"fmt"
)

// Compilable is implemented by parsers that can lower themselves into the
// intermediate form executed by the compile package. Lower appends the
// parser's locals and operations to the emitter's current procedure and
// returns the slots that hold its outcome.
type Compilable interface {
	Lower(e *Emitter) Fragment
}

// Kind is the type of a local slot.
type Kind uint8

const (
	KindBool  Kind = iota // success flag
	KindInt               // byte offset
	KindPos               // cursor snapshot
	KindValue             // parsed value
	KindCases             // dispatch candidates being walked
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindPos:
		return "pos"
	case KindValue:
		return "value"
	case KindCases:
		return "cases"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Slot indexes a local of the current procedure.
type Slot int

// NoSlot marks an unused operand.
const NoSlot Slot = -1

// Label names a jump target; Bind fixes it to an operation index.
type Label int

// Local is one declared slot.
type Local struct {
	Name string
	Kind Kind
}

// Fragment is what a lowered parser hands to its parent: the slots holding
// its success flag, value and span.
type Fragment struct {
	Ok    Slot
	Value Slot
	Start Slot
	End   Slot
}

// Opcode selects the behaviour of an Op.
type Opcode uint8

const (
	OpMark        Opcode = iota // A(pos) = cursor position
	OpReset                     // cursor = A(pos)
	OpOffset                    // A(int) = cursor offset
	OpSkipWS                    // skip whitespace
	OpSetBool                   // A(bool) = Flag
	OpCopy                      // A = B
	OpConst                     // A(value) = Value
	OpMatch                     // A, B, C, D = ok, value, start, end of Match
	OpJump                      // goto Target
	OpJumpIf                    // if A goto Target
	OpJumpIfNot                 // if !A goto Target
	OpJumpIfSame                // if cursor offset == A(pos) offset goto Target
	OpMap                       // A(value) = Map(B)
	OpMapSpan                   // A(value) = MapSpan(C, D, B)
	OpTest                      // A(bool) = Test(B)
	OpNot                       // A(bool) = !A
	OpBuild                     // A(value) = Build(Args...)
	OpAppend                    // A(value) = Append(A, B)
	OpCheckCancel               // poll cancellation
	OpCall                      // A, B, C, D = result of procedure Proc
	OpDispatch                  // A(cases) = Dispatch candidates at cursor
	OpNextCase                  // next candidate of A: goto Targets[i], else goto Target
	OpEnter                     // tracer enter Name
	OpExit                      // tracer exit Name with A
	OpRaise                     // structural failure with Name as message
	OpReturn                    // end of procedure
)

var opNames = [...]string{
	OpMark:        "mark",
	OpReset:       "reset",
	OpOffset:      "offset",
	OpSkipWS:      "skipws",
	OpSetBool:     "set",
	OpCopy:        "copy",
	OpConst:       "const",
	OpMatch:       "match",
	OpJump:        "jump",
	OpJumpIf:      "jumpif",
	OpJumpIfNot:   "jumpifnot",
	OpJumpIfSame:  "jumpifsame",
	OpMap:         "map",
	OpMapSpan:     "mapspan",
	OpTest:        "test",
	OpNot:         "not",
	OpBuild:       "build",
	OpAppend:      "append",
	OpCheckCancel: "checkcancel",
	OpCall:        "call",
	OpDispatch:    "dispatch",
	OpNextCase:    "nextcase",
	OpEnter:       "enter",
	OpExit:        "exit",
	OpRaise:       "raise",
	OpReturn:      "return",
}

func (o Opcode) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Op is one operation of a procedure. Only the fields named in the Opcode
// documentation are meaningful for a given Code.
type Op struct {
	Code Opcode

	A, B, C, D Slot
	Args       []Slot

	Flag    bool
	Value   any
	Name    string
	Proc    int
	Target  Label
	Targets []Label

	Match    func(ctx *Context, r *Result[any]) bool
	Map      func(v any) any
	MapSpan  func(ctx *Context, start, end int, v any) any
	Test     func(v any) bool
	Build    func(args []any) any
	Append   func(list, v any) any
	Dispatch *Dispatch
}

// Procedure is a linear list of operations over a set of locals. Result
// names the slots the caller reads after OpCall or after the run.
type Procedure struct {
	Name   string
	Locals []Local
	Ops    []Op
	Labels []int
	Result Fragment
}

// Program is the lowered form of a parser graph. Procedures[Entry] is the
// top-level procedure; the others are shared bodies of Deferred parsers.
type Program struct {
	Procedures []*Procedure
	Entry      int
}

// Emitter builds a Program. Lowering functions call it to declare locals,
// create labels and append operations to the procedure being built.
type Emitter struct {
	prog  *Program
	proc  *Procedure
	procs map[any]int
	err   error
}

// NewEmitter returns an emitter whose current procedure is the entry
// procedure.
func NewEmitter(name string) *Emitter {
	entry := &Procedure{Name: name}
	return &Emitter{
		prog:  &Program{Procedures: []*Procedure{entry}},
		proc:  entry,
		procs: make(map[any]int),
	}
}

// Declare adds a local to the current procedure.
func (e *Emitter) Declare(name string, kind Kind) Slot {
	n := Slot(len(e.proc.Locals))
	e.proc.Locals = append(e.proc.Locals, Local{Name: fmt.Sprintf("%s%d", name, n), Kind: kind})
	return n
}

// Result declares the four slots of a fragment.
func (e *Emitter) Result(name string) Fragment {
	return Fragment{
		Ok:    e.Declare(name+"_ok", KindBool),
		Value: e.Declare(name+"_val", KindValue),
		Start: e.Declare(name+"_start", KindInt),
		End:   e.Declare(name+"_end", KindInt),
	}
}

func (e *Emitter) NewLabel() Label {
	e.proc.Labels = append(e.proc.Labels, -1)
	return Label(len(e.proc.Labels) - 1)
}

// Bind makes l refer to the next emitted operation.
func (e *Emitter) Bind(l Label) {
	e.proc.Labels[l] = len(e.proc.Ops)
}

func (e *Emitter) Emit(op Op) {
	e.proc.Ops = append(e.proc.Ops, op)
}

// Errorf records a lowering error; Finish reports the first one.
func (e *Emitter) Errorf(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf(format, args...)
	}
}

// Procedure returns the index of the shared procedure registered under key,
// building it with build on first use. The key is registered before build
// runs, so a cycle through key lowers to a call instead of unrolling.
func (e *Emitter) Procedure(key any, name string, build func(*Emitter) Fragment) int {
	if idx, ok := e.procs[key]; ok {
		return idx
	}
	proc := &Procedure{Name: fmt.Sprintf("%s%d", name, len(e.prog.Procedures))}
	idx := len(e.prog.Procedures)
	e.prog.Procedures = append(e.prog.Procedures, proc)
	e.procs[key] = idx

	saved := e.proc
	e.proc = proc
	proc.Result = build(e)
	e.Emit(Op{Code: OpReturn})
	e.proc = saved
	return idx
}

// Finish closes the entry procedure with result and returns the program.
func (e *Emitter) Finish(result Fragment) (*Program, error) {
	if e.err != nil {
		return nil, e.err
	}
	entry := e.prog.Procedures[e.prog.Entry]
	entry.Result = result
	e.proc = entry
	e.Emit(Op{Code: OpReturn})
	for _, proc := range e.prog.Procedures {
		for i, at := range proc.Labels {
			if at < 0 {
				return nil, fmt.Errorf("procedure %s: label %d never bound", proc.Name, i)
			}
		}
	}
	return e.prog, nil
}

// LowerParser lowers p into the current procedure. Parsers that are not
// Compilable are invoked through their Parse method.
func LowerParser[T any](e *Emitter, p Parser[T]) Fragment {
	if c, ok := p.(Compilable); ok {
		return c.Lower(e)
	}
	r := e.Result("invoke")
	e.Emit(Op{
		Code:  OpMatch,
		A:     r.Ok,
		B:     r.Value,
		C:     r.Start,
		D:     r.End,
		Name:  fmt.Sprintf("%T", p),
		Match: Erase(p),
	})
	return r
}

// Erase adapts p to an untyped matcher.
func Erase[T any](p Parser[T]) func(ctx *Context, r *Result[any]) bool {
	return func(ctx *Context, r *Result[any]) bool {
		var tr Result[T]
		if !p.Parse(ctx, &tr) {
			return false
		}
		r.Set(tr.Start, tr.End, tr.Value)
		return true
	}
}

// emitMatch lowers a primitive whose whole behaviour is a single match.
func emitMatch(e *Emitter, name string, match func(ctx *Context, r *Result[any]) bool) Fragment {
	r := e.Result(name)
	e.Emit(Op{Code: OpMatch, A: r.Ok, B: r.Value, C: r.Start, D: r.End, Name: name, Match: match})
	return r
}

// As converts an untyped value produced by a lowered program back to T.
func As[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
