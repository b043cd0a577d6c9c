package wruntime

import "wisp/internal/bytecode"

// ObjFunction is the immutable artifact the parser's function builder
// produces (§3, §4.6): the owning module, a name (empty for anonymous
// functions), arity, a de-duplicated constant pool, the instruction
// vector, a parallel code-to-line table for error reporting, and the
// number of stack slots a call needs reserved above its locals base.
type ObjFunction struct {
	header
	Module           ObjectID
	Name             string
	Arity            int // -1 marks a variadic function
	Constants        []Value
	Code             []bytecode.Instruction
	Lines            []uint32
	NeededStackSpace int
}

// LineFor returns the source line the instruction at ip belongs to, or 0 if
// ip is out of range.
func (f *ObjFunction) LineFor(ip int) uint32 {
	if ip < 0 || ip >= len(f.Lines) {
		return 0
	}
	return f.Lines[ip]
}

// IsVariadic reports whether the function accepts any number of arguments.
func (f *ObjFunction) IsVariadic() bool { return f.Arity < 0 }
