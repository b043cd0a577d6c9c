// Package compiler implements the single-pass Pratt parser and function
// builder (§4.6): source tokens go in, a fully assembled wruntime.ObjFunction
// with its bytecode, constant pool, and code-to-line table comes out. There
// is no separate AST or IR stage — expressions and statements emit
// instructions directly as they are recognized.
package compiler

import (
	"wisp/internal/bytecode"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/wruntime"
)

type local struct {
	name string
	slot int
}

// FunctionBuilder owns one function's emitted instruction vector, constant
// pool, code-to-line map, and local-variable scope stack (§4.6). Register
// numbering places a function's arguments at physical slots [0, arity) and
// every declared local or temporary above that, so CALL_FN's own argument
// window and the builder's own slot allocation agree without translation.
type FunctionBuilder struct {
	arity  int
	module wruntime.ObjectID

	code      []bytecode.Instruction
	lines     []uint32
	constants []wruntime.Value

	scopes [][]local

	localTop    int // next local-index to allocate, relative to arity
	maxLocalIdx int // highest local-index ever allocated, -1 if none
}

// NewFunctionBuilder begins building a function of the given arity, owned
// by module. arity is -1 for a variadic function, matching ObjFunction.Arity.
func NewFunctionBuilder(module wruntime.ObjectID, arity int) *FunctionBuilder {
	declaredArity := arity
	if declaredArity < 0 {
		declaredArity = 0 // a variadic function still reserves no fixed arg slots beyond the args actually passed; the parser is responsible for sizing NeededStackSpace generously in that case.
	}
	return &FunctionBuilder{
		arity:       declaredArity,
		module:      module,
		maxLocalIdx: -1,
		scopes:      [][]local{{}},
	}
}

// PushScope opens a new lexical scope for block-scoped declarations.
func (b *FunctionBuilder) PushScope() {
	b.scopes = append(b.scopes, nil)
}

// PopScope closes the innermost scope, reclaiming every slot declared
// inside it so sibling blocks reuse the same registers (§4.6's "push/pop
// scope").
func (b *FunctionBuilder) PopScope() {
	n := len(b.scopes[len(b.scopes)-1])
	b.scopes = b.scopes[:len(b.scopes)-1]
	b.localTop -= n
}

// DeclareLocal allocates a fresh slot for name in the innermost scope. It
// is a compile error to redeclare a name already present in that same
// scope (§4.6); shadowing an outer scope's name is allowed.
func (b *FunctionBuilder) DeclareLocal(bag *diag.Bag, name string, span source.Span) (slot int, ok bool) {
	top := b.scopes[len(b.scopes)-1]
	for _, l := range top {
		if l.name == name {
			bag.Add(diag.NewError(diag.SynDuplicateLocal, span, "duplicate local declaration: "+name))
			return 0, false
		}
	}
	slot = b.arity + b.localTop
	b.localTop++
	if b.localTop-1 > b.maxLocalIdx {
		b.maxLocalIdx = b.localTop - 1
	}
	b.scopes[len(b.scopes)-1] = append(top, local{name: name, slot: slot})
	return slot, true
}

// LookupLocal searches scopes inner-to-outer for name.
func (b *FunctionBuilder) LookupLocal(name string) (slot int, ok bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		scope := b.scopes[i]
		for j := len(scope) - 1; j >= 0; j-- {
			if scope[j].name == name {
				return scope[j].slot, true
			}
		}
	}
	return 0, false
}

// PushTemp allocates one anonymous local for a subexpression's result.
func (b *FunctionBuilder) PushTemp() int {
	slot := b.arity + b.localTop
	b.localTop++
	if b.localTop-1 > b.maxLocalIdx {
		b.maxLocalIdx = b.localTop - 1
	}
	return slot
}

// PopTemps releases n anonymous locals, LIFO, for reuse by the next
// subexpression (§4.6).
func (b *FunctionBuilder) PopTemps(n int) {
	b.localTop -= n
}

// Arity reports the function's declared, non-negative argument count (a
// variadic function's builder still reports 0 argument slots reserved by
// the builder itself).
func (b *FunctionBuilder) Arity() int { return b.arity }

func (b *FunctionBuilder) emit(inst bytecode.Instruction, line uint32) int {
	idx := len(b.code)
	b.code = append(b.code, inst)
	b.lines = append(b.lines, line)
	return idx
}

// EmitABC appends an ABC-form instruction and returns its index.
func (b *FunctionBuilder) EmitABC(op bytecode.Op, a, bArg, c int, line uint32) int {
	inst, err := bytecode.EncodeABC(op, a, bArg, c)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	return b.emit(inst, line)
}

// EmitABx appends an ABx-form instruction and returns its index.
func (b *FunctionBuilder) EmitABx(op bytecode.Op, a, bx int, line uint32) int {
	inst, err := bytecode.EncodeABx(op, a, bx)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	return b.emit(inst, line)
}

// EmitAsBx appends an AsBx-form instruction and returns its index.
func (b *FunctionBuilder) EmitAsBx(op bytecode.Op, a, sbx int, line uint32) int {
	inst, err := bytecode.EncodeAsBx(op, a, sbx)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	return b.emit(inst, line)
}

// EmitBreakPlaceholder appends the all-ones sentinel word (§4.4, §9): the
// loop finalizer rewrites every occurrence inside the loop body to a
// forward JUMP once the post-loop address is known.
func (b *FunctionBuilder) EmitBreakPlaceholder(line uint32) int {
	return b.emit(bytecode.Invalid, line)
}

// PatchJump rewrites the instruction at idx — an already-emitted JUMP or a
// break placeholder — into an unconditional JUMP to targetIP, computing sBx
// relative to the instruction immediately following idx (matching IP's
// post-increment semantics in run()).
func (b *FunctionBuilder) PatchJump(idx, targetIP int) {
	sbx := targetIP - (idx + 1)
	inst, err := bytecode.EncodeAsBx(bytecode.OpJump, 0, sbx)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	b.code[idx] = inst
}

// PatchConditionalJump rewrites a JUMP_IF/JUMP_IF_NOT already emitted with a
// placeholder sBx of 0, now that the target address is known.
func (b *FunctionBuilder) PatchConditionalJump(idx int, op bytecode.Op, a, targetIP int) {
	sbx := targetIP - (idx + 1)
	inst, err := bytecode.EncodeAsBx(op, a, sbx)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	b.code[idx] = inst
}

// Here returns the instruction index the next emit() call will use —
// the jump target for a loop that branches back to its own condition.
func (b *FunctionBuilder) Here() int { return len(b.code) }

// AddConstant de-duplicates v by exact value equality against the existing
// pool (§4.6) and returns its Bx immediate (already offset by
// LoadBasicConstBase).
func (b *FunctionBuilder) AddConstant(v wruntime.Value) int {
	for i, c := range b.constants {
		if c == v {
			return i + int(bytecode.LoadBasicConstBase)
		}
	}
	b.constants = append(b.constants, v)
	return len(b.constants) - 1 + int(bytecode.LoadBasicConstBase)
}

// Finish appends the RETURN 0 safety trailer and materializes fn with the
// builder's accumulated code, constants, and stack-space requirement
// (§4.6: needed_stack_space = max_local_idx + arity + 1).
func (b *FunctionBuilder) Finish(fn *wruntime.ObjFunction, line uint32) {
	b.EmitABx(bytecode.OpReturn, 0, 0, line)
	fn.Code = b.code
	fn.Lines = b.lines
	fn.Constants = b.constants
	needed := b.maxLocalIdx + b.arity + 1
	if needed < 1 {
		needed = 1
	}
	fn.NeededStackSpace = needed
}
