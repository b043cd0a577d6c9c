package compiler

import (
	"wisp/internal/bytecode"
	"wisp/internal/wruntime"
)

type lvKind uint8

const (
	lvNone lvKind = iota
	lvLocal
	lvModule
	lvField
	lvIndex
)

// lvalue describes where an expression's value would be stored back to, if
// it turns out to be the left-hand side of an assignment. Any expression
// that is not a bare identifier, field access, or index access resolves to
// lvNone — §4.6's "an identifier absent from all enclosing scopes is
// presumed module-level" only ever applies to the prefix position, never to
// an arbitrary subexpression result.
type lvalue struct {
	kind lvKind
	slot int               // lvLocal: the local's register; lvField/lvIndex: the receiver's register
	sym  wruntime.SymbolID  // lvModule/lvField: the bound symbol
	idx  int                // lvIndex: the register holding the already-evaluated index
}

// store emits the instructions that write valueSlot back into the location
// lv names. A read was already emitted when lv was produced (§4.6 keeps
// this simple rather than deferring the read until an assignment is known
// to follow — see DESIGN.md's note on `[]`/`[]=` needing a getter bound even
// for a pure write), so store() only has to handle the write side.
func (lv lvalue) store(p *Parser, valueSlot int, line uint32) {
	switch lv.kind {
	case lvLocal:
		p.builder().EmitABx(bytecode.OpStoreMove, lv.slot, valueSlot, line)
	case lvModule:
		modTemp := p.pushTemp()
		p.builder().EmitABx(bytecode.OpLoadBasic, modTemp, int(bytecode.LoadBasicModule), line)
		p.builder().EmitABC(bytecode.OpStoreSymbol, modTemp, int(lv.sym), valueSlot, line)
	case lvField:
		p.builder().EmitABC(bytecode.OpStoreSymbol, lv.slot, int(lv.sym), valueSlot, line)
	case lvIndex:
		argsBase := p.pushTemp()
		p.builder().EmitABx(bytecode.OpStoreMove, argsBase, lv.slot, line)
		idxCopy := p.pushTemp()
		p.builder().EmitABx(bytecode.OpStoreMove, idxCopy, lv.idx, line)
		valCopy := p.pushTemp()
		p.builder().EmitABx(bytecode.OpStoreMove, valCopy, valueSlot, line)
		method := p.pushTemp()
		symSet := p.vm.Intern("[]=")
		p.builder().EmitABC(bytecode.OpLoadSymbol, method, lv.slot, int(symSet), line)
		p.builder().EmitABC(bytecode.OpCallFn, argsBase, method, 3, line)
	}
}
