// Package wiredump is a debug-only structured encoding of a compiled
// function's constant pool and instruction stream. It exists for two
// consumers: its own tests in dump_test.go, which compare a Dump's
// rendered text against a literal expected string the way
// internal/diag/golden.go compares formatted diagnostics, and cmd/wisp's
// `disasm --msgpack` flag, which msgpack-encodes the same structure
// (SPEC_FULL.md's domain-stack table).
//
// Nothing under internal/wruntime depends on this package; it is a
// read-only view built from an already-compiled ObjFunction.
package wiredump

import (
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"wisp/internal/bytecode"
	"wisp/internal/wruntime"
)

// schemaVersion guards the msgpack wire format, the same way a disk-cache
// payload guards its on-disk format with an explicit schema field: bump it
// whenever a field is added, removed, or reinterpreted.
const schemaVersion uint16 = 1

// ConstKind tags one entry of a Dump's constant pool, since msgpack has no
// notion of wisp's own tagged Value.
type ConstKind uint8

const (
	ConstNumber ConstKind = iota
	ConstBool
	ConstNil
	ConstString
	ConstOther
)

// Const is one constant-pool entry, flattened for encoding.
type Const struct {
	Kind   ConstKind
	Number float64
	Bool   bool
	Str    string
	Repr   string // vm.Format output, for constants that are neither a number/bool/nil/string
}

// Word is one disassembled instruction.
type Word struct {
	Op   string
	Form string
	A    int
	B    int
	C    int
	Bx   int
	SBx  int
	Line uint32
}

// Dump is the structured, encodable view of one ObjFunction.
type Dump struct {
	Schema           uint16
	Module           string
	Name             string
	Arity            int
	NeededStackSpace int
	Constants        []Const
	Code             []Word
}

// Build renders fn into a Dump. vm supplies Format for constants that are
// heap objects other than strings (e.g. a nested function constant).
func Build(vm *wruntime.VM, fn *wruntime.ObjFunction) Dump {
	d := Dump{
		Schema:           schemaVersion,
		Name:             fn.Name,
		Arity:            fn.Arity,
		NeededStackSpace: fn.NeededStackSpace,
	}
	if fn.Module != 0 {
		d.Module = vm.GetModule(fn.Module).Name
	}

	d.Constants = make([]Const, len(fn.Constants))
	for i, c := range fn.Constants {
		d.Constants[i] = buildConst(vm, c)
	}

	d.Code = make([]Word, len(fn.Code))
	for i, inst := range fn.Code {
		d.Code[i] = buildWord(inst, fn.LineFor(i))
	}
	return d
}

func buildConst(vm *wruntime.VM, v wruntime.Value) Const {
	switch {
	case v.IsNumber():
		return Const{Kind: ConstNumber, Number: v.AsNumber()}
	case v.IsBool():
		return Const{Kind: ConstBool, Bool: v.AsBool()}
	case v.IsNil():
		return Const{Kind: ConstNil}
	case vm.KindOf(v) == wruntime.KindString:
		return Const{Kind: ConstString, Str: string(vm.StringBytes(v))}
	default:
		return Const{Kind: ConstOther, Repr: vm.Format(v)}
	}
}

func buildWord(inst bytecode.Instruction, line uint32) Word {
	w := Word{Op: inst.Op().String(), Line: line}
	switch inst.Op().Form() {
	case bytecode.FormABx:
		w.Form, w.A, w.Bx = "ABx", inst.A(), inst.Bx()
	case bytecode.FormAsBx:
		w.Form, w.A, w.SBx = "AsBx", inst.A(), inst.SBx()
	default:
		w.Form, w.A, w.B, w.C = "ABC", inst.A(), inst.B(), inst.C()
	}
	return w
}

// Encode msgpack-encodes d, for the `disasm --msgpack` flag.
func Encode(d Dump) ([]byte, error) {
	return msgpack.Marshal(d)
}

// Decode reverses Encode, rejecting a payload from an incompatible schema.
func Decode(b []byte) (Dump, error) {
	var d Dump
	if err := msgpack.Unmarshal(b, &d); err != nil {
		return Dump{}, err
	}
	if d.Schema != schemaVersion {
		return Dump{}, fmt.Errorf("wiredump: schema %d, want %d", d.Schema, schemaVersion)
	}
	return d, nil
}

// Disassemble renders d as human-readable text, one line per instruction,
// in the "ip  line  OP a b c" shape a reader of a traditional bytecode
// dump would expect. Constant-pool loads (LOAD_BASIC with Bx>=4) are
// annotated with the constant's value.
func Disassemble(d Dump) string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s(%d) module=%s stack=%d\n", nameOrAnon(d.Name), d.Arity, d.Module, d.NeededStackSpace)
	for i, w := range d.Code {
		fmt.Fprintf(&b, "%04d  L%-4d  ", i, w.Line)
		switch w.Form {
		case "ABx":
			fmt.Fprintf(&b, "%-12s %d %d", w.Op, w.A, w.Bx)
			if w.Op == "LOAD_BASIC" && w.Bx >= int(bytecode.LoadBasicConstBase) {
				idx := w.Bx - int(bytecode.LoadBasicConstBase)
				if idx >= 0 && idx < len(d.Constants) {
					fmt.Fprintf(&b, "    ; %s", renderConst(d.Constants[idx]))
				}
			}
		case "AsBx":
			fmt.Fprintf(&b, "%-12s %d %d", w.Op, w.A, w.SBx)
		default:
			fmt.Fprintf(&b, "%-12s %d %d %d", w.Op, w.A, w.B, w.C)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func nameOrAnon(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

func renderConst(c Const) string {
	switch c.Kind {
	case ConstNumber:
		return fmt.Sprintf("%g", c.Number)
	case ConstBool:
		return fmt.Sprintf("%t", c.Bool)
	case ConstNil:
		return "nil"
	case ConstString:
		return fmt.Sprintf("%q", c.Str)
	default:
		return c.Repr
	}
}
