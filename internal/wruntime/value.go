// Package wruntime implements the value representation, heap object model,
// garbage collector, and register-based virtual machine described by §3-§4
// and §8 of the language specification: a NaN-boxed Value, a uniform heap
// object header with typed variants, a tracing mark-and-sweep collector with
// deferred finalization, and the bytecode interpreter that ties them
// together.
package wruntime

import "math"

// Value is a NaN-boxed 64-bit cell (§4.1). A value is a plain IEEE-754
// double unless its quiet-NaN bits are set, in which case the low bits
// distinguish nil, true, false, or — with the sign bit also set — a heap
// reference.
//
// Heap references do not carry a raw memory address: per the cyclic-graph
// design note in §9, the low 48 bits of a pointer Value hold an ObjectID,
// an index into the VM's object arena. The arena is the single source of
// truth for liveness; Go's own collector never sees a disguised pointer
// hiding inside a float's bit pattern.
type Value uint64

const (
	quietNaN    uint64 = 0x7FFC000000000000
	signBit     uint64 = 1 << 63
	pointerMask uint64 = signBit | quietNaN
	tagMask     uint64 = 0x3

	tagNil   uint64 = 0x1
	tagTrue  uint64 = 0x2
	tagFalse uint64 = 0x3
)

// Sentinel values. Nil, True and False are each distinct bit patterns.
//
// The reference C header aliases k_VMValueFalse to the nil tag rather than
// the false tag — a bug flagged as an open question in §9 ("implementations
// should treat false as distinct from nil and add a regression test"). This
// implementation assigns False its own tag; TestFalseIsNotNil in
// value_test.go is the regression test the spec asked for.
var (
	Nil   = Value(quietNaN | tagNil)
	True  = Value(quietNaN | tagTrue)
	False = Value(quietNaN | tagFalse)
)

// Number constructs a numeric Value from a float64, preserving bit pattern
// (including non-finite values) exactly.
func Number(f float64) Value {
	return Value(math.Float64bits(f))
}

// Bool constructs a boolean Value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromObject constructs a pointer Value referencing the given arena slot.
// The zero ObjectID is the null object reference and round-trips through
// IsPointer/AsObject like any other pointer value (§4.1: "a null-pointer
// object" is falsy, distinct from Nil itself).
func FromObject(id ObjectID) Value {
	return Value(pointerMask | uint64(id))
}

// IsNumber reports whether v holds a plain float64 (§4.1: "a value is a
// number iff the quiet-NaN bits are clear").
func (v Value) IsNumber() bool {
	return uint64(v)&quietNaN != quietNaN
}

// IsPointer reports whether v holds a heap object reference.
func (v Value) IsPointer() bool {
	return uint64(v)&pointerMask == pointerMask
}

// IsNil reports whether v is exactly the Nil sentinel.
func (v Value) IsNil() bool { return v == Nil }

// IsTrue reports whether v is exactly the True sentinel.
func (v Value) IsTrue() bool { return v == True }

// IsFalse reports whether v is exactly the False sentinel.
func (v Value) IsFalse() bool { return v == False }

// IsBool reports whether v is True or False.
func (v Value) IsBool() bool { return v == True || v == False }

// AsNumber reinterprets v's bits as a float64. Callers must check IsNumber
// first; this has no defined meaning for non-number values.
func (v Value) AsNumber() float64 {
	return math.Float64frombits(uint64(v))
}

// AsObject extracts the ObjectID from a pointer Value. Callers must check
// IsPointer first.
func (v Value) AsObject() ObjectID {
	return ObjectID(uint64(v) &^ pointerMask)
}

// AsBool extracts the boolean held by a Bool value. Callers must check
// IsBool first.
func (v Value) AsBool() bool { return v == True }

// Truthy implements §4.1's contract: nil, false, and a null-pointer object
// are falsy; everything else — including 0.0 — is truthy. This is
// load-bearing for JUMP_IF/JUMP_IF_NOT semantics (§4.4).
func (v Value) Truthy() bool {
	switch {
	case v.IsNil(), v.IsFalse():
		return false
	case v.IsPointer():
		return v.AsObject() != 0
	default:
		return true
	}
}

// Sub, Mul, Div implement §4.1's numeric binary operators: they return a
// number when both operands are numbers, Nil otherwise. MATH_ADD is handled
// separately by the VM because it also concatenates strings (§4.7).
func Sub(a, b Value) Value {
	if a.IsNumber() && b.IsNumber() {
		return Number(a.AsNumber() - b.AsNumber())
	}
	return Nil
}

func Mul(a, b Value) Value {
	if a.IsNumber() && b.IsNumber() {
		return Number(a.AsNumber() * b.AsNumber())
	}
	return Nil
}

func Div(a, b Value) Value {
	if a.IsNumber() && b.IsNumber() {
		return Number(a.AsNumber() / b.AsNumber())
	}
	return Nil
}

func Mod(a, b Value) Value {
	if a.IsNumber() && b.IsNumber() {
		return Number(math.Mod(a.AsNumber(), b.AsNumber()))
	}
	return Nil
}

func Pow(a, b Value) Value {
	if a.IsNumber() && b.IsNumber() {
		return Number(math.Pow(a.AsNumber(), b.AsNumber()))
	}
	return Nil
}

// Neg implements MATH_INV.
func Neg(a Value) Value {
	if a.IsNumber() {
		return Number(-a.AsNumber())
	}
	return Nil
}

// Less, Greater, GreaterEq implement §4.1's ordering contract: IEEE
// ordering for two numbers, otherwise a raw bit-pattern comparison.
// Whether that fallback is load-bearing anywhere in the language is an
// open question the spec explicitly declines to resolve (§9); this
// implementation preserves the reference behavior without relying on it.
func Less(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() < b.AsNumber()
	}
	return uint64(a) < uint64(b)
}

func Greater(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() > b.AsNumber()
	}
	return uint64(a) > uint64(b)
}

func LessEq(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() <= b.AsNumber()
	}
	return uint64(a) <= uint64(b)
}

func GreaterEq(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() >= b.AsNumber()
	}
	return uint64(a) >= uint64(b)
}
