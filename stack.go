package wisp

import "wisp/internal/wruntime"

// Kind classifies a stack slot's value for Stack.Type (§6's stack API
// "get type").
type Kind = wruntime.ValueKind

const (
	KindNumber   = wruntime.KindNumber
	KindBool     = wruntime.KindBool
	KindNil      = wruntime.KindNil
	KindString   = wruntime.KindString
	KindInstance = wruntime.KindInstance
	KindClass    = wruntime.KindClass
	KindFunction = wruntime.KindFunction
	KindModule   = wruntime.KindModule
	KindOther    = wruntime.KindOther
)

// Stack is the window a host-bound native function sees onto the operand
// stack: slots [0, Argc()) hold its arguments, and slot 0 doubles as the
// return-value slot once the call unwinds, exactly like a scripted
// function landing its result in locals[0] (§4.7, §6).
type Stack struct {
	vm *wruntime.VM
}

func newStack(vm *wruntime.VM) *Stack { return &Stack{vm: vm} }

// Argc reports how many arguments the running call was made with. A
// variadic binding (declared arity -1) reads this instead of relying on a
// fixed parameter count.
func (s *Stack) Argc() int { return s.vm.Argc() }

// Type reports slot idx's value kind.
func (s *Stack) Type(idx int) Kind { return s.vm.KindOf(s.vm.At(idx)) }

// Number reads slot idx as a float64. The caller must already know it
// holds a number (Type(idx) == KindNumber).
func (s *Stack) Number(idx int) float64 { return s.vm.At(idx).AsNumber() }

// Bool reads slot idx as a bool.
func (s *Stack) Bool(idx int) bool { return s.vm.At(idx).AsBool() }

// IsNil reports whether slot idx holds nil.
func (s *Stack) IsNil(idx int) bool { return s.vm.At(idx).IsNil() }

// String reads slot idx's string bytes as a Go string (a copy).
func (s *Stack) String(idx int) string { return string(s.vm.StringBytes(s.vm.At(idx))) }

// Format renders slot idx the way std:io.print does, regardless of its
// kind.
func (s *Stack) Format(idx int) string { return s.vm.Format(s.vm.At(idx)) }

// Print routes str through the host's print callback.
func (s *Stack) Print(str string) { s.vm.Print(str) }

// Instance returns slot idx's native extra-data bytes, or (nil, false) if
// it doesn't hold an instance or reference value.
func (s *Stack) Instance(idx int) ([]byte, bool) { return s.vm.InstanceExtra(s.vm.At(idx)) }

// SetNumber writes a number into slot idx.
func (s *Stack) SetNumber(idx int, f float64) { s.vm.SetAt(idx, wruntime.Number(f)) }

// SetBool writes a bool into slot idx.
func (s *Stack) SetBool(idx int, b bool) { s.vm.SetAt(idx, wruntime.Bool(b)) }

// SetNil writes nil into slot idx.
func (s *Stack) SetNil(idx int) { s.vm.SetAt(idx, wruntime.Nil) }

// SetString allocates a new string object from b and writes it into slot
// idx.
func (s *Stack) SetString(idx int, b []byte) {
	s.vm.SetAt(idx, wruntime.FromObject(s.vm.NewString(b)))
}

// Statics exposes the running native function's own static-slot table
// (§6's class binding record: "a static-slot count" per method).
func (s *Stack) Statics() []wruntime.Value { return s.vm.CurrentNativeStatics() }

// Extra exposes the running native function's own extra-data bytes.
func (s *Stack) Extra() []byte { return s.vm.CurrentNativeExtra() }

// MakeHandle roots the value at slot idx behind a new handle.
func (s *Stack) MakeHandle(idx int) HandleID {
	return HandleID(s.vm.MakeHandle(s.vm.At(idx)))
}

// LoadHandle writes the value behind h into slot idx. ok is false if h is
// not (or no longer) live.
func (s *Stack) LoadHandle(idx int, h HandleID) bool {
	v, ok := s.vm.HandlesFor().Load(wruntime.HandleID(h))
	if !ok {
		return false
	}
	s.vm.SetAt(idx, v)
	return true
}

// DestroyHandle releases h. Idempotent on an already-dead handle.
func (s *Stack) DestroyHandle(h HandleID) {
	s.vm.DestroyHandle(wruntime.HandleID(h))
}
