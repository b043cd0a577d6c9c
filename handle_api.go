package wisp

import "wisp/internal/wruntime"

// HandleID identifies a host-visible handle: a GC-safe reference to a
// value that survives across API calls until explicitly destroyed
// (§GLOSSARY). Handles are for references a host holds across the
// boundary of separate calls into the VM — longer-lived than the
// temp-root stack the interpreter uses internally, and released
// explicitly rather than popped LIFO.
type HandleID = wruntime.HandleID

// MakeHandle roots v behind a new handle.
func (v *VM) MakeHandle(val Value) HandleID {
	return v.vm.MakeHandle(val.inner)
}

// LoadHandle returns the value behind h, or (zero Value, false) if h is
// not live.
func (v *VM) LoadHandle(h HandleID) (Value, bool) {
	rv, ok := v.vm.HandlesFor().Load(h)
	if !ok {
		return Value{}, false
	}
	return Value{inner: rv}, true
}

// DestroyHandle releases h, returning its slot to the free pool.
func (v *VM) DestroyHandle(h HandleID) {
	v.vm.DestroyHandle(h)
}
