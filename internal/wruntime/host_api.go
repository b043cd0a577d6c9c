package wruntime

// This file is the embedding API's seam into the object model (§6):
// binding native classes, reading/writing instance extra-data, and
// inspecting a running native function's own statics/extra. Unlike
// compiler_api.go's seam (reached from internal/compiler, never the host),
// every function here is meant to be called from the wisp package.

// ValueKind is the type tag the stack API's "get type" operation reports.
type ValueKind uint8

const (
	KindNumber ValueKind = iota
	KindBool
	KindNil
	KindString
	KindInstance
	KindClass
	KindFunction
	KindModule
	KindOther
)

// KindOf classifies v for the host (§6's stack API "get type").
func (vm *VM) KindOf(v Value) ValueKind {
	switch {
	case v.IsNumber():
		return KindNumber
	case v.IsBool():
		return KindBool
	case v.IsNil():
		return KindNil
	case v.IsPointer():
		if v.AsObject() == 0 {
			return KindNil
		}
		switch vm.heap.get(v.AsObject()).(type) {
		case *ObjString:
			return KindString
		case *ObjInstance, *ObjReference:
			return KindInstance
		case *ObjClass:
			return KindClass
		case *ObjFunction, *ObjNativeFunction:
			return KindFunction
		case *ObjModule:
			return KindModule
		}
	}
	return KindOther
}

// StringBytes returns v's backing bytes. Callers must already know v is a
// string (KindOf reported KindString).
func (vm *VM) StringBytes(v Value) []byte {
	return vm.heap.get(v.AsObject()).(*ObjString).Bytes
}

// InstanceExtra returns the native extra-data bytes behind an instance or
// reference value, or (nil, false) if v is neither (§6's stack API: "read
// instance, returning the instance's extra-data bytes").
func (vm *VM) InstanceExtra(v Value) ([]byte, bool) {
	if !v.IsPointer() {
		return nil, false
	}
	switch o := vm.heap.get(v.AsObject()).(type) {
	case *ObjInstance:
		return o.Extra, true
	case *ObjReference:
		return o.Extra, true
	}
	return nil, false
}

// InstanceClass returns the class behind an instance or reference value.
func (vm *VM) InstanceClass(v Value) (ObjectID, bool) {
	if !v.IsPointer() {
		return 0, false
	}
	switch o := vm.heap.get(v.AsObject()).(type) {
	case *ObjInstance:
		return o.Class, true
	case *ObjReference:
		return o.Class, true
	}
	return 0, false
}

// ClassSetExtraSize fixes how many native extra-data bytes NEW_CLZ reserves
// for each instance of classID (§6's class binding record).
func (vm *VM) ClassSetExtraSize(classID ObjectID, n int) {
	vm.GetClass(classID).ExtraSize = n
}

// ClassSetFinalizer wires classID's host-C finalizer, invoked by the GC
// once before an unreachable instance is freed (§4.8, §6).
func (vm *VM) ClassSetFinalizer(classID ObjectID, fn NativeFinalizer) {
	vm.GetClass(classID).Finalizer = fn
}

// CurrentNativeExtra returns the extra-data bytes of the native function
// currently running, for a NativeFunc to reach its own bound state.
func (vm *VM) CurrentNativeExtra() []byte {
	if vm.currentNative == 0 {
		return nil
	}
	return vm.heap.get(vm.currentNative).(*ObjNativeFunction).Extra
}

// CurrentNativeStatics returns the static-slot table of the native function
// currently running.
func (vm *VM) CurrentNativeStatics() []Value {
	if vm.currentNative == 0 {
		return nil
	}
	return vm.heap.get(vm.currentNative).(*ObjNativeFunction).Statics
}

// Format renders v the way std:io.print does: numbers in shortest
// round-trippable form, true/false/nil literally, strings verbatim, other
// objects by type and identity.
func (vm *VM) Format(v Value) string { return vm.debugFormat(v) }

// Argc reports how many arguments the currently running native frame was
// called with — the stack API's "get arity" when Arity is -1 (variadic).
func (vm *VM) Argc() int {
	if len(vm.frames) == 0 {
		return 0
	}
	return vm.frames[len(vm.frames)-1].Argc
}

// GCStats reports the heap's current bytes-allocated / next-collect
// threshold, for a host that wants to display live GC pressure (cmd/wisp's
// REPL TUI; see SPEC_FULL.md's domain-stack entry for bubbletea).
type GCStats struct {
	BytesAllocated uint64
	HeapSize       uint64
	LiveObjects    int
}

// Stats snapshots the heap's bookkeeping fields described in §3's "VM
// State" paragraph.
func (vm *VM) Stats() GCStats {
	n := 0
	vm.heap.eachLive(func(ObjectID, obj) { n++ })
	return GCStats{
		BytesAllocated: vm.heap.bytesAllocated,
		HeapSize:       vm.heap.heapSize,
		LiveObjects:    n,
	}
}

// FrameInfo is one read-only snapshot of a call-frame stack entry, for
// display purposes only (the embedding API never lets a host mutate the
// frame stack directly).
type FrameInfo struct {
	FunctionName string
	Line         uint32
	Native       bool
}

// FrameStack snapshots the current call-frame stack, outermost first.
func (vm *VM) FrameStack() []FrameInfo {
	out := make([]FrameInfo, 0, len(vm.frames))
	for i := range vm.frames {
		f := &vm.frames[i]
		if f.isNative() {
			name := vm.heap.get(f.Native).(*ObjNativeFunction).Name
			out = append(out, FrameInfo{FunctionName: name, Native: true})
			continue
		}
		fn := vm.heap.get(f.Fn).(*ObjFunction)
		name := fn.Name
		if name == "" {
			name = "<module>"
		}
		out = append(out, FrameInfo{FunctionName: name, Line: fn.LineFor(f.IP)})
	}
	return out
}
