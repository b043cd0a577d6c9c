package wruntime

// Approximate per-object byte costs used for bytesAllocated bookkeeping.
// These mirror the reference implementation's sizeof() accounting closely
// enough to drive the heap-size threshold faithfully; exact parity with a
// C struct layout is not a goal Go can meet anyway.
const (
	sizeofHeader   = 8
	sizeofString   = sizeofHeader + 16
	sizeofModule   = sizeofHeader + 32
	sizeofClass    = sizeofHeader + 48
	sizeofInstance = sizeofHeader + 16
	sizeofFunction = sizeofHeader + 48
	sizeofNative   = sizeofHeader + 32
	sizeofRef      = sizeofHeader + 16
	sizeofWeakRef  = sizeofHeader + 16
)

// maybeCollect runs a GC cycle if the heap's bytesAllocated has crossed its
// threshold and a cycle is not already running (§4.8).
func (vm *VM) maybeCollect() {
	if vm.heap.shouldCollect() {
		// link has just made the caller's new object the chain head; pin it
		// so this cycle cannot free it before the caller stores it anywhere
		// reachable.
		vm.PushTempRoot(vm.heap.head)
		vm.collect()
		vm.PopTempRoot()
	}
}

// NewString interns nothing (string objects are not uniqued by content);
// it allocates an owned copy of b and precomputes its hash.
func (vm *VM) NewString(b []byte) ObjectID {
	owned := make([]byte, len(b))
	copy(owned, b)
	s := &ObjString{Bytes: owned, Hash: fnv1a32(owned)}
	id := vm.heap.link(s, ObjTypeString, objectSize(s))
	vm.maybeCollect()
	return id
}

// NewModule allocates an empty module under name. Callers (ModuleMake in
// module.go) are responsible for uniqueness in vm.modules.
func (vm *VM) NewModule(name string) ObjectID {
	m := &ObjModule{Name: name}
	id := vm.heap.link(m, ObjTypeModule, objectSize(m))
	vm.maybeCollect()
	return id
}

// NewClass allocates a class with no base, in module.
func (vm *VM) NewClass(name string, module ObjectID) ObjectID {
	c := &ObjClass{Name: name, Module: module}
	id := vm.heap.link(c, ObjTypeClass, objectSize(c))
	vm.maybeCollect()
	return id
}

// NewInstance allocates an instance of class, with an empty field map and
// extraSize bytes of zeroed native extra-data.
func (vm *VM) NewInstance(class ObjectID, extraSize int) ObjectID {
	inst := &ObjInstance{Class: class, Fields: NewSymbolMap()}
	if extraSize > 0 {
		inst.Extra = make([]byte, extraSize)
	}
	id := vm.heap.link(inst, ObjTypeInstance, objectSize(inst))
	vm.maybeCollect()
	return id
}

// NewFunction allocates a scripted function artifact. Its Constants/Code
// are filled in afterward by the compiler's function builder; bytesAllocated
// is only charged for what the function holds at allocation time, exactly
// like every other object — a function's footprint grows invisibly to the
// heap's accounting as the builder appends instructions, the same
// simplification §4.2's "reallocations route through the GC allocator"
// rule exists to avoid for arrays and strings but that this port does not
// extend to in-progress function bodies.
func (vm *VM) NewFunction(module ObjectID, name string, arity int) ObjectID {
	fn := &ObjFunction{Module: module, Name: name, Arity: arity}
	id := vm.heap.link(fn, ObjTypeFunction, objectSize(fn))
	vm.maybeCollect()
	return id
}

// NewNativeFunction allocates a host function binding.
func (vm *VM) NewNativeFunction(name string, arity int, numStatics, extraSize int, fn NativeFunc) ObjectID {
	nf := &ObjNativeFunction{Fn: fn, Name: name, Arity: arity}
	if numStatics > 0 {
		nf.Statics = make([]Value, numStatics)
		for i := range nf.Statics {
			nf.Statics[i] = Nil
		}
	}
	if extraSize > 0 {
		nf.Extra = make([]byte, extraSize)
	}
	id := vm.heap.link(nf, ObjTypeNativeFunction, objectSize(nf))
	vm.maybeCollect()
	return id
}

// NewReference allocates a host-owned, field-less instance-shaped object.
func (vm *VM) NewReference(class ObjectID, extraSize int) ObjectID {
	ref := &ObjReference{Class: class}
	if extraSize > 0 {
		ref.Extra = make([]byte, extraSize)
	}
	id := vm.heap.link(ref, ObjTypeReference, objectSize(ref))
	vm.maybeCollect()
	return id
}

// NewWeakRef allocates a weak reference of class with its Target unset.
// The GC never traces Target; it is the embedder's responsibility to know
// when the referent has gone away.
func (vm *VM) NewWeakRef(class ObjectID) ObjectID {
	wr := &ObjWeakRef{Class: class}
	id := vm.heap.link(wr, ObjTypeWeakRef, objectSize(wr))
	vm.maybeCollect()
	return id
}
