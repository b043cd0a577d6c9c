package wruntime

// collect runs one full mark-and-sweep cycle (§4.8): mark every object
// reachable from the six documented root sources, run finalizers for
// instances/references that became unreachable and carry a class
// finalizer, then sweep every white object back onto the free list.
//
// gc_is_running is held for the whole cycle so nothing triggered from
// inside marking, finalization, or sweep (a growable-collection resize, for
// instance) can recursively start a second collection.
func (vm *VM) collect() {
	h := vm.heap
	h.gcRunning = true
	defer func() { h.gcRunning = false }()

	vm.mark()
	vm.runFinalizers()
	freed := vm.sweep()
	_ = freed

	h.heapSize = h.bytesAllocated + uint64(float64(h.bytesAllocated)*h.growthFactor)
	if h.heapSize < h.minHeapSize {
		h.heapSize = h.minHeapSize
	}
}

// mark walks every documented root (§4.8, items 1-6) and traces from each.
func (vm *VM) mark() {
	// 1. every value on the operand stack up to stack_top.
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	// 2. every function pointer stored on the call-frame stack.
	for i := range vm.frames {
		if vm.frames[i].Fn != 0 {
			vm.markObject(vm.frames[i].Fn)
		}
		if vm.frames[i].Native != 0 {
			vm.markObject(vm.frames[i].Native)
		}
	}
	// 3. every module in the module registry.
	for _, id := range vm.modules {
		vm.markObject(id)
	}
	// 4. every value rooted by a live handle.
	vm.handles.Each(func(v Value) { vm.markValue(v) })
	// 5. active parsers/builders have no root of their own: a
	// freshly-allocated constant (a string literal, a just-compiled nested
	// function) is not yet reachable from any module, stack slot, or frame
	// until the builder copies it into fn.Constants. internal/compiler
	// protects that gap by pushing the object onto the VM's temp-root stack
	// (item 6) around the call that records it, rather than maintaining a
	// root set of its own.
	// 6. every object on the temp-root stack.
	vm.tempRoots.Each(func(id ObjectID) { vm.markObject(id) })
	if vm.currentNative != 0 {
		vm.markObject(vm.currentNative)
	}
}

func (vm *VM) markValue(v Value) {
	if v.IsPointer() {
		vm.markObject(v.AsObject())
	}
}

// markObject marks id black and, the first time it is marked this cycle,
// traces its outgoing references. Recursion depth is bounded by the
// object graph's depth, exactly like the reference tracer.
func (vm *VM) markObject(id ObjectID) {
	if id == 0 {
		return
	}
	o := vm.heap.get(id)
	if o == nil {
		return
	}
	hdr := o.Header()
	if hdr.mark == markBlack || hdr.mark == markScheduled {
		return
	}
	hdr.mark = markBlack
	vm.traceObject(o)
}

// traceObject marks every reference an object variant holds, per §3's
// per-variant shape.
func (vm *VM) traceObject(o obj) {
	switch v := o.(type) {
	case *ObjString:
		// no outgoing references
	case *ObjModule:
		for _, val := range v.Vars {
			vm.markValue(val)
		}
		if v.Init != 0 {
			vm.markObject(v.Init)
		}
	case *ObjClass:
		if v.Base != 0 {
			vm.markObject(v.Base)
		}
		if v.Module != 0 {
			vm.markObject(v.Module)
		}
		for _, val := range v.Methods {
			vm.markValue(val)
		}
		for _, val := range v.Statics {
			vm.markValue(val)
		}
		for _, fi := range v.Fields {
			vm.markValue(fi.Init)
		}
	case *ObjInstance:
		if v.Class != 0 {
			vm.markObject(v.Class)
		}
		v.Fields.Each(func(_ SymbolID, val Value) { vm.markValue(val) })
	case *ObjFunction:
		if v.Module != 0 {
			vm.markObject(v.Module)
		}
		for _, c := range v.Constants {
			vm.markValue(c)
		}
	case *ObjNativeFunction:
		for _, val := range v.Statics {
			vm.markValue(val)
		}
	case *ObjReference:
		if v.Class != 0 {
			vm.markObject(v.Class)
		}
	case *ObjWeakRef:
		if v.Class != 0 {
			vm.markObject(v.Class)
		}
		// Target itself is never traced: a weak ref never keeps its
		// referent alive.
	}
}

// runFinalizers scans every allocated object still marked white (dead this
// cycle) for an instance or reference whose class defines a dtor — either a
// host-C finalizer bound via the class binding API or a script-level `dtor`
// method — re-marks it markScheduled so sweep frees it exactly once and a
// second cycle never finalizes it again, invokes the host-C finalizer (if
// any) immediately, then runs every queued object's script-level `dtor`
// method in a best-effort loop (§4.8, §9).
func (vm *VM) runFinalizers() {
	var toFinalize []ObjectID
	vm.heap.eachLive(func(id ObjectID, o obj) {
		hdr := o.Header()
		if hdr.mark != markWhite {
			return
		}
		class, extra := finalizableParts(o, vm.heap)
		if class == 0 {
			return
		}
		cls, ok := vm.heap.get(class).(*ObjClass)
		if !ok {
			return
		}
		_, hasDtor := vm.lookupInClassChain(class, SymDtor)
		if cls.Finalizer == nil && !hasDtor {
			return
		}
		hdr.mark = markScheduled
		toFinalize = append(toFinalize, id)
		if cls.Finalizer != nil {
			cls.Finalizer(extra)
		}
	})
	for _, id := range toFinalize {
		vm.invokeScriptDtor(id)
	}
}

// invokeScriptDtor calls the script-level `dtor` method bound anywhere in
// id's class chain, if any, with id itself as the receiver. Errors raised
// from inside a dtor are swallowed (best-effort, §4.8's "post-mark
// finalization runs the script-level dtor methods in a best-effort loop")
// so one misbehaving destructor cannot abort the rest of the sweep.
func (vm *VM) invokeScriptDtor(id ObjectID) {
	o := vm.heap.get(id)
	class, _ := finalizableParts(o, vm.heap)
	if class == 0 {
		return
	}
	method, ok := vm.lookupInClassChain(class, SymDtor)
	if !ok {
		return
	}

	entryFrameDepth := len(vm.frames)
	base := vm.stackTop
	defer func() {
		recover()
		vm.frames = vm.frames[:entryFrameDepth]
		vm.stackTop = base
	}()

	vm.growStack(base + 1)
	vm.stack[base] = FromObject(id)
	vm.stackTop = base + 1
	vm.callValue(method, base, 1)
}

func finalizableParts(o obj, h *Heap) (class ObjectID, extra []byte) {
	switch v := o.(type) {
	case *ObjInstance:
		return v.Class, v.Extra
	case *ObjReference:
		return v.Class, v.Extra
	default:
		return 0, nil
	}
}

// sweep frees every object still white or scheduled-and-finalized, walking
// the intrusive live chain and rebuilding it from the survivors, returning
// the count of objects freed this cycle.
func (vm *VM) sweep() int {
	h := vm.heap
	freed := 0
	var newHead ObjectID
	var tail *header

	for id := h.head; id != 0; {
		o := h.arena[id]
		hdr := o.Header()
		next := hdr.next

		if hdr.mark == markWhite || hdr.mark == markScheduled {
			h.arena[id] = nil
			h.free = append(h.free, id)
			h.realloc(hdr.shadow, len(hdr.shadow), 0)
			hdr.shadow = nil
			freed++
		} else {
			hdr.mark = markWhite
			hdr.next = 0
			if tail == nil {
				newHead = id
			} else {
				tail.next = id
			}
			tail = hdr
		}
		id = next
	}
	h.head = newHead
	return freed
}

func objectSize(o obj) uint64 {
	switch v := o.(type) {
	case *ObjString:
		return sizeofString + uint64(len(v.Bytes))
	case *ObjModule:
		return sizeofModule
	case *ObjClass:
		return sizeofClass
	case *ObjInstance:
		return sizeofInstance + uint64(len(v.Extra))
	case *ObjFunction:
		return sizeofFunction + uint64(len(v.Constants))*8 + uint64(len(v.Code))*4
	case *ObjNativeFunction:
		return sizeofNative + uint64(len(v.Extra))
	case *ObjReference:
		return sizeofRef + uint64(len(v.Extra))
	case *ObjWeakRef:
		return sizeofWeakRef
	default:
		return 0
	}
}
