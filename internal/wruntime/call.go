package wruntime

// Call is the embedding API's entry point (§6's bfVM_call): it pushes args
// onto the operand stack, dispatches fnValue exactly as CALL_FN would, and
// on a RuntimeError, unwinds every frame pushed since entry, emits a
// synthetic stack trace through the error callback if one is registered,
// and truncates the operand stack back to where Call started (§4.6:
// "state between the error site and the entry frame is discarded cleanly").
func (vm *VM) Call(fnValue Value, args []Value) (result Value, err error) {
	entryFrameDepth := len(vm.frames)
	entryTop := vm.stackTop

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			vm.lastError = rerr.Message
			vm.lastCode = rerr.Code
			vm.emitStackTrace(entryFrameDepth)
			vm.frames = vm.frames[:entryFrameDepth]
			vm.stackTop = entryTop
			result = Nil
			err = rerr
		}
	}()

	base := vm.stackTop
	vm.growStack(base + len(args))
	for i, a := range args {
		vm.stack[base+i] = a
	}
	vm.stackTop = base + len(args)

	vm.callValue(fnValue, base, len(args))
	result = vm.stack[base]
	vm.stackTop = base
	return result, nil
}

// emitStackTrace replays the frames pushed since entryFrameDepth through
// the error callback, bracketed by Begin/End markers, deepest-pushed frame
// first — the order they would be popped while unwinding (§4.6).
func (vm *VM) emitStackTrace(entryFrameDepth int) {
	if vm.errorCB == nil {
		return
	}
	vm.errorCB(StackTraceBegin, 0, 0, "")
	for i := len(vm.frames) - 1; i >= entryFrameDepth; i-- {
		f := &vm.frames[i]
		line := uint32(0)
		name := "<native>"
		if f.Fn != 0 {
			fn := vm.heap.get(f.Fn).(*ObjFunction)
			line = fn.LineFor(f.IP)
			name = fn.Name
			if name == "" {
				name = "<anonymous>"
			}
		} else if f.Native != 0 {
			nf := vm.heap.get(f.Native).(*ObjNativeFunction)
			name = nf.Name
		}
		vm.errorCB(StackTraceFrame, i-entryFrameDepth, line, name)
	}
	vm.errorCB(StackTraceEnd, 0, 0, "")
}
