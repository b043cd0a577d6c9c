package wruntime

// callValue implements CALL_FN's dispatch (§4.6): locals[base..base+argc)
// holds the arguments, callee is the value found in locals[B]. The result
// is written back into locals[base] exactly as RETURN would land it, so the
// caller reads it from that same register.
func (vm *VM) callValue(callee Value, base, argc int) {
	if !callee.IsPointer() {
		raisef(ErrRuntime, "call on non-callable value")
	}
	switch fn := vm.heap.get(callee.AsObject()).(type) {
	case *ObjFunction:
		vm.callScripted(fn, base, argc)
	case *ObjNativeFunction:
		vm.callNative(fn, callee.AsObject(), base, argc)
	case *ObjInstance, *ObjReference, *ObjWeakRef:
		vm.callCallable(callee, base, argc)
	default:
		raisef(ErrRuntime, "call on non-callable value")
	}
}

func (vm *VM) checkArity(name string, arity, argc int) {
	if arity >= 0 && arity != argc {
		raisef(ErrFunctionArityMismatch, "%s expects %d argument(s), got %d", name, arity, argc)
	}
}

// callScripted pushes a new frame over locals[base..) and hands control
// back to run's dispatch loop; run itself drives execution to RETURN.
func (vm *VM) callScripted(fn *ObjFunction, base, argc int) {
	vm.checkArity(fn.Name, fn.Arity, argc)
	vm.growStack(base + fn.NeededStackSpace)
	for i := base + argc; i < base+fn.NeededStackSpace; i++ {
		vm.stack[i] = Nil
	}
	savedTop := vm.stackTop
	vm.stackTop = base + fn.NeededStackSpace
	vm.frames = append(vm.frames, Frame{Fn: fn.Header().id, Base: base, Argc: argc, SavedTop: savedTop})
	vm.run()
}

// callNative invokes a host function with the operand stack windowed to
// [base, base+argc) (§6's NativeFunc contract): it sets current_native_fn
// so the callee can reach its Statics/Extra, runs the host closure
// directly (no bytecode dispatch loop needed for a native frame), and
// leaves its result in locals[0] of that window, which is locals[base] of
// the caller, mirroring a scripted RETURN.
func (vm *VM) callNative(fn *ObjNativeFunction, fnID ObjectID, base, argc int) {
	vm.checkArity(fn.Name, fn.Arity, argc)
	vm.growStack(base + argc + 1)
	if argc == 0 {
		vm.stack[base] = Nil // slot 0 is the result slot even with no arguments
	}

	vm.frames = append(vm.frames, Frame{Native: fnID, Base: base, Argc: argc, SavedTop: vm.stackTop})
	prevNative := vm.currentNative
	vm.currentNative = fnID

	func() {
		defer func() {
			vm.currentNative = prevNative
			vm.frames = vm.frames[:len(vm.frames)-1]
		}()
		fn.Fn(vm)
	}()

	vm.stackTop = base + 1
}

// callCallable resolves an instance/reference/weak-ref's class and, if it
// defines a `call` method, prepends the receiver to the argument region
// (shifting every argument up by one slot) and retries CALL_FN semantics
// with that method as the callee (§4.6).
func (vm *VM) callCallable(receiver Value, base, argc int) {
	class, ok := vm.resolveClassOf(receiver)
	if !ok {
		raisef(ErrRuntime, "call on non-callable value")
	}
	method, ok := vm.lookupInClassChain(class, SymCall)
	if !ok {
		raisef(ErrRuntime, "class %s has no call method", vm.className(class))
	}
	vm.growStack(base + argc + 1)
	for i := argc; i > 0; i-- {
		vm.stack[base+i] = vm.stack[base+i-1]
	}
	vm.stack[base] = receiver
	vm.callValue(method, base, argc+1)
}
