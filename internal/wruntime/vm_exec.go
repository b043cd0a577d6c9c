package wruntime

import "wisp/internal/bytecode"

// run drives the topmost call frame's instruction vector until it RETURNs,
// then pops that frame and returns control to its Go caller — callScripted
// for a nested scripted call, or Call for the entry point. This makes the
// reference implementation's explicit frame-stack unwinding fall directly
// out of Go's own call stack: "resume caller" on RETURN is simply this
// function returning into whichever call pushed the frame it just popped
// (§4.6).
func (vm *VM) run() {
	frameIdx := len(vm.frames) - 1
	fn := vm.heap.get(vm.frames[frameIdx].Fn).(*ObjFunction)
	base := vm.frames[frameIdx].Base

	for {
		// Re-fetch the frame pointer each iteration: a CALL_FN below may
		// append to vm.frames and reallocate its backing array, which
		// would strand a pointer cached across iterations.
		frame := &vm.frames[frameIdx]
		inst := fn.Code[frame.IP]
		op := inst.Op()
		frame.IP++

		switch op {
		case bytecode.OpLoadSymbol:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.loadSymbol(vm.stack[base+b], SymbolID(c))

		case bytecode.OpLoadBasic:
			a, bx := inst.A(), uint32(inst.Bx())
			switch bx {
			case bytecode.LoadBasicTrue:
				vm.stack[base+a] = True
			case bytecode.LoadBasicFalse:
				vm.stack[base+a] = False
			case bytecode.LoadBasicNil:
				vm.stack[base+a] = Nil
			case bytecode.LoadBasicModule:
				vm.stack[base+a] = FromObject(fn.Module)
			default:
				vm.stack[base+a] = fn.Constants[bx-bytecode.LoadBasicConstBase]
			}

		case bytecode.OpStoreMove:
			a, bx := inst.A(), inst.Bx()
			vm.stack[base+a] = vm.stack[base+bx]

		case bytecode.OpStoreSymbol:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.storeSymbol(vm.stack[base+a], SymbolID(b), vm.stack[base+c])

		case bytecode.OpNewClz:
			a, bx := inst.A(), inst.Bx()
			vm.stack[base+a] = vm.execNewClz(vm.stack[base+bx])

		case bytecode.OpMathAdd:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.execAdd(vm.stack[base+b], vm.stack[base+c])
		case bytecode.OpMathSub:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.checkedNumeric(Sub(vm.stack[base+b], vm.stack[base+c]), vm.stack[base+b], vm.stack[base+c])
		case bytecode.OpMathMul:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.checkedNumeric(Mul(vm.stack[base+b], vm.stack[base+c]), vm.stack[base+b], vm.stack[base+c])
		case bytecode.OpMathDiv:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.checkedNumeric(Div(vm.stack[base+b], vm.stack[base+c]), vm.stack[base+b], vm.stack[base+c])
		case bytecode.OpMathMod:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.checkedNumeric(Mod(vm.stack[base+b], vm.stack[base+c]), vm.stack[base+b], vm.stack[base+c])
		case bytecode.OpMathPow:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = vm.checkedNumeric(Pow(vm.stack[base+b], vm.stack[base+c]), vm.stack[base+b], vm.stack[base+c])

		case bytecode.OpMathInv:
			a, bx := inst.A(), inst.Bx()
			operand := vm.stack[base+bx]
			if !operand.IsNumber() {
				raisef(ErrInvalidOpOnType, "unary - on non-number")
			}
			vm.stack[base+a] = Neg(operand)

		case bytecode.OpCmpEE:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(Equal(vm.heap, vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpNE:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(!Equal(vm.heap, vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpLT:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(Less(vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpLE:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(LessEq(vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpGT:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(Greater(vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpGE:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(GreaterEq(vm.stack[base+b], vm.stack[base+c]))
		case bytecode.OpCmpAnd:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(vm.stack[base+b].Truthy() && vm.stack[base+c].Truthy())
		case bytecode.OpCmpOr:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.stack[base+a] = Bool(vm.stack[base+b].Truthy() || vm.stack[base+c].Truthy())

		case bytecode.OpNot:
			a, bx := inst.A(), inst.Bx()
			vm.stack[base+a] = Bool(!vm.stack[base+bx].Truthy())

		case bytecode.OpCallFn:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.callValue(vm.stack[base+b], base+a, c)
			// callValue (via callScripted/callNative) leaves the result at
			// vm.stack[base+a] and may have grown vm.stack; fn/base/frame
			// are unaffected since Go slices are not invalidated here (the
			// stack backing array may have been replaced by growStack, so
			// re-read frame's own bookkeeping rather than caching a slice).

		case bytecode.OpJump:
			frame.IP += inst.SBx()

		case bytecode.OpJumpIf:
			a := inst.A()
			if vm.stack[base+a].Truthy() {
				frame.IP += inst.SBx()
			}

		case bytecode.OpJumpIfNot:
			a := inst.A()
			if !vm.stack[base+a].Truthy() {
				frame.IP += inst.SBx()
			}

		case bytecode.OpCallCtor:
			a, b, c := inst.A(), inst.B(), inst.C()
			vm.execCallCtor(base+a, base+b, c)

		case bytecode.OpReturn:
			bx := inst.Bx()
			result := vm.stack[base+bx]
			vm.stack[base] = result
			vm.stackTop = frame.SavedTop
			vm.frames = vm.frames[:frameIdx]
			return

		default:
			raisef(ErrRuntime, "illegal opcode %v at ip=%d", op, frame.IP-1)
		}
	}
}

// execCallCtor implements the supplemented ctor auto-invocation feature
// (SPEC_FULL.md, DESIGN.md): if the instance at instIdx's class chain
// defines the reserved ctor symbol, call it with the receiver prepended to
// the args already sitting at [argsBase, argsBase+argc) — the same
// receiver-prepend convention callCallable uses for the `call` operator.
// A class with no ctor leaves the instance at instIdx untouched.
func (vm *VM) execCallCtor(instIdx, argsBase, argc int) {
	instVal := vm.stack[instIdx]
	class, ok := vm.resolveClassOf(instVal)
	if !ok {
		return
	}
	method, ok := vm.lookupInClassChain(class, SymCtor)
	if !ok {
		return
	}
	vm.growStack(argsBase + argc + 1)
	for i := argc; i > 0; i-- {
		vm.stack[argsBase+i] = vm.stack[argsBase+i-1]
	}
	vm.stack[argsBase] = instVal
	vm.callValue(method, argsBase, argc+1)
}

// execAdd implements MATH_ADD's extra string-concatenation rule (§4.4,
// §4.7): if either operand is a string, the result is the concatenation of
// both operands' debug-style textual form; otherwise it is plain numeric
// addition, and a non-number operand raises ErrInvalidOpOnType.
func (vm *VM) execAdd(a, b Value) Value {
	if vm.isString(a) || vm.isString(b) {
		text := vm.debugFormat(a) + vm.debugFormat(b)
		return FromObject(vm.NewString([]byte(text)))
	}
	if !a.IsNumber() || !b.IsNumber() {
		raisef(ErrInvalidOpOnType, "+ on non-numeric, non-string operand")
	}
	return Number(a.AsNumber() + b.AsNumber())
}

func (vm *VM) checkedNumeric(result, a, b Value) Value {
	if result.IsNil() && !(a.IsNumber() && b.IsNumber()) {
		raisef(ErrInvalidOpOnType, "arithmetic on non-number")
	}
	return result
}

func (vm *VM) isString(v Value) bool {
	if !v.IsPointer() {
		return false
	}
	_, ok := vm.heap.get(v.AsObject()).(*ObjString)
	return ok
}

// execNewClz allocates an instance of the class held in classVal and runs
// its field-initializer list (§4.4).
func (vm *VM) execNewClz(classVal Value) Value {
	if !classVal.IsPointer() {
		raisef(ErrRuntime, "new on non-class value")
	}
	cls, ok := vm.heap.get(classVal.AsObject()).(*ObjClass)
	if !ok {
		raisef(ErrRuntime, "new on non-class value")
	}
	id := vm.NewInstance(classVal.AsObject(), cls.ExtraSize)
	vm.PushTempRoot(id)
	inst := vm.heap.get(id).(*ObjInstance)
	for _, fi := range cls.Fields {
		inst.Fields.Set(fi.Symbol, fi.Init)
	}
	vm.PopTempRoot()
	return FromObject(id)
}
