package wruntime

import "testing"

func TestCallableInstanceDispatchesThroughCallMethod(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Adder", 0)
	cls := vm.heap.get(classID).(*ObjClass)

	// call(self, n) returns n + 1: a native method bound under SymCall so
	// the instance itself can be invoked as though it were a function.
	nativeID := vm.NewNativeFunction("call", 2, 0, 0, func(vm *VM) {
		n := vm.At(1)
		vm.SetAt(0, Number(n.AsNumber()+1))
	})
	cls.BindMethod(SymCall, "call", FromObject(nativeID))

	instID := vm.NewInstance(classID, 0)
	result, err := vm.Call(FromObject(instID), []Value{Number(41)})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if result.AsNumber() != 42 {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestCallOnInstanceWithoutCallMethodRaises(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Plain", 0)
	instID := vm.NewInstance(classID, 0)
	if _, err := vm.Call(FromObject(instID), nil); err == nil {
		t.Fatal("expected a runtime error calling an instance with no call method")
	}
}

func TestLoadSymbolWalksBaseClassChain(t *testing.T) {
	vm := New(Config{})
	baseID := vm.NewClass("Base", 0)
	base := vm.heap.get(baseID).(*ObjClass)
	sym := vm.symbols.Intern("greet")
	base.BindMethod(sym, "greet", Number(1))

	derivedID := vm.NewClass("Derived", 0)
	derived := vm.heap.get(derivedID).(*ObjClass)
	derived.Base = baseID

	instID := vm.NewInstance(derivedID, 0)
	got := vm.loadSymbol(FromObject(instID), sym)
	if got.AsNumber() != 1 {
		t.Errorf("loadSymbol through base chain = %v, want 1", got)
	}
}

func TestLoadSymbolPrefersInstanceFieldOverClassMethod(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("C", 0)
	cls := vm.heap.get(classID).(*ObjClass)
	sym := vm.symbols.Intern("x")
	cls.BindMethod(sym, "x", Number(99))

	instID := vm.NewInstance(classID, 0)
	inst := vm.heap.get(instID).(*ObjInstance)
	inst.Fields.Set(sym, Number(7))

	got := vm.loadSymbol(FromObject(instID), sym)
	if got.AsNumber() != 7 {
		t.Errorf("loadSymbol = %v, want instance field value 7", got)
	}
}

func TestLoadSymbolMissingRaisesRuntimeError(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Empty", 0)
	instID := vm.NewInstance(classID, 0)
	sym := vm.symbols.Intern("nope")

	defer func() {
		r := recover()
		rerr, ok := r.(*RuntimeError)
		if !ok || rerr.Code != ErrRuntime {
			t.Fatalf("expected a RuntimeError panic, got %v", r)
		}
	}()
	vm.loadSymbol(FromObject(instID), sym)
}

func TestStoreSymbolInsertsOnMiss(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("C", 0)
	instID := vm.NewInstance(classID, 0)
	sym := vm.symbols.Intern("newField")

	vm.storeSymbol(FromObject(instID), sym, Number(5))
	got := vm.loadSymbol(FromObject(instID), sym)
	if got.AsNumber() != 5 {
		t.Errorf("field after insert-on-miss store = %v, want 5", got)
	}
}
