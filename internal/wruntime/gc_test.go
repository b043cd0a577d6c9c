package wruntime

import "testing"

// TestGCCollectsUnreachableKeepsReachable pins the mark-and-sweep contract
// from §4.8's property list: every object reachable from the documented
// root set survives a collection cycle still unmarked for the next one;
// every other object is freed.
func TestGCCollectsUnreachableKeepsReachable(t *testing.T) {
	vm := New(Config{})

	rootedID := vm.NewString([]byte("rooted"))
	vm.Push(FromObject(rootedID))

	garbageID := vm.NewString([]byte("garbage"))
	_ = garbageID

	vm.collect()

	if vm.heap.get(rootedID) == nil {
		t.Error("object reachable from the operand stack must survive collection")
	}
	if vm.heap.get(garbageID) != nil {
		t.Error("unreachable object must be freed by collection")
	}
	if hdr := vm.heap.get(rootedID).Header(); hdr.mark != markWhite {
		t.Errorf("surviving object must be reset to markWhite after sweep, got %d", hdr.mark)
	}
}

func TestGCTracesThroughModuleVariables(t *testing.T) {
	vm := New(Config{})
	modID, err := vm.ModuleMake("m")
	if err != nil {
		t.Fatal(err)
	}
	mod := vm.heap.get(modID).(*ObjModule)
	sym := vm.symbols.Intern("greeting")
	strID := vm.NewString([]byte("hi"))
	mod.Declare(sym, "greeting", FromObject(strID))

	vm.collect()

	if vm.heap.get(strID) == nil {
		t.Error("a string reachable only through a module variable must survive collection")
	}
}

func TestGCFreesAfterModuleUnload(t *testing.T) {
	vm := New(Config{})
	modID, err := vm.ModuleMake("scratch")
	if err != nil {
		t.Fatal(err)
	}
	mod := vm.heap.get(modID).(*ObjModule)
	sym := vm.symbols.Intern("tmp")
	strID := vm.NewString([]byte("tmp-value"))
	mod.Declare(sym, "tmp", FromObject(strID))

	if err := vm.ModuleUnload("scratch"); err != nil {
		t.Fatal(err)
	}
	vm.collect()

	if vm.heap.get(modID) != nil {
		t.Error("an unregistered module must be collected")
	}
	if vm.heap.get(strID) != nil {
		t.Error("a string only reachable through an unregistered module must be collected")
	}
}

func TestTempRootProtectsDuringAllocationSequence(t *testing.T) {
	vm := New(Config{})
	id := vm.NewString([]byte("pinned"))
	vm.PushTempRoot(id)
	vm.collect()
	if vm.heap.get(id) == nil {
		t.Error("an object on the temp-root stack must survive collection")
	}
	vm.PopTempRoot()
	vm.collect()
	if vm.heap.get(id) != nil {
		t.Error("after popping its temp root, an otherwise-unreachable object must be collected")
	}
}

func TestHeapByteAccountingAfterSweep(t *testing.T) {
	vm := New(Config{})
	before := vm.heap.bytesAllocated
	id := vm.NewString([]byte("x"))
	afterAlloc := vm.heap.bytesAllocated
	if afterAlloc <= before {
		t.Fatal("allocating a string must increase bytesAllocated")
	}
	_ = id
	vm.collect()
	if vm.heap.bytesAllocated != before {
		t.Errorf("bytesAllocated after sweeping all garbage = %d, want %d", vm.heap.bytesAllocated, before)
	}
}

func TestFinalizerRunsOnceBeforeSweep(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Resource", 0)
	cls := vm.heap.get(classID).(*ObjClass)
	calls := 0
	cls.Finalizer = func(extra []byte) { calls++ }

	instID := vm.NewInstance(classID, 0)
	_ = instID

	vm.collect()
	if calls != 1 {
		t.Errorf("finalizer ran %d times, want exactly 1", calls)
	}

	vm.collect()
	if calls != 1 {
		t.Errorf("finalizer ran again on a second cycle: %d calls, want 1", calls)
	}
}

// TestScriptDtorRunsOnceWithReceiver pins §4.8's "post-mark finalization
// runs the script-level dtor methods" behavior: a class whose only
// finalizer is a script-level `dtor` method (no host-C Finalizer at all)
// still gets it invoked exactly once, with the dying instance as `self`.
func TestScriptDtorRunsOnceWithReceiver(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Resource", 0)
	cls := vm.heap.get(classID).(*ObjClass)

	var seenSelf Value
	calls := 0
	nfID := vm.NewNativeFunction("dtor", 1, 0, 0, func(vm *VM) {
		seenSelf = vm.At(0)
		calls++
	})
	cls.BindMethod(SymDtor, "dtor", FromObject(nfID))

	instID := vm.NewInstance(classID, 0)
	_ = instID

	vm.collect()
	if calls != 1 {
		t.Fatalf("script dtor ran %d times, want exactly 1", calls)
	}
	if !seenSelf.IsPointer() || seenSelf.AsObject() != instID {
		t.Errorf("script dtor's self = %v, want the dying instance %v", seenSelf, instID)
	}

	vm.collect()
	if calls != 1 {
		t.Errorf("script dtor ran again on a second cycle: %d calls, want 1", calls)
	}
}
