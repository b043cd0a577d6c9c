package wruntime

import "testing"

func TestModuleUnloadRemovesFromRegistry(t *testing.T) {
	vm := New(Config{})
	if _, err := vm.ModuleMake("m"); err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	if err := vm.ModuleUnload("m"); err != nil {
		t.Fatalf("ModuleUnload: %v", err)
	}
	if _, ok := vm.ModuleLoad("m"); ok {
		t.Error("module still registered after ModuleUnload")
	}
}

func TestModuleUnloadMissingErrors(t *testing.T) {
	vm := New(Config{})
	if err := vm.ModuleUnload("nope"); err == nil {
		t.Fatal("expected an error unloading an unregistered module")
	}
}

// TestModuleUnloadRefusesWhileHandlePinsIt exercises the module-unload
// supplement: a live handle rooting a value the module owns keeps
// ModuleUnload from removing it, until the handle is destroyed.
func TestModuleUnloadRefusesWhileHandlePinsIt(t *testing.T) {
	vm := New(Config{})
	modID, err := vm.ModuleMake("pinned")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	sym := vm.Intern("answer")
	vm.ModuleDeclare(modID, sym, "answer", Number(42))

	h := vm.MakeHandle(FromObject(modID))
	if err := vm.ModuleUnload("pinned"); err == nil {
		t.Fatal("expected ModuleUnload to refuse while a handle pins the module")
	}

	vm.DestroyHandle(h)
	if err := vm.ModuleUnload("pinned"); err != nil {
		t.Fatalf("ModuleUnload after DestroyHandle: %v", err)
	}
}

// TestModuleUnloadRefusesForHandleOnDeclaredFunction confirms the pin
// tracks through a function value declared inside the module, not just a
// handle on the module object itself.
func TestModuleUnloadRefusesForHandleOnDeclaredFunction(t *testing.T) {
	vm := New(Config{})
	modID, err := vm.ModuleMake("withfn")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	fnID := vm.NewFunction(modID, "f", 0)

	h := vm.MakeHandle(FromObject(fnID))
	if err := vm.ModuleUnload("withfn"); err == nil {
		t.Fatal("expected ModuleUnload to refuse while a handle pins a function it owns")
	}
	vm.DestroyHandle(h)
	if err := vm.ModuleUnload("withfn"); err != nil {
		t.Fatalf("ModuleUnload after DestroyHandle: %v", err)
	}
}
