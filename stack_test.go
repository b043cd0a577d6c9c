package wisp

import "testing"

// newTestModule registers a fresh empty module so tests that bind native
// functions don't collide with each other's module names.
func newTestModule(t *testing.T, vm *VM, name string) ModuleID {
	t.Helper()
	id, err := vm.MakeModule(name)
	if err != nil {
		t.Fatalf("MakeModule(%q) failed: %v", name, err)
	}
	return id
}

func TestStackArgcAndAccessorsSeeBoundArguments(t *testing.T) {
	vm := New(Config{})
	mod := newTestModule(t, vm, "m")

	var gotArgc int
	var gotNumber float64
	var gotBool bool
	var gotString string
	vm.BindFunction(mod, "probe", func(s *Stack) {
		gotArgc = s.Argc()
		gotNumber = s.Number(0)
		gotBool = s.Bool(1)
		gotString = s.String(2)
		s.SetNumber(0, 42)
	}, 3)

	_, err := vm.ExecuteInModule("caller", `
		import "m";
		probe(3.5, true, "hi");
	`)
	if err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
	if gotArgc != 3 {
		t.Errorf("Argc() = %d, want 3", gotArgc)
	}
	if gotNumber != 3.5 {
		t.Errorf("Number(0) = %v, want 3.5", gotNumber)
	}
	if !gotBool {
		t.Error("Bool(1) = false, want true")
	}
	if gotString != "hi" {
		t.Errorf("String(2) = %q, want %q", gotString, "hi")
	}
}

func TestStackSetStringAllocatesAndReturns(t *testing.T) {
	vm := New(Config{})
	mod := newTestModule(t, vm, "strings")

	vm.BindFunction(mod, "greet", func(s *Stack) {
		s.SetString(0, []byte("hello, "+s.String(0)))
	}, 1)

	modID, err := vm.ExecuteInModule("caller", `
		import "strings";
		return greet("world");
	`)
	if err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
	_ = modID
}

func TestStackHandleRoundTrips(t *testing.T) {
	vm := New(Config{})
	mod := newTestModule(t, vm, "handles")

	var h HandleID
	var loadedOK bool
	var loadedBack bool
	vm.BindFunction(mod, "store", func(s *Stack) {
		h = s.MakeHandle(0)
	}, 1)
	vm.BindFunction(mod, "check", func(s *Stack) {
		loadedOK = s.LoadHandle(0, h)
		loadedBack = s.Bool(0)
	}, 0)

	_, err := vm.ExecuteInModule("caller", `
		import "handles";
		store(true);
		check();
	`)
	if err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
	if !loadedOK {
		t.Error("LoadHandle reported the handle as dead right after MakeHandle")
	}
	if !loadedBack {
		t.Error("value loaded back through the handle lost its payload")
	}

	vm.DestroyHandle(h)
	vm.BindFunction(mod, "recheck", func(s *Stack) {
		loadedOK = s.LoadHandle(0, h)
	}, 0)
	if _, err := vm.ExecuteInModule("caller2", `
		import "handles";
		recheck();
	`); err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
	if loadedOK {
		t.Error("LoadHandle reported a destroyed handle as still live")
	}
}
