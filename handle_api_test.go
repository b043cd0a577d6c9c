package wisp

import "testing"

func TestHandleRoundTripsThroughValue(t *testing.T) {
	vm := New(Config{})
	h := vm.MakeHandle(Number(7))

	got, ok := vm.LoadHandle(h)
	if !ok {
		t.Fatal("LoadHandle reported the handle dead right after MakeHandle")
	}
	if got.Number() != 7 {
		t.Errorf("LoadHandle = %v, want 7", got.Number())
	}
}

func TestDestroyHandleMakesItDead(t *testing.T) {
	vm := New(Config{})
	h := vm.MakeHandle(Bool(true))
	vm.DestroyHandle(h)

	if _, ok := vm.LoadHandle(h); ok {
		t.Error("LoadHandle succeeded on a destroyed handle")
	}
	// Destroying an already-dead handle must not panic.
	vm.DestroyHandle(h)
}

// TestHandleSurvivesACollectionCycle pins a script-allocated string behind a
// handle from inside a native function, forces a collection with a 1-byte
// heap, and confirms the handle still resolves to the same content — the
// property that distinguishes a handle from the interpreter's own
// temp-root stack (§GLOSSARY: a handle survives across separate calls,
// not just across one allocation).
func TestHandleSurvivesACollectionCycle(t *testing.T) {
	vm := New(Config{MinHeapSize: 1, InitialHeapSize: 1})
	mod := newTestModule(t, vm, "strs")

	var h HandleID
	vm.BindFunction(mod, "store", func(s *Stack) {
		h = s.MakeHandle(0)
	}, 1)

	if _, err := vm.ExecuteInModule("caller", `
		import "strs";
		store("pin me");
	`); err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}

	vm.Runtime().NewString([]byte("garbage to force a collection"))

	var got string
	vm.BindFunction(mod, "check", func(s *Stack) {
		if ok := s.LoadHandle(0, h); ok {
			got = s.String(0)
		}
	}, 0)
	if _, err := vm.ExecuteInModule("caller2", `
		import "strs";
		check();
	`); err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
	if got != "pin me" {
		t.Errorf("handle content after a collection cycle = %q, want %q", got, "pin me")
	}
}
