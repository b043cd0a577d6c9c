package wisp

import "testing"

func TestMakeModuleRejectsDuplicateName(t *testing.T) {
	vm := New(Config{})
	if _, err := vm.MakeModule("dup"); err != nil {
		t.Fatalf("first MakeModule failed: %v", err)
	}
	if _, err := vm.MakeModule("dup"); err == nil {
		t.Error("second MakeModule with the same name succeeded, want ErrModuleAlreadyDefined")
	} else if werr, ok := err.(*Error); !ok || werr.Code != ErrModuleAlreadyDefined {
		t.Errorf("duplicate MakeModule error = %v, want ErrModuleAlreadyDefined", err)
	}
}

func TestLoadModuleFindsRegisteredModule(t *testing.T) {
	vm := New(Config{})
	id, err := vm.MakeModule("findme")
	if err != nil {
		t.Fatalf("MakeModule failed: %v", err)
	}
	got, ok := vm.LoadModule("findme")
	if !ok || got != id {
		t.Errorf("LoadModule(%q) = (%v, %v), want (%v, true)", "findme", got, ok, id)
	}
	if _, ok := vm.LoadModule("nope"); ok {
		t.Error("LoadModule found a module that was never registered")
	}
}

func TestUnloadModuleRemovesFromRegistry(t *testing.T) {
	vm := New(Config{})
	if _, err := vm.MakeModule("gone"); err != nil {
		t.Fatalf("MakeModule failed: %v", err)
	}
	if err := vm.UnloadModule("gone"); err != nil {
		t.Fatalf("UnloadModule failed: %v", err)
	}
	if _, ok := vm.LoadModule("gone"); ok {
		t.Error("module still resolves after UnloadModule")
	}
}

func TestExecuteInModuleRunsTopLevelStatements(t *testing.T) {
	vm := New(Config{})
	_, err := vm.ExecuteInModule("arith", "var x = 1 + 2;")
	if err != nil {
		t.Fatalf("ExecuteInModule failed: %v", err)
	}
}

func TestExecuteInModuleReportsCompileErrors(t *testing.T) {
	vm := New(Config{})
	_, err := vm.ExecuteInModule("broken", "var x = ;")
	if err == nil {
		t.Fatal("expected a syntax error, got none")
	}
	werr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *wisp.Error", err)
	}
	if werr.Code != ErrLexer && werr.Code != ErrCompile {
		t.Errorf("compile error code = %v, want ErrLexer or ErrCompile", werr.Code)
	}
}

func TestLoadStandardBindsRequestedModulesOnly(t *testing.T) {
	var calledIO, calledMath bool
	RegisterStdModule(1<<30, "std:test-io", func(v *VM) error { calledIO = true; return nil })
	RegisterStdModule(1<<31, "std:test-math", func(v *VM) error { calledMath = true; return nil })

	vm := New(Config{})
	if err := vm.LoadStandard(1 << 30); err != nil {
		t.Fatalf("LoadStandard failed: %v", err)
	}
	if !calledIO {
		t.Error("LoadStandard did not invoke the binder for a flag it was asked for")
	}
	if calledMath {
		t.Error("LoadStandard invoked a binder for a flag it wasn't asked for")
	}
}
