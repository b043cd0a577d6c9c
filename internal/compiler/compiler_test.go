package compiler_test

import (
	"testing"

	"wisp/internal/compiler"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/wruntime"
)

func compileAndRun(t *testing.T, src string) (*wruntime.VM, wruntime.ObjectID) {
	t.Helper()
	vm := wruntime.New(wruntime.Config{})
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wsp", []byte(src))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	modID, err := vm.ModuleMake("test")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	compiler.CompileModule(vm, file, bag, modID, fs)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("diag: %s: %s", d.Code, d.Message)
		}
		t.Fatalf("compile produced %d diagnostic(s)", bag.Len())
	}
	if _, err := vm.ExecModule(modID); err != nil {
		t.Fatalf("ExecModule: %v", err)
	}
	return vm, modID
}

func moduleNumber(t *testing.T, vm *wruntime.VM, modID wruntime.ObjectID, name string) float64 {
	t.Helper()
	sym := vm.Intern(name)
	v, ok := vm.ModuleVarGet(modID, sym)
	if !ok {
		t.Fatalf("module variable %q not declared", name)
	}
	if !v.IsNumber() {
		t.Fatalf("module variable %q is not a number", name)
	}
	return v.AsNumber()
}

// TestForLoopIncrementsAfterBody exercises §4.6's for-loop desugaring: the
// increment runs after the body and before re-testing the condition, and
// break exits the loop entirely rather than just skipping one iteration.
func TestForLoopIncrementsAfterBody(t *testing.T) {
	vm, modID := compileAndRun(t, `
		var s = 0;
		for (var i = 0; i < 100; i = i + 1) {
			if (i == 5) { break; }
			s = s + i;
		}
	`)
	if got := moduleNumber(t, vm, modID, "s"); got != 10 {
		t.Errorf("s = %v, want 10", got)
	}
}

// TestWhileLoopAndArithmetic is a smaller sanity check of statement
// sequencing, comparison, and assignment operators outside of a for loop.
func TestWhileLoopAndArithmetic(t *testing.T) {
	vm, modID := compileAndRun(t, `
		var total = 0;
		var i = 0;
		while (i < 5) {
			total += i;
			i = i + 1;
		}
	`)
	if got := moduleNumber(t, vm, modID, "total"); got != 10 {
		t.Errorf("total = %v, want 10", got)
	}
}

// TestClassFieldsAndMethods exercises class declaration, field
// initializers, `new` with a constructor, and method dispatch through
// `self`.
func TestClassFieldsAndMethods(t *testing.T) {
	vm, modID := compileAndRun(t, `
		class Counter {
			var count = 0;
			func ctor(start) {
				self.count = start;
			}
			func bump() {
				self.count = self.count + 1;
				return self.count;
			}
		}
		var c = new Counter(10);
		var first = c.bump();
		var second = c.bump();
	`)
	if got := moduleNumber(t, vm, modID, "first"); got != 11 {
		t.Errorf("first = %v, want 11", got)
	}
	if got := moduleNumber(t, vm, modID, "second"); got != 12 {
		t.Errorf("second = %v, want 12", got)
	}
}

// TestSuperCallsBaseMethod exercises `super.method(args)` dispatching to
// the base class's own implementation rather than recursing back into the
// override.
func TestSuperCallsBaseMethod(t *testing.T) {
	vm, modID := compileAndRun(t, `
		class Animal {
			func speak() {
				return 1;
			}
		}
		class Dog : Animal {
			func speak() {
				return super.speak() + 1;
			}
		}
		var d = new Dog();
		var result = d.speak();
	`)
	if got := moduleNumber(t, vm, modID, "result"); got != 2 {
		t.Errorf("result = %v, want 2", got)
	}
}

// TestHostInvokesRecursiveFunction exercises §8 scenario 2: a function
// declared in script, invoked from the host with an argument through
// vm.Call (not from another script call), recursing to compute fib(9).
func TestHostInvokesRecursiveFunction(t *testing.T) {
	vm, modID := compileAndRun(t, `
		func fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
	`)
	sym := vm.Intern("fib")
	fnVal, ok := vm.ModuleVarGet(modID, sym)
	if !ok {
		t.Fatal("module variable \"fib\" not declared")
	}
	result, err := vm.Call(fnVal, []wruntime.Value{wruntime.Number(9)})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if got := result.AsNumber(); got != 34 {
		t.Errorf("fib(9) = %v, want 34", got)
	}
}

// TestIndexOperatorOverloadRoundTrips exercises the `[]`/`[]=` dispatch
// described in DESIGN.md: a write always requires a matching read getter
// to be bound, since the read is emitted eagerly regardless of whether an
// assignment follows.
func TestIndexOperatorOverloadRoundTrips(t *testing.T) {
	vm, modID := compileAndRun(t, `
		class Box {
			var value = 0;
			func [](key) {
				return self.value;
			}
			func []=(key, v) {
				self.value = v;
			}
		}
		var b = new Box();
		b[0] = 42;
		var got = b[0];
	`)
	if got := moduleNumber(t, vm, modID, "got"); got != 42 {
		t.Errorf("got = %v, want 42", got)
	}
}

// TestImportCopiesModuleVars exercises the "for no list" form of `import`:
// every non-nil variable the imported module declares is copied into the
// importer under its original name.
func TestImportCopiesModuleVars(t *testing.T) {
	vm := wruntime.New(wruntime.Config{})

	libID, err := vm.ModuleMake("lib")
	if err != nil {
		t.Fatalf("ModuleMake(lib): %v", err)
	}
	fs := source.NewFileSet()
	libFileID := fs.AddVirtual("lib.wsp", []byte(`var answer = 42;`))
	libBag := diag.NewBag(100)
	compiler.CompileModule(vm, fs.Get(libFileID), libBag, libID, fs)
	if libBag.HasErrors() {
		t.Fatalf("lib compile failed: %d diagnostics", libBag.Len())
	}
	if _, err := vm.ExecModule(libID); err != nil {
		t.Fatalf("lib ExecModule: %v", err)
	}

	mainID, err := vm.ModuleMake("main")
	if err != nil {
		t.Fatalf("ModuleMake(main): %v", err)
	}
	mainFileID := fs.AddVirtual("main.wsp", []byte(`import "lib"; var mirrored = answer;`))
	mainBag := diag.NewBag(100)
	compiler.CompileModule(vm, fs.Get(mainFileID), mainBag, mainID, fs)
	if mainBag.HasErrors() {
		for _, d := range mainBag.Items() {
			t.Logf("diag: %s: %s", d.Code, d.Message)
		}
		t.Fatalf("main compile failed: %d diagnostics", mainBag.Len())
	}
	if _, err := vm.ExecModule(mainID); err != nil {
		t.Fatalf("main ExecModule: %v", err)
	}

	if got := moduleNumber(t, vm, mainID, "mirrored"); got != 42 {
		t.Errorf("mirrored = %v, want 42", got)
	}
}

// TestImportFallsBackToHostModuleLoad exercises §6's ModuleLoad callback:
// `import`ing a name the registry has never seen asks the host for source
// text, compiles it into the same FileSet as the importer, and registers
// the result so a second `import` of the same name hits the registry
// directly without asking the host again.
func TestImportFallsBackToHostModuleLoad(t *testing.T) {
	var asked []string
	vm := wruntime.New(wruntime.Config{
		ModuleLoad: func(_ any, name string) (string, bool) {
			asked = append(asked, name)
			if name != "geo" {
				return "", false
			}
			return `var pi = 3;`, true
		},
	})

	fs := source.NewFileSet()
	modID, err := vm.ModuleMake("main")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	fileID := fs.AddVirtual("main.wsp", []byte(`import "geo"; var copied = pi;`))
	bag := diag.NewBag(100)
	compiler.CompileModule(vm, fs.Get(fileID), bag, modID, fs)
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("diag: %s: %s", d.Code, d.Message)
		}
		t.Fatalf("compile produced %d diagnostic(s)", bag.Len())
	}
	if _, err := vm.ExecModule(modID); err != nil {
		t.Fatalf("ExecModule: %v", err)
	}
	if got := moduleNumber(t, vm, modID, "copied"); got != 3 {
		t.Errorf("copied = %v, want 3", got)
	}
	if len(asked) != 1 || asked[0] != "geo" {
		t.Errorf("host callback asked = %v, want exactly one call for \"geo\"", asked)
	}
	if _, found := vm.ModuleLoad("geo"); !found {
		t.Error("module fetched via host callback was not registered under its name")
	}
}

// TestImportMissingFromHostAndRegistryErrors confirms a name neither the
// registry nor the host recognizes still reports SynImportNotFound rather
// than silently compiling an empty module.
func TestImportMissingFromHostAndRegistryErrors(t *testing.T) {
	vm := wruntime.New(wruntime.Config{
		ModuleLoad: func(_ any, name string) (string, bool) { return "", false },
	})
	fs := source.NewFileSet()
	modID, err := vm.ModuleMake("main")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	fileID := fs.AddVirtual("main.wsp", []byte(`import "nope";`))
	bag := diag.NewBag(100)
	compiler.CompileModule(vm, fs.Get(fileID), bag, modID, fs)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for an unresolvable import")
	}
	if bag.Items()[0].Code != diag.SynImportNotFound {
		t.Errorf("code = %v, want SynImportNotFound", bag.Items()[0].Code)
	}
}

// TestMissingSemicolonSuggestsInsertFix confirms a missing ';' reports a
// Fix suggestion that inserts one at the point parsing stopped, rather than
// just a bare diagnostic.
func TestMissingSemicolonSuggestsInsertFix(t *testing.T) {
	vm := wruntime.New(wruntime.Config{})
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wsp", []byte("var x = 1\nvar y = 2;"))
	bag := diag.NewBag(100)
	modID, err := vm.ModuleMake("test")
	if err != nil {
		t.Fatalf("ModuleMake: %v", err)
	}
	compiler.CompileModule(vm, fs.Get(fileID), bag, modID, fs)
	if !bag.HasErrors() {
		t.Fatal("expected a missing-semicolon diagnostic")
	}
	d := bag.Items()[0]
	if d.Code != diag.SynExpectSemicolon {
		t.Fatalf("code = %v, want SynExpectSemicolon", d.Code)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 || d.Fixes[0].Edits[0].NewText != ";" {
		t.Fatalf("Fixes = %+v, want one fix inserting ';'", d.Fixes)
	}
}
