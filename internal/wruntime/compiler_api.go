package wruntime

// This file is the narrow seam the single-pass compiler (internal/compiler)
// reaches through to mutate objects it just allocated via New*: attaching a
// function's bytecode, binding a class's methods/fields, and declaring a
// module's top-level variables. None of this is host-facing (§6's
// embedding API is the host seam; this one is the compiler's).

// GetFunction returns the function allocated at id. Panics if id does not
// name a function — a compiler bug, not a condition to recover from.
func (vm *VM) GetFunction(id ObjectID) *ObjFunction {
	return vm.heap.get(id).(*ObjFunction)
}

// GetClass returns the class allocated at id.
func (vm *VM) GetClass(id ObjectID) *ObjClass {
	return vm.heap.get(id).(*ObjClass)
}

// GetModule returns the module allocated at id.
func (vm *VM) GetModule(id ObjectID) *ObjModule {
	return vm.heap.get(id).(*ObjModule)
}

// ModuleDeclare binds name to sym's slot in the module, growing its
// variables array as needed (§4.3).
func (vm *VM) ModuleDeclare(moduleID ObjectID, sym SymbolID, name string, v Value) {
	vm.GetModule(moduleID).Declare(sym, name, v)
}

// ModuleVarGet reads a module-level variable the compiler itself needs to
// inspect at compile time (e.g. resolving an imported name's value to copy
// or re-bind under a new name for `import ... for`).
func (vm *VM) ModuleVarGet(moduleID ObjectID, sym SymbolID) (Value, bool) {
	return vm.GetModule(moduleID).Get(sym)
}

// ModuleVarNames returns the module's variable-name table, parallel to its
// Vars slice, so `import "name"` (the "copy every non-nil variable" form)
// can enumerate what an imported module declares without the compiler
// needing to know its own symbol ids for the imported names in advance.
func (vm *VM) ModuleVarNames(moduleID ObjectID) []string {
	return vm.GetModule(moduleID).VarNames
}

func (vm *VM) ModuleVarAt(moduleID ObjectID, sym SymbolID) Value {
	mod := vm.GetModule(moduleID)
	if int(sym) >= len(mod.Vars) {
		return Nil
	}
	return mod.Vars[sym]
}

// SetModuleInit attaches the compiled top-level function to a module.
func (vm *VM) SetModuleInit(moduleID, fnID ObjectID) {
	vm.GetModule(moduleID).Init = fnID
}

// ClassSetBase wires a class's base-class pointer (the `class B : A` form).
func (vm *VM) ClassSetBase(classID, baseID ObjectID) {
	vm.GetClass(classID).Base = baseID
}

// ClassAddField appends a field initializer to a class's ordered list
// (§3); NEW_CLZ walks this list when an instance is created.
func (vm *VM) ClassAddField(classID ObjectID, sym SymbolID, init Value) {
	cls := vm.GetClass(classID)
	cls.Fields = append(cls.Fields, FieldInit{Symbol: sym, Init: init})
}

// ClassBindMethod binds a compiled method under sym in the class's
// symbol-indexed method table.
func (vm *VM) ClassBindMethod(classID ObjectID, sym SymbolID, name string, fn Value) {
	vm.GetClass(classID).BindMethod(sym, name, fn)
}

// ClassBindStatic binds a static field/method under sym in the class's
// symbol-indexed static table.
func (vm *VM) ClassBindStatic(classID ObjectID, sym SymbolID, name string, v Value) {
	vm.GetClass(classID).BindStatic(sym, name, v)
}

// ClassBase returns a class's base-class id, or 0 if it has none.
func (vm *VM) ClassBase(classID ObjectID) ObjectID {
	return vm.GetClass(classID).Base
}

// ClassName returns a class's declared name.
func (vm *VM) ClassName(classID ObjectID) string {
	return vm.GetClass(classID).Name
}

// IsClassValue reports whether v points at an ObjClass, for validating a
// `class B : A` base-class expression at compile time.
func (vm *VM) IsClassValue(v Value) bool {
	if !v.IsPointer() {
		return false
	}
	_, ok := vm.heap.get(v.AsObject()).(*ObjClass)
	return ok
}

// ModuleEachVar visits every declared (name, value) pair in a module, for
// the `import "name"` form with no `for` list ("copy every non-nil
// variable").
func (vm *VM) ModuleEachVar(moduleID ObjectID, fn func(name string, v Value)) {
	mod := vm.GetModule(moduleID)
	for i, n := range mod.VarNames {
		if n == "" {
			continue
		}
		fn(n, mod.Vars[i])
	}
}

// Intern forwards to the symbol table; the compiler never touches the
// table directly so that symbol-id stability (§3 invariant i) stays a
// property the VM alone is responsible for.
func (vm *VM) Intern(name string) SymbolID {
	return vm.symbols.Intern(name)
}
