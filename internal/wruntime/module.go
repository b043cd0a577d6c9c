package wruntime

// ModuleMake creates and registers an empty module under name, failing if
// a module by that name is already registered (§6: ErrModuleAlreadyDefined).
func (vm *VM) ModuleMake(name string) (ObjectID, error) {
	if _, ok := vm.modules[name]; ok {
		return 0, &RuntimeError{Code: ErrModuleAlreadyDefined, Message: "module already defined: " + name}
	}
	id := vm.NewModule(name)
	vm.modules[name] = id
	return id, nil
}

// ModuleLoad returns the registered module named name, or (0, false) if
// none exists.
func (vm *VM) ModuleLoad(name string) (ObjectID, bool) {
	id, ok := vm.modules[name]
	return id, ok
}

// ModuleUnload drops name from the registry. A module with a positive
// PinCount — a live handle still rooting a value the module owns — refuses
// to unload, reported as ErrRuntime naming the module (SPEC_FULL.md's
// module-unload supplement, carried from the original's pin-count guard so
// ModuleUnloadAll followed by a GC cycle cannot free a module a host handle
// still references).
func (vm *VM) ModuleUnload(name string) error {
	id, ok := vm.modules[name]
	if !ok {
		return &RuntimeError{Code: ErrModuleNotFound, Message: "module not found: " + name}
	}
	if mod, ok := vm.heap.get(id).(*ObjModule); ok && mod.PinCount > 0 {
		return &RuntimeError{Code: ErrRuntime, Message: "module busy, still referenced by a live handle: " + name}
	}
	delete(vm.modules, name)
	return nil
}

// ModuleUnloadAll clears the entire module registry, e.g. when tearing
// down a VM before disposing of it.
func (vm *VM) ModuleUnloadAll() {
	vm.modules = make(map[string]ObjectID)
}

// ExecModule runs a module's top-level function exactly once (§4.6: the
// module's Init function holds the compiled top-level statements). A
// second call is a no-op, mirroring re-importing an already-executed
// module.
func (vm *VM) ExecModule(moduleID ObjectID) (Value, error) {
	mod := vm.heap.get(moduleID).(*ObjModule)
	if mod.Executed {
		return Nil, nil
	}
	if mod.Init == 0 {
		return Nil, nil
	}
	mod.Executed = true
	return vm.Call(FromObject(mod.Init), nil)
}
