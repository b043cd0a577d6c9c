package wisp

import (
	"wisp/internal/compiler"
	"wisp/internal/diag"
	"wisp/internal/source"
	"wisp/internal/wruntime"
)

// ModuleID identifies a registered or anonymous module.
type ModuleID = wruntime.ObjectID

const maxDiagnostics = 100

// StdFlag selects which "std:" modules LoadStandard binds, as a bitmask so
// a host can request several in one call (§6: "load-standard by
// bitmask").
type StdFlag uint32

const (
	StdIO StdFlag = 1 << iota
	StdMath
)

// MakeModule creates and registers an empty module under name, failing
// with ErrModuleAlreadyDefined if name is already registered.
func (v *VM) MakeModule(name string) (ModuleID, error) {
	id, err := v.vm.ModuleMake(name)
	if err != nil {
		return 0, wrapRuntimeErr(err)
	}
	return id, nil
}

// LoadModule returns the module registered under name.
func (v *VM) LoadModule(name string) (ModuleID, bool) {
	return v.vm.ModuleLoad(name)
}

// UnloadModule removes name from the registry; the module object itself
// is reclaimed by the next GC cycle that finds it unreachable.
func (v *VM) UnloadModule(name string) error {
	return wrapRuntimeErr(v.vm.ModuleUnload(name))
}

// UnloadAllModules clears the entire module registry.
func (v *VM) UnloadAllModules() { v.vm.ModuleUnloadAll() }

// ExecuteInModule compiles src under a module named name (or an anonymous
// module if name is ""), runs its top-level statements, and returns the
// module's id. The executed module ends up referenced from stack slot 0
// as if it had just been returned from a call (§6).
func (v *VM) ExecuteInModule(name, src string) (ModuleID, error) {
	var modID ModuleID
	if name == "" {
		modID = v.vm.NewModule("")
	} else {
		id, err := v.vm.ModuleMake(name)
		if err != nil {
			return 0, wrapRuntimeErr(err)
		}
		modID = id
	}

	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	compiler.CompileModule(v.vm, file, bag, modID, fs)
	if bag.HasErrors() {
		return modID, &Error{Code: classifyDiagErr(bag), Message: formatDiagnostics(bag, fs)}
	}

	result, err := v.vm.ExecModule(modID)
	if err != nil {
		return modID, wrapRuntimeErr(err)
	}
	v.vm.Push(result)
	return modID, nil
}

// stdModule is one entry of the standard-module registry: the flag bit
// that selects it, its registered name, and the binder that populates it.
// wisp/stdlib registers into this from its own init() functions so the
// core embedding package never imports it — "out-of-core" per SPEC_FULL's
// package layout.
type stdModule struct {
	name string
	bind func(*VM) error
}

var stdRegistry = map[StdFlag]stdModule{}

// RegisterStdModule lets an out-of-core package (wisp/stdlib) plug a
// module into LoadStandard's bitmask without the core package depending
// on it.
func RegisterStdModule(flag StdFlag, name string, bind func(*VM) error) {
	stdRegistry[flag] = stdModule{name: name, bind: bind}
}

// LoadStandard registers whichever modules flags selects under their
// "std:" names, coalescing concurrent requests for the same module into a
// single registration via singleflight — the module API, unlike the
// single-threaded interpreter loop, does not promise a host only ever
// calls it from one goroutine at a time (§5, §6).
func (v *VM) LoadStandard(flags StdFlag) error {
	for flag, mod := range stdRegistry {
		if flags&flag == 0 {
			continue
		}
		if err := v.loadStdOnce(mod.name, func() error { return mod.bind(v) }); err != nil {
			return err
		}
	}
	return nil
}

func (v *VM) loadStdOnce(name string, bind func() error) error {
	_, err, _ := v.stdGroup.Do(name, func() (any, error) {
		if _, ok := v.vm.ModuleLoad(name); ok {
			return nil, nil
		}
		return nil, bind()
	})
	return err
}

func classifyDiagErr(bag *diag.Bag) ErrorCode {
	for _, d := range bag.Items() {
		if d.Code < 2000 {
			return ErrLexer
		}
	}
	return ErrCompile
}

func formatDiagnostics(bag *diag.Bag, fs *source.FileSet) string {
	return diag.FormatShortDiagnostics(bag.Items(), fs, true)
}
