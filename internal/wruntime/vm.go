package wruntime

// PrintFunc is the host's `std:io.print` sink (§6: the "io" module binds a
// print function that uses the print callback).
type PrintFunc func(userData any, s string)

// ModuleLoadFunc lets the host supply source text for a module name the
// registry doesn't already have, e.g. reading it off disk (§6's fourth
// callback). ok is false to report the module as not found.
type ModuleLoadFunc func(userData any, name string) (src string, ok bool)

// Config configures a new VM: the host memory callback, heap sizing, and
// the optional error callback that receives a synthetic stack trace
// whenever a RuntimeError unwinds (§6).
type Config struct {
	Memory          MemoryFunc
	UserData        any
	MinHeapSize     uint64
	InitialHeapSize uint64
	GrowthFactor    float64
	ErrorCallback   ErrorCallback
	Print           PrintFunc
	ModuleLoad      ModuleLoadFunc
}

// VM is one embeddable interpreter instance: the heap, the symbol table, the
// module registry, the operand stack, the call-frame stack, the handle
// list, and the temp-root stack the spec's "VM State" paragraph (§3)
// describes as process-wide for a single VM.
type VM struct {
	heap    *Heap
	symbols *SymbolTable
	modules map[string]ObjectID

	stack    []Value
	stackTop int

	frames []Frame

	handles   *HandleList
	tempRoots TempRootStack

	currentNative ObjectID // set while a NativeFunc runs, for Statics/Extra access

	errorCB   ErrorCallback
	lastError string
	lastCode  ErrorCode

	printCB      PrintFunc
	moduleLoadCB ModuleLoadFunc
	userData     any
}

const initialStackSize = 256

// New returns a freshly initialized VM. ctor/dtor/call are pre-interned at
// their reserved symbol ids (§6).
func New(cfg Config) *VM {
	vm := &VM{
		heap:    newHeap(cfg),
		symbols: NewSymbolTable(),
		modules: make(map[string]ObjectID),
		stack:   make([]Value, initialStackSize),
		handles:      NewHandleList(),
		errorCB:      cfg.ErrorCallback,
		printCB:      cfg.Print,
		moduleLoadCB: cfg.ModuleLoad,
		userData:     cfg.UserData,
	}
	return vm
}

// LastError returns the message and code of the most recent RuntimeError
// any entry point reported.
func (vm *VM) LastError() (string, ErrorCode) { return vm.lastError, vm.lastCode }

// UserData returns the opaque pointer the host supplied at VM creation.
func (vm *VM) UserData() any { return vm.userData }

// Print routes s through the host's print callback, if one was configured.
// A VM with no print callback discards output silently, matching a host
// that never wired stdout (§6).
func (vm *VM) Print(s string) {
	if vm.printCB != nil {
		vm.printCB(vm.userData, s)
	}
}

// LoadModuleSource asks the host's module-load callback for name's source
// text. ok is false if no callback is configured or the host reports the
// module unknown.
func (vm *VM) LoadModuleSource(name string) (string, bool) {
	if vm.moduleLoadCB == nil {
		return "", false
	}
	return vm.moduleLoadCB(vm.userData, name)
}

// Symbols exposes the VM's symbol table, shared by the compiler front end.
func (vm *VM) Symbols() *SymbolTable { return vm.symbols }

// HeapFor exposes the VM's heap, for the embedding API's lower-level
// operations (stack get/set of instance extra-data, handle creation, etc).
func (vm *VM) HeapFor() *Heap { return vm.heap }

// HandlesFor exposes the VM's handle list, for the embedding API's handle
// operations (§6's stack API: make/load/destroy handle).
func (vm *VM) HandlesFor() *HandleList { return vm.handles }

// growStack ensures the stack holds at least top slots,
// preserving stack_top's offset exactly as §3 invariant iii requires.
func (vm *VM) growStack(top int) {
	if top <= len(vm.stack) {
		return
	}
	size := len(vm.stack)
	for size < top {
		size = size + size/2 + 8
	}
	grown := make([]Value, size)
	copy(grown, vm.stack)
	vm.stack = grown
}

// Push appends v at stack_top and advances it.
func (vm *VM) Push(v Value) {
	vm.growStack(vm.stackTop + 1)
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

// Pop retracts stack_top by one and returns the value that was there.
func (vm *VM) Pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

// nativeBase returns the base of the topmost frame, which for a running
// NativeFunc is always the frame CALL_FN (or Call) just pushed for it —
// this is what windows At/SetAt to [0, num_args) as §6's stack API
// promises a host callback.
func (vm *VM) nativeBase() int {
	if len(vm.frames) == 0 {
		return 0
	}
	return vm.frames[len(vm.frames)-1].Base
}

// At returns the value at slot idx, relative to the current native frame's
// base (§6's stack API: "a valid window of slots [0, num_args)").
func (vm *VM) At(idx int) Value { return vm.stack[vm.nativeBase()+idx] }

// SetAt overwrites the value at slot idx, relative to the current native
// frame's base.
func (vm *VM) SetAt(idx int, v Value) { vm.stack[vm.nativeBase()+idx] = v }

// PushTempRoot/PopTempRoot pin a freshly allocated object (or any live
// object) against collection for the window between allocation and linking
// into a reachable structure (§4.8). Exported so callers outside this
// package — the compiler, building a constant pool one allocation at a
// time — can protect a value across the gap between allocating it and
// recording it somewhere the mark pass already walks.
func (vm *VM) PushTempRoot(id ObjectID) { vm.tempRoots.Push(id) }
func (vm *VM) PopTempRoot()             { vm.tempRoots.Pop() }

// currentModule returns the module owning the frame at the top of the call
// stack, or 0 if no frame is active (top-level host call).
func (vm *VM) currentModule() ObjectID {
	if len(vm.frames) == 0 {
		return 0
	}
	f := &vm.frames[len(vm.frames)-1]
	if f.Fn == 0 {
		return 0
	}
	fn := vm.heap.get(f.Fn).(*ObjFunction)
	return fn.Module
}
