// Package wisp is the embedding API described by §6 of the language
// specification: a host creates a VM from a Config, compiles and runs
// script source through it, and binds native classes and functions back
// into it. Everything under internal/ is implementation detail; this
// package and its stdlib subpackage are the only parts a host program
// imports.
package wisp

import (
	"golang.org/x/sync/singleflight"

	"wisp/internal/wruntime"
)

// MemoryFunc is the host allocator contract: called with oldSize==0 to
// allocate, newSize==0 to free (return value ignored), otherwise to
// resize. A resize that cannot be satisfied must free ptr and return nil
// (§6).
type MemoryFunc = wruntime.MemoryFunc

// PrintFunc is the sink std:io.print writes through.
type PrintFunc = wruntime.PrintFunc

// ModuleLoadFunc lets the host supply source text for a module name the
// registry doesn't already know about, e.g. by reading a file.
type ModuleLoadFunc = wruntime.ModuleLoadFunc

// Config configures a new VM (§6's "host configuration"). Zero-value
// fields fall back to the spec's defaults: 1 MiB minimum heap, 5 MiB
// initial heap, 0.5 growth factor, and the standard-library allocator.
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

// VM is one embeddable interpreter instance.
type VM struct {
	vm *wruntime.VM

	// stdGroup coalesces racing calls to LoadStandard that name the same
	// module into a single registration (module_api.go).
	stdGroup singleflight.Group
}

// New creates a VM from cfg.
func New(cfg Config) *VM {
	rcfg := wruntime.Config{
		Memory:          cfg.Memory,
		UserData:        cfg.UserData,
		MinHeapSize:     cfg.MinHeapSize,
		InitialHeapSize: cfg.InitialHeapSize,
		GrowthFactor:    cfg.GrowthFactor,
		Print:           cfg.Print,
		ModuleLoad:      cfg.ModuleLoad,
	}
	if cfg.ErrorCallback != nil {
		rcfg.ErrorCallback = func(kind wruntime.StackTraceKind, frameIndex int, line uint32, functionName string) {
			cfg.ErrorCallback(StackTraceKind(kind), frameIndex, line, functionName)
		}
	}
	return &VM{vm: wruntime.New(rcfg)}
}

// Close releases a VM. The Go garbage collector reclaims everything the
// VM's own arena holds once a host drops its last reference; Close exists
// so a host's teardown sequence has an explicit symmetric call to New,
// mirroring the reference implementation's paired create/destroy (§6).
func (v *VM) Close() {
	v.vm.ModuleUnloadAll()
}

// LastError returns the message and code of the most recent RuntimeError
// any entry point reported.
func (v *VM) LastError() (string, ErrorCode) {
	msg, code := v.vm.LastError()
	return msg, ErrorCode(code)
}

// Runtime exposes the underlying wruntime.VM, for stdlib and cmd/wisp
// callers that need lower-level access than the stack/module/class API
// surfaces.
func (v *VM) Runtime() *wruntime.VM { return v.vm }

// Print routes s through the host's configured print callback.
func (v *VM) Print(s string) { v.vm.Print(s) }
