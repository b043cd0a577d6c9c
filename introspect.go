package wisp

import "wisp/internal/wruntime"

// GCStats mirrors wruntime.GCStats for hosts that want to display GC
// pressure without importing internal/wruntime directly (cmd/wisp's REPL).
type GCStats = wruntime.GCStats

// Stats snapshots the VM's heap bookkeeping.
func (v *VM) Stats() GCStats { return v.vm.Stats() }

// FrameInfo mirrors wruntime.FrameInfo.
type FrameInfo = wruntime.FrameInfo

// CallStack snapshots the VM's current call-frame stack, outermost first.
// It is a read-only debugging aid — the embedding API has no operation
// that lets a host unwind or mutate frames directly.
func (v *VM) CallStack() []FrameInfo { return v.vm.FrameStack() }
