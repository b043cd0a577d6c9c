package wruntime

// Heap is the object arena plus the GC bookkeeping §3's "VM State" section
// describes as process-wide: the global object list (here, an arena slice
// plus an intrusive next-pointer chain through it), bytes allocated, the
// next-collect threshold, and the re-entrancy guard.
//
// ObjectID 0 is reserved so a zeroed Value's pointer payload never aliases
// a live object; arena[0] is always nil and 0 never appears in the free
// list or the live chain.
type Heap struct {
	arena []obj
	free  []ObjectID
	head  ObjectID // head of the intrusive live-object chain; 0 = empty

	bytesAllocated uint64
	heapSize       uint64
	minHeapSize    uint64
	growthFactor   float64

	memFn    MemoryFunc
	userData any

	gcRunning bool
}

func newHeap(cfg Config) *Heap {
	memFn := cfg.Memory
	if memFn == nil {
		memFn = DefaultAllocator
	}
	min := cfg.MinHeapSize
	if min == 0 {
		min = DefaultMinHeapSize
	}
	initial := cfg.InitialHeapSize
	if initial == 0 {
		initial = DefaultInitialHeapSize
	}
	growth := cfg.GrowthFactor
	if growth == 0 {
		growth = DefaultGrowthFactor
	}
	return &Heap{
		arena:        []obj{nil}, // index 0 reserved
		heapSize:     initial,
		minHeapSize:  min,
		growthFactor: growth,
		memFn:        memFn,
		userData:     cfg.UserData,
	}
}

func (h *Heap) get(id ObjectID) obj {
	if id == 0 || int(id) >= len(h.arena) {
		return nil
	}
	return h.arena[id]
}

// link assigns o a fresh or recycled id, threads it onto the live chain, and
// charges its size against bytesAllocated by routing a matching allocation
// through the host Memory callback (§6). The returned shadow buffer is never
// read back; it exists so every object's lifetime is bracketed by one
// allocate call here and one free call in sweep, the same allocate/resize/
// free contract a native embedder sees.
func (h *Heap) link(o obj, typ ObjType, size uint64) ObjectID {
	var id ObjectID
	if n := len(h.free); n > 0 {
		id = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		id = ObjectID(len(h.arena))
		h.arena = append(h.arena, nil)
	}

	hdr := o.Header()
	hdr.id = id
	hdr.typ = typ
	hdr.mark = markWhite
	hdr.next = h.head
	h.head = id
	h.arena[id] = o
	hdr.shadow = h.realloc(nil, 0, int(size))
	return id
}

// eachLive walks the intrusive chain of every currently-linked object,
// including garbage not yet swept — callers that need only reachable
// objects must check the mark byte themselves.
func (h *Heap) eachLive(fn func(id ObjectID, o obj)) {
	for id := h.head; id != 0; {
		o := h.arena[id]
		next := o.Header().next
		fn(id, o)
		id = next
	}
}

// shouldCollect reports whether the next allocation should trigger a GC
// cycle (§4.8: "Triggered when bytes_allocated >= heap_size on any
// allocation, unless gc_is_running is already set").
func (h *Heap) shouldCollect() bool {
	return !h.gcRunning && h.bytesAllocated >= h.heapSize
}

// MemoryFunc is the host memory callback (§6). It must obey realloc
// semantics: oldSize==0 allocates a fresh buffer, newSize==0 frees ptr (the
// return value is ignored), and any other combination resizes ptr,
// preserving its leading min(oldSize,newSize) bytes. A resize that cannot
// grow must free ptr itself and return nil.
//
// The reference embedding API expresses this in terms of raw pointers and
// byte counts; this port expresses it in terms of Go byte slices so a
// host can supply an allocator without cgo while keeping the exact
// allocate/resize/free argument contract.
type MemoryFunc func(userData any, ptr []byte, oldSize, newSize int) []byte

// DefaultAllocator is the default MemoryFunc: Go's own allocator, used
// unless a Config supplies a custom one. It mirrors realloc: grows or
// shrinks by copying into a freshly made slice and never fails (Go's
// allocator panics under true memory exhaustion rather than returning
// nil, which is an acceptable divergence for a pure-Go host).
func DefaultAllocator(_ any, ptr []byte, _, newSize int) []byte {
	if newSize == 0 {
		return nil
	}
	buf := make([]byte, newSize)
	copy(buf, ptr)
	return buf
}

// realloc routes a growable-collection resize through the host callback
// with the re-entrancy guard held, per §4.2: "Both array and string
// reallocations route through the GC allocator with gc_is_running set, so
// a reallocation cannot itself trigger collection."
func (h *Heap) realloc(ptr []byte, oldSize, newSize int) []byte {
	prevRunning := h.gcRunning
	h.gcRunning = true
	defer func() { h.gcRunning = prevRunning }()

	buf := h.memFn(h.userData, ptr, oldSize, newSize)
	if newSize > oldSize {
		h.bytesAllocated += uint64(newSize - oldSize)
	} else {
		h.bytesAllocated -= uint64(oldSize - newSize)
	}
	return buf
}

// Default heap sizing (§6).
const (
	DefaultMinHeapSize     = 1 << 20  // 1 MiB
	DefaultInitialHeapSize = 5 << 20  // 5 MiB
	DefaultGrowthFactor    = 0.5
)
