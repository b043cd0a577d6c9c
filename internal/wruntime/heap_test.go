package wruntime

import "testing"

func TestDefaultAllocatorGrowPreservesPrefix(t *testing.T) {
	buf := DefaultAllocator(nil, nil, 0, 4)
	copy(buf, []byte("abcd"))
	grown := DefaultAllocator(nil, buf, 4, 8)
	if string(grown[:4]) != "abcd" {
		t.Errorf("grown prefix = %q, want %q", grown[:4], "abcd")
	}
	if len(grown) != 8 {
		t.Errorf("len(grown) = %d, want 8", len(grown))
	}
}

func TestDefaultAllocatorFreeReturnsNil(t *testing.T) {
	if got := DefaultAllocator(nil, []byte("x"), 1, 0); got != nil {
		t.Errorf("free must return nil, got %v", got)
	}
}

func TestHeapAllocationReservesObjectIDZero(t *testing.T) {
	vm := New(Config{})
	id := vm.NewString([]byte("x"))
	if id == 0 {
		t.Error("the first real allocation must not reuse reserved ObjectID 0")
	}
	if vm.heap.get(0) != nil {
		t.Error("ObjectID 0 must never resolve to a live object")
	}
}

func TestShouldCollectRespectsGCRunningGuard(t *testing.T) {
	h := newHeap(Config{InitialHeapSize: 1})
	h.bytesAllocated = 100
	if !h.shouldCollect() {
		t.Error("bytesAllocated >= heapSize must trigger collection")
	}
	h.gcRunning = true
	if h.shouldCollect() {
		t.Error("shouldCollect must be false while a cycle is already running")
	}
}

func TestHeapGrowsPastInitialThreshold(t *testing.T) {
	vm := New(Config{InitialHeapSize: 64, MinHeapSize: 64, GrowthFactor: 0.5})
	for i := 0; i < 50; i++ {
		vm.NewString([]byte("01234567890123456789"))
	}
	if vm.heap.bytesAllocated == 0 {
		t.Fatal("expected some bytes allocated after 50 strings")
	}
}
