package wruntime

import "testing"

func TestSymbolTableReservesSpecialNames(t *testing.T) {
	st := NewSymbolTable()
	if st.Name(SymCtor) != "ctor" || st.Name(SymDtor) != "dtor" || st.Name(SymCall) != "call" {
		t.Fatalf("reserved symbols not pre-interned correctly: ctor=%q dtor=%q call=%q",
			st.Name(SymCtor), st.Name(SymDtor), st.Name(SymCall))
	}
}

func TestSymbolTableInternIsIdempotent(t *testing.T) {
	st := NewSymbolTable()
	a := st.Intern("frobnicate")
	b := st.Intern("frobnicate")
	if a != b {
		t.Errorf("interning the same name twice gave different ids: %d != %d", a, b)
	}
	c := st.Intern("other")
	if c == a {
		t.Error("distinct names must get distinct ids")
	}
}

func TestSymbolMapInsertOnMiss(t *testing.T) {
	m := NewSymbolMap()
	if m.Has(SymbolID(5)) {
		t.Fatal("fresh map must not have any entries")
	}
	m.Set(SymbolID(5), Number(1))
	v, ok := m.Get(SymbolID(5))
	if !ok || v.AsNumber() != 1 {
		t.Errorf("Get after insert-on-miss Set = (%v, %v), want (1, true)", v, ok)
	}
}

func TestSymbolMapOverwrite(t *testing.T) {
	m := NewSymbolMap()
	m.Set(SymbolID(1), Number(1))
	m.Set(SymbolID(1), Number(2))
	if m.Len() != 1 {
		t.Errorf("overwriting a key must not grow entry count, got %d entries", m.Len())
	}
	v, _ := m.Get(SymbolID(1))
	if v.AsNumber() != 2 {
		t.Errorf("overwritten value = %v, want 2", v)
	}
}

func TestSymbolMapCollidingKeysChainCorrectly(t *testing.T) {
	m := NewSymbolMap()
	// 0 and 128 land in the same bucket (symbolMapBuckets == 128).
	m.Set(SymbolID(0), Number(10))
	m.Set(SymbolID(128), Number(20))
	v0, _ := m.Get(SymbolID(0))
	v1, _ := m.Get(SymbolID(128))
	if v0.AsNumber() != 10 || v1.AsNumber() != 20 {
		t.Errorf("colliding keys got mixed up: %v, %v", v0, v1)
	}
}

func TestHandleListMakeLoadDestroy(t *testing.T) {
	l := NewHandleList()
	h := l.Make(Number(42))
	v, ok := l.Load(h)
	if !ok || v.AsNumber() != 42 {
		t.Fatalf("Load(h) = (%v, %v), want (42, true)", v, ok)
	}
	l.Destroy(h)
	if _, ok := l.Load(h); ok {
		t.Error("a destroyed handle must not load successfully")
	}
}

func TestHandleListRecyclesFreedSlots(t *testing.T) {
	l := NewHandleList()
	h1 := l.Make(Number(1))
	l.Destroy(h1)
	h2 := l.Make(Number(2))
	if h2 != h1 {
		t.Errorf("expected the freed slot %d to be recycled, got a new slot %d", h1, h2)
	}
}

func TestHandleListEachVisitsAllLive(t *testing.T) {
	l := NewHandleList()
	l.Make(Number(1))
	l.Make(Number(2))
	h3 := l.Make(Number(3))
	l.Destroy(h3)

	var seen []float64
	l.Each(func(v Value) { seen = append(seen, v.AsNumber()) })
	if len(seen) != 2 {
		t.Fatalf("Each visited %d handles, want 2 live ones", len(seen))
	}
}

func TestTempRootStackLIFO(t *testing.T) {
	var s TempRootStack
	s.Push(1)
	s.Push(2)
	s.Push(3)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	s.Pop()
	if s.Len() != 2 {
		t.Fatalf("Len() after Pop = %d, want 2", s.Len())
	}
}

func TestTempRootStackOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("pushing past capacity must panic")
		}
	}()
	var s TempRootStack
	for i := 0; i < tempRootCapacity+1; i++ {
		s.Push(ObjectID(i))
	}
}

func TestTempRootStackUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("popping an empty stack must panic")
		}
	}()
	var s TempRootStack
	s.Pop()
}
