package wruntime

// symbolMapBuckets is the fixed bucket count §4.2 calls out as "the
// reference choice" for the hash map component backing instance field
// storage.
const symbolMapBuckets = 128

type symbolMapEntry struct {
	key  SymbolID
	val  Value
	next int32 // index into entries, -1 terminates the chain
}

// SymbolMap is an open-chained hash map keyed by SymbolID, the concrete
// shape §4.2 describes for instance field storage: a fixed bucket count, a
// chain per bucket, and insert-on-miss writes (supplemented feature, see
// DESIGN.md: STORE_SYMBOL against a field the instance's map doesn't yet
// hold inserts rather than erroring).
type SymbolMap struct {
	buckets [symbolMapBuckets]int32 // head index into entries, -1 if empty
	entries []symbolMapEntry
}

// NewSymbolMap returns an empty map with every bucket head set to "empty".
func NewSymbolMap() *SymbolMap {
	m := &SymbolMap{}
	for i := range m.buckets {
		m.buckets[i] = -1
	}
	return m
}

func (m *SymbolMap) bucketFor(sym SymbolID) int {
	return int(uint32(sym) % symbolMapBuckets)
}

// Get returns the value stored under sym and whether it was present.
func (m *SymbolMap) Get(sym SymbolID) (Value, bool) {
	b := m.bucketFor(sym)
	for i := m.buckets[b]; i != -1; i = m.entries[i].next {
		if m.entries[i].key == sym {
			return m.entries[i].val, true
		}
	}
	return Nil, false
}

// Set stores val under sym, overwriting an existing entry or inserting a
// new one at the head of its bucket's chain.
func (m *SymbolMap) Set(sym SymbolID, val Value) {
	b := m.bucketFor(sym)
	for i := m.buckets[b]; i != -1; i = m.entries[i].next {
		if m.entries[i].key == sym {
			m.entries[i].val = val
			return
		}
	}
	idx := int32(len(m.entries))
	m.entries = append(m.entries, symbolMapEntry{key: sym, val: val, next: m.buckets[b]})
	m.buckets[b] = idx
}

// Has reports whether sym has an entry, without allocating on miss.
func (m *SymbolMap) Has(sym SymbolID) bool {
	_, ok := m.Get(sym)
	return ok
}

// Len reports the number of live entries.
func (m *SymbolMap) Len() int { return len(m.entries) }

// Each calls fn once per entry, in insertion order, for tracing by the GC.
func (m *SymbolMap) Each(fn func(sym SymbolID, v Value)) {
	for _, e := range m.entries {
		fn(e.key, e.val)
	}
}
