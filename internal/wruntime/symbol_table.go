package wruntime

// SymbolID is a small interned-name id (§3: "Symbol Table"). Once assigned
// to a name it never changes for the life of the VM (§3 invariant i).
type SymbolID uint32

// Reserved symbol ids assigned at VM startup (§6): the special method names
// ctor, dtor and call always resolve to the same three ids, so the VM can
// compare against them directly instead of re-interning strings on every
// `new`, GC finalization pass, or call-dispatch.
const (
	SymCtor SymbolID = 0
	SymDtor SymbolID = 1
	SymCall SymbolID = 2
)

var reservedSymbolNames = [...]string{"ctor", "dtor", "call"}

// SymbolTable is an append-only vector of owned strings; lookup is linear
// (§4.3), which is the deliberate trade the spec calls out: O(1) indexed
// reads at the VM level in exchange for O(n) registration, which only
// happens at compile time.
type SymbolTable struct {
	names []string
}

// NewSymbolTable returns a table with ctor/dtor/call pre-interned at their
// reserved ids.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{names: make([]string, 0, 16)}
	for _, n := range reservedSymbolNames {
		t.names = append(t.names, n)
	}
	return t
}

// Intern returns the id for name, interning it if this is the first time it
// has been seen.
func (t *SymbolTable) Intern(name string) SymbolID {
	for i, n := range t.names {
		if n == name {
			return SymbolID(i)
		}
	}
	id := SymbolID(len(t.names))
	t.names = append(t.names, name)
	return id
}

// Name returns the interned string for id, or "" if id is out of range.
func (t *SymbolTable) Name(id SymbolID) string {
	if int(id) < 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Len reports how many symbols have been interned.
func (t *SymbolTable) Len() int { return len(t.names) }
