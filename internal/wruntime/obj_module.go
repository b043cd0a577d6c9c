package wruntime

// ObjModule holds a name, an ordered symbol-id → slot mapping of top-level
// variables, and the embedded function that runs the module's top-level
// statements (§3). The slot array is sparse and grown on demand (§4.3):
// declaring a name allocates variables[symbol_id], resizing the backing
// vector and filling any gap with Nil + an empty name.
type ObjModule struct {
	header
	Name      string
	Vars      []Value
	VarNames  []string
	Init      ObjectID // the module's top-level ObjFunction; kept after it runs
	Executed  bool
	PinCount  int // live handles rooting values owned by this module; see ModuleUnload
}

// ensureSlot grows Vars/VarNames so sym is addressable, filling any new gap
// with Nil and an empty name per §4.3.
func (m *ObjModule) ensureSlot(sym SymbolID) {
	idx := int(sym)
	for len(m.Vars) <= idx {
		m.Vars = append(m.Vars, Nil)
		m.VarNames = append(m.VarNames, "")
	}
}

// Declare binds name to sym's slot, growing the array if needed.
func (m *ObjModule) Declare(sym SymbolID, name string, v Value) {
	m.ensureSlot(sym)
	m.Vars[sym] = v
	m.VarNames[sym] = name
}

// Get returns the value bound to sym, or (Nil, false) if sym has never been
// declared in this module.
func (m *ObjModule) Get(sym SymbolID) (Value, bool) {
	if int(sym) >= len(m.Vars) {
		return Nil, false
	}
	return m.Vars[sym], m.VarNames[sym] != "" || m.Vars[sym] != Nil
}

// Set overwrites an already-declared slot, growing the array if necessary.
func (m *ObjModule) Set(sym SymbolID, v Value) {
	m.ensureSlot(sym)
	m.Vars[sym] = v
}
