package wruntime

// FieldInit is one entry of a class's ordered field-initializer list (§3):
// NEW_CLZ walks this list to populate a fresh instance's field map.
type FieldInit struct {
	Symbol SymbolID
	Init   Value
}

// ObjClass holds a name, an optional base class, the owning module, a
// symbol-indexed method table, a parallel static-variable table, and the
// ordered field-initializer list (§3). The symbol-indexed tables are
// sparse, grown by declaration order exactly like a module's variables
// (§4.3): a class body that declares methods m0, m5, m2 ends up with a
// Methods slice of length 6, most of it Nil.
type ObjClass struct {
	header
	Name       string
	Base       ObjectID // 0 = no base class
	Module     ObjectID
	Methods    []Value
	MethodNames []string
	Statics    []Value
	StaticNames []string
	Fields     []FieldInit
	ExtraSize  int // extra-data byte size for native-bound instances
	Finalizer  NativeFinalizer
}

func growSlots(vals *[]Value, names *[]string, idx int) {
	for len(*vals) <= idx {
		*vals = append(*vals, Nil)
		*names = append(*names, "")
	}
}

// BindMethod stores fn under sym in the method table, growing it if needed.
func (c *ObjClass) BindMethod(sym SymbolID, name string, fn Value) {
	growSlots(&c.Methods, &c.MethodNames, int(sym))
	c.Methods[sym] = fn
	c.MethodNames[sym] = name
}

// MethodAt returns the method bound directly on c (not walking the base
// chain) for sym, or (Nil, false) if c's own table has no entry.
func (c *ObjClass) MethodAt(sym SymbolID) (Value, bool) {
	if int(sym) >= len(c.Methods) {
		return Nil, false
	}
	v := c.Methods[sym]
	return v, !v.IsNil()
}

// BindStatic stores a static field/method under sym.
func (c *ObjClass) BindStatic(sym SymbolID, name string, v Value) {
	growSlots(&c.Statics, &c.StaticNames, int(sym))
	c.Statics[sym] = v
	c.StaticNames[sym] = name
}

func (c *ObjClass) StaticAt(sym SymbolID) (Value, bool) {
	if int(sym) >= len(c.Statics) {
		return Nil, false
	}
	v := c.Statics[sym]
	return v, !v.IsNil()
}

// NativeFinalizer is the host-C finalizer hook a class binding may supply
// (§6's class binding record); the GC invokes it once before the object it
// guards is freed (§4.8).
type NativeFinalizer func(extra []byte)
