package wruntime

// resolveClassOf returns the class governing receiver's symbol lookups: its
// own Class field for an instance/reference/weak-ref, or itself if
// receiver already is a class.
func (vm *VM) resolveClassOf(receiver Value) (ObjectID, bool) {
	if !receiver.IsPointer() {
		return 0, false
	}
	switch o := vm.heap.get(receiver.AsObject()).(type) {
	case *ObjInstance:
		return o.Class, true
	case *ObjReference:
		return o.Class, true
	case *ObjWeakRef:
		return o.Class, true
	case *ObjClass:
		return o.Header().id, true
	default:
		return 0, false
	}
}

// lookupInClassChain walks the base-class chain starting at class and
// returns the first non-nil symbols[sym] entry found, preferring methods
// over statics (§4.6: "walk the base-class chain and return the first
// non-nil symbols[C]").
func (vm *VM) lookupInClassChain(class ObjectID, sym SymbolID) (Value, bool) {
	for class != 0 {
		cls := vm.heap.get(class).(*ObjClass)
		if v, ok := cls.MethodAt(sym); ok {
			return v, true
		}
		if v, ok := cls.StaticAt(sym); ok {
			return v, true
		}
		class = cls.Base
	}
	return Nil, false
}

// loadSymbol implements LOAD_SYMBOL: on an instance, try its own field map
// first, then fall through to the class chain; on a class, walk the chain
// directly; on a module, look up the variable bound to sym's name (§4.6).
func (vm *VM) loadSymbol(receiver Value, sym SymbolID) Value {
	if receiver.IsPointer() {
		switch o := vm.heap.get(receiver.AsObject()).(type) {
		case *ObjInstance:
			if v, ok := o.Fields.Get(sym); ok {
				return v
			}
			if v, ok := vm.lookupInClassChain(o.Class, sym); ok {
				return v
			}
			raisef(ErrRuntime, "no symbol %q on instance of %s", vm.symbols.Name(sym), vm.className(o.Class))
		case *ObjReference:
			if v, ok := vm.lookupInClassChain(o.Class, sym); ok {
				return v
			}
			raisef(ErrRuntime, "no symbol %q on reference to %s", vm.symbols.Name(sym), vm.className(o.Class))
		case *ObjWeakRef:
			if v, ok := vm.lookupInClassChain(o.Class, sym); ok {
				return v
			}
			raisef(ErrRuntime, "no symbol %q on weak reference to %s", vm.symbols.Name(sym), vm.className(o.Class))
		case *ObjClass:
			if v, ok := vm.lookupInClassChain(o.Header().id, sym); ok {
				return v
			}
			raisef(ErrRuntime, "no symbol %q on class %s", vm.symbols.Name(sym), o.Name)
		case *ObjModule:
			if v, ok := o.Get(sym); ok {
				return v
			}
			raisef(ErrRuntime, "no symbol %q in module %s", vm.symbols.Name(sym), o.Name)
		}
	}
	raisef(ErrInvalidOpOnType, "LOAD_SYMBOL on non-object value")
	return Nil
}

func (vm *VM) className(id ObjectID) string {
	if id == 0 {
		return "<unknown>"
	}
	if c, ok := vm.heap.get(id).(*ObjClass); ok {
		return c.Name
	}
	return "<unknown>"
}

// storeSymbol implements STORE_SYMBOL: an instance's own field map and a
// module's variables are writable; class-owned method/static tables are
// not, per §3's split between instance data and class-owned tables.
// Writing a field the instance hasn't seen before inserts it rather than
// erroring (§4.2's SymbolMap doc: the supplemented insert-on-miss
// behavior).
func (vm *VM) storeSymbol(receiver Value, sym SymbolID, val Value) {
	if receiver.IsPointer() {
		switch o := vm.heap.get(receiver.AsObject()).(type) {
		case *ObjInstance:
			o.Fields.Set(sym, val)
			return
		case *ObjModule:
			o.Set(sym, val)
			return
		}
	}
	raisef(ErrRuntime, "invalid STORE_SYMBOL target")
}
