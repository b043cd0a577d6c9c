package wruntime

// ObjInstance is a `new`-allocated object: a class pointer, a field map,
// and inline extra-data bytes for native-bound classes (§3).
type ObjInstance struct {
	header
	Class  ObjectID
	Fields *SymbolMap
	Extra  []byte
}
