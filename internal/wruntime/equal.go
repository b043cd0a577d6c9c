package wruntime

// Equal implements §4.1's equality contract: bit-identical non-pointer
// values are equal; two numbers compare by IEEE value (so the bit-identical
// rule alone would wrongly separate 0.0 from -0.0, which this special-cases);
// two string objects compare by hash then content; any other pair of
// pointer values is equal only if they are literally the same object.
func Equal(h *Heap, a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() == b.AsNumber()
	}
	if a.IsPointer() && b.IsPointer() {
		ida, idb := a.AsObject(), b.AsObject()
		if ida == idb {
			return true
		}
		sa, aok := h.get(ida).(*ObjString)
		sb, bok := h.get(idb).(*ObjString)
		if aok && bok {
			return sa.Hash == sb.Hash && string(sa.Bytes) == string(sb.Bytes)
		}
		return false
	}
	return a == b
}
