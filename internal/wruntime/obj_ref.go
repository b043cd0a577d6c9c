package wruntime

import "unsafe"

// ObjReference is a host-owned "instance without a field map" (§3): useful
// when the embedder wants a class-shaped handle around a native value that
// has no script-visible fields. Its finalizer, if any, comes from its
// class, exactly like ObjInstance.
type ObjReference struct {
	header
	Class ObjectID
	Extra []byte
}

// ObjWeakRef never keeps its target alive; the GC does not trace the raw
// pointer it carries (§3). It is the one heap object whose payload the
// tracer explicitly skips.
type ObjWeakRef struct {
	header
	Class  ObjectID
	Target unsafe.Pointer
}
