package wruntime

// ObjectID indexes the VM's object arena. Zero is reserved as the null
// reference; it is never a live object's own id.
type ObjectID uint32

// ObjType tags the variant a heap allocation belongs to (§3).
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeModule
	ObjTypeClass
	ObjTypeInstance
	ObjTypeFunction
	ObjTypeNativeFunction
	ObjTypeReference
	ObjTypeWeakRef
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeModule:
		return "module"
	case ObjTypeClass:
		return "class"
	case ObjTypeInstance:
		return "instance"
	case ObjTypeFunction:
		return "function"
	case ObjTypeNativeFunction:
		return "native function"
	case ObjTypeReference:
		return "reference"
	case ObjTypeWeakRef:
		return "weak reference"
	default:
		return "unknown object"
	}
}

// gcMark values. markScheduled is not one of the two "live" marks; it is
// written by runFinalizers onto instances/references whose finalizer has
// run, so the object is never finalized twice; sweep then frees it in the
// same cycle (§4.8, §9's third open
// question: "the intent appears to be 'already scheduled'; implementations
// should define and test this explicitly").
const (
	markWhite    uint8 = 0 // unmarked / swept
	markBlack    uint8 = 1 // reachable this cycle
	markScheduled uint8 = 2 // finalizer has run; freed by this cycle's sweep
)

// header is the uniform prologue every heap allocation carries (§3): a type
// tag, a one-byte GC mark, and an intrusive "next" pointer threading every
// live object into the single list the VM's heap owns.
type header struct {
	id   ObjectID
	typ  ObjType
	mark uint8
	next ObjectID

	// shadow is the buffer the host Memory callback returned for this
	// object's footprint at allocation time (§6). The object's real fields
	// live in the Go struct itself; shadow exists purely so the host sees a
	// matching allocate/free pair through the one callback surface it was
	// given, and so sweep frees back exactly what link charged.
	shadow []byte
}

func (h *header) Header() *header { return h }
func (h *header) ID() ObjectID    { return h.id }
func (h *header) Type() ObjType   { return h.typ }

// obj is implemented by every heap object variant, giving the GC and the
// heap's arena a uniform way to reach the shared header.
type obj interface {
	Header() *header
}
