package wruntime

// HandleID identifies a host-visible handle (§GLOSSARY: "a host-visible,
// GC-safe reference to a value that survives across API calls until
// explicitly destroyed").
type HandleID int32

const noHandle HandleID = -1

type handleSlot struct {
	value Value
	prev  HandleID
	next  HandleID
	live  bool
}

// HandleList is the VM's doubly linked handle list plus its free-handle
// pool (§3: "a handle list (doubly linked, roots values across host
// reentry); a free-handle pool"). Handles are for host-held references
// crossing the boundary of a single API call — longer-lived than a temp
// root, explicitly destroyed rather than popped LIFO (§9).
type HandleList struct {
	slots    []handleSlot
	head     HandleID
	freeHead HandleID
}

// NewHandleList returns an empty handle list.
func NewHandleList() *HandleList {
	return &HandleList{head: noHandle, freeHead: noHandle}
}

// Make roots v behind a new handle and returns its id.
func (l *HandleList) Make(v Value) HandleID {
	var id HandleID
	if l.freeHead != noHandle {
		id = l.freeHead
		l.freeHead = l.slots[id].next
	} else {
		id = HandleID(len(l.slots))
		l.slots = append(l.slots, handleSlot{})
	}

	l.slots[id] = handleSlot{value: v, prev: noHandle, next: l.head, live: true}
	if l.head != noHandle {
		l.slots[l.head].prev = id
	}
	l.head = id
	return id
}

// Load returns the value behind id, or (Nil, false) if id is not live.
func (l *HandleList) Load(id HandleID) (Value, bool) {
	if !l.valid(id) {
		return Nil, false
	}
	return l.slots[id].value, true
}

// Set overwrites the value behind a live handle.
func (l *HandleList) Set(id HandleID, v Value) bool {
	if !l.valid(id) {
		return false
	}
	l.slots[id].value = v
	return true
}

// Destroy unlinks id from the live list and returns its slot to the free
// pool.
func (l *HandleList) Destroy(id HandleID) {
	if !l.valid(id) {
		return
	}
	s := l.slots[id]
	if s.prev != noHandle {
		l.slots[s.prev].next = s.next
	} else {
		l.head = s.next
	}
	if s.next != noHandle {
		l.slots[s.next].prev = s.prev
	}
	l.slots[id] = handleSlot{live: false, next: l.freeHead, prev: noHandle}
	l.freeHead = id
}

func (l *HandleList) valid(id HandleID) bool {
	return id >= 0 && int(id) < len(l.slots) && l.slots[id].live
}

// Each visits every live handle's value, for GC root marking (§4.8 root 4).
func (l *HandleList) Each(fn func(v Value)) {
	for id := l.head; id != noHandle; id = l.slots[id].next {
		fn(l.slots[id].value)
	}
}

// MakeHandle roots v behind a new handle and, if v is owned by a module
// (directly, or as a function/class/instance declared within one), bumps
// that module's PinCount so ModuleUnload can refuse to remove a module a
// live handle still roots (SPEC_FULL.md's module-unload supplement).
func (vm *VM) MakeHandle(v Value) HandleID {
	id := vm.handles.Make(v)
	if m := vm.ownerModule(v); m != 0 {
		vm.heap.get(m).(*ObjModule).PinCount++
	}
	return id
}

// DestroyHandle releases h and, if it rooted a module-owned value,
// decrements that module's PinCount.
func (vm *VM) DestroyHandle(id HandleID) {
	if v, ok := vm.handles.Load(id); ok {
		if m := vm.ownerModule(v); m != 0 {
			if mod, ok := vm.heap.get(m).(*ObjModule); ok && mod.PinCount > 0 {
				mod.PinCount--
			}
		}
	}
	vm.handles.Destroy(id)
}

// ownerModule returns the module a value is declared within — itself, for a
// module value; Module, for a function or class; the owning class's
// Module, for an instance or reference — or 0 if v has no module owner
// (a string, a native function, nil, a number, a bool, or a weak ref).
func (vm *VM) ownerModule(v Value) ObjectID {
	if !v.IsPointer() || v.AsObject() == 0 {
		return 0
	}
	switch o := vm.heap.get(v.AsObject()).(type) {
	case *ObjModule:
		return o.Header().id
	case *ObjFunction:
		return o.Module
	case *ObjClass:
		return o.Module
	case *ObjInstance:
		return vm.classModule(o.Class)
	case *ObjReference:
		return vm.classModule(o.Class)
	default:
		return 0
	}
}

func (vm *VM) classModule(classID ObjectID) ObjectID {
	if classID == 0 {
		return 0
	}
	cls, ok := vm.heap.get(classID).(*ObjClass)
	if !ok {
		return 0
	}
	return cls.Module
}
