package wruntime

// NativeFunc is a host function bound through the class/native-function
// embedding API (§6). It runs with the operand stack windowed to its own
// arguments (slots [0, argc)); it must leave its result, if any, in slot 0
// before returning, mirroring how a scripted RETURN lands its value in
// locals[0] (§4.7).
type NativeFunc func(vm *VM)

// ObjNativeFunction wraps a host function pointer together with its
// declared arity, a fixed number of static slots, and inline extra-data
// bytes (§3). Arity -1 marks a variadic native function (§6 supplemented
// feature: the VM skips the arity check and the host reads the exact
// argument count via the stack API).
type ObjNativeFunction struct {
	header
	Fn      NativeFunc
	Name    string
	Arity   int
	Statics []Value
	Extra   []byte
}

func (f *ObjNativeFunction) IsVariadic() bool { return f.Arity < 0 }
