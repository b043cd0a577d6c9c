package wisp

import "wisp/internal/wruntime"

// ClassID identifies a bound class.
type ClassID = wruntime.ObjectID

// NativeFunc is a host function bound as a class method, a static, or a
// bare module-level function. It sees the operand stack windowed to its
// own arguments (§6): arg i is Stack.Number/Bool/String/Instance(i), and
// it leaves a result, if any, via Stack.SetNumber/SetBool/.../SetString
// applied to slot 0 before returning.
type NativeFunc func(s *Stack)

func wrapNative(fn NativeFunc) wruntime.NativeFunc {
	return func(vm *wruntime.VM) { fn(newStack(vm)) }
}

// MethodSpec describes one bound method, the reserved names ctor/dtor/call
// included (§6's class binding record: "each with a name, native function
// pointer, declared arity, static-slot count, extra-data size").
type MethodSpec struct {
	Name    string
	Fn      NativeFunc
	Arity   int // -1 for variadic
	Statics int
	Extra   int
}

// ClassSpec describes a class binding (§6).
type ClassSpec struct {
	Name      string
	Module    ModuleID
	ExtraSize int
	Methods   []MethodSpec
	Statics   []MethodSpec
	// Finalizer, if set, is invoked by the GC once before an unreachable
	// instance of this class is freed (§4.8).
	Finalizer func(extra []byte)
}

// BindClass allocates a class per spec, binds its methods/statics as
// native functions, and declares it in spec.Module under spec.Name so
// script code can `new`-instantiate it.
func (v *VM) BindClass(spec ClassSpec) ClassID {
	rt := v.vm
	classID := rt.NewClass(spec.Name, spec.Module)
	rt.ClassSetExtraSize(classID, spec.ExtraSize)
	if spec.Finalizer != nil {
		rt.ClassSetFinalizer(classID, spec.Finalizer)
	}

	for _, m := range spec.Methods {
		sym := rt.Intern(m.Name)
		fnID := rt.NewNativeFunction(m.Name, m.Arity, m.Statics, m.Extra, wrapNative(m.Fn))
		rt.ClassBindMethod(classID, sym, m.Name, wruntime.FromObject(fnID))
	}
	for _, m := range spec.Statics {
		sym := rt.Intern(m.Name)
		fnID := rt.NewNativeFunction(m.Name, m.Arity, m.Statics, m.Extra, wrapNative(m.Fn))
		rt.ClassBindStatic(classID, sym, m.Name, wruntime.FromObject(fnID))
	}

	sym := rt.Intern(spec.Name)
	rt.ModuleDeclare(spec.Module, sym, spec.Name, wruntime.FromObject(classID))
	return classID
}

// BindFunction declares a bare native function under name in module,
// outside of any class — the way stdlib binds std:io.print and
// std:math's functions.
func (v *VM) BindFunction(module ModuleID, name string, fn NativeFunc, arity int) {
	rt := v.vm
	sym := rt.Intern(name)
	fnID := rt.NewNativeFunction(name, arity, 0, 0, wrapNative(fn))
	rt.ModuleDeclare(module, sym, name, wruntime.FromObject(fnID))
}
