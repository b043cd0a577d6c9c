package wruntime

import (
	"strconv"
)

// debugFormat renders v the way MATH_ADD's string-concatenation rule and
// the embedding API's debug-print helpers need (§4.4, §4.7): numbers in
// their shortest round-trippable decimal form, true/false/nil literally,
// strings verbatim (no quoting — concatenation should not introduce
// quote characters into the result), and every other object by type and
// identity.
func (vm *VM) debugFormat(v Value) string {
	switch {
	case v.IsNumber():
		return strconv.FormatFloat(v.AsNumber(), 'g', -1, 64)
	case v.IsNil():
		return "nil"
	case v.IsTrue():
		return "true"
	case v.IsFalse():
		return "false"
	case v.IsPointer():
		id := v.AsObject()
		if id == 0 {
			return "null"
		}
		switch o := vm.heap.get(id).(type) {
		case *ObjString:
			return o.String()
		case *ObjClass:
			return "<class " + o.Name + ">"
		case *ObjModule:
			return "<module " + o.Name + ">"
		case *ObjFunction:
			return "<function " + o.Name + ">"
		case *ObjNativeFunction:
			return "<native function " + o.Name + ">"
		case *ObjInstance:
			return "<instance of " + vm.className(o.Class) + ">"
		case *ObjReference:
			return "<reference to " + vm.className(o.Class) + ">"
		case *ObjWeakRef:
			return "<weak reference to " + vm.className(o.Class) + ">"
		default:
			return "<object>"
		}
	default:
		return "<value>"
	}
}
