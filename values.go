package wisp

import "wisp/internal/wruntime"

// Value is a script value opaque to the host beyond the Kind/accessor
// surface this package exposes — the NaN-boxed representation itself
// stays an internal/wruntime concern (§4.1).
type Value struct {
	inner wruntime.Value
}

// Number constructs a numeric value.
func Number(f float64) Value { return Value{inner: wruntime.Number(f)} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{inner: wruntime.Bool(b)} }

// Nil is the nil value.
var Nil = Value{inner: wruntime.Nil}

func (v Value) Kind(vm *VM) Kind { return vm.vm.KindOf(v.inner) }
func (v Value) Number() float64  { return v.inner.AsNumber() }
func (v Value) Bool() bool       { return v.inner.AsBool() }
func (v Value) IsNil() bool      { return v.inner.IsNil() }
func (v Value) Truthy() bool     { return v.inner.Truthy() }
