package wruntime

import "testing"

func TestEqualNumbers(t *testing.T) {
	vm := New(Config{})
	if !Equal(vm.heap, Number(1), Number(1)) {
		t.Error("equal numbers must compare equal")
	}
	if Equal(vm.heap, Number(1), Number(2)) {
		t.Error("distinct numbers must not compare equal")
	}
}

func TestEqualStringsByContent(t *testing.T) {
	vm := New(Config{})
	a := FromObject(vm.NewString([]byte("hello")))
	b := FromObject(vm.NewString([]byte("hello")))
	if a == b {
		t.Fatal("two separately allocated strings must not be the same object")
	}
	if !Equal(vm.heap, a, b) {
		t.Error("two string objects with equal content must compare equal")
	}
}

func TestEqualStringsDifferByContent(t *testing.T) {
	vm := New(Config{})
	a := FromObject(vm.NewString([]byte("hello")))
	b := FromObject(vm.NewString([]byte("world")))
	if Equal(vm.heap, a, b) {
		t.Error("strings with different content must not compare equal")
	}
}

func TestEqualNilFalseTrueAreDistinct(t *testing.T) {
	vm := New(Config{})
	if Equal(vm.heap, Nil, False) {
		t.Error("Nil must not equal False")
	}
	if Equal(vm.heap, True, False) {
		t.Error("True must not equal False")
	}
}

func TestEqualDifferentObjectIdentity(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("C", 0)
	a := FromObject(vm.NewInstance(classID, 0))
	b := FromObject(vm.NewInstance(classID, 0))
	if Equal(vm.heap, a, b) {
		t.Error("two distinct instances of the same class must not compare equal")
	}
	if !Equal(vm.heap, a, a) {
		t.Error("an instance must compare equal to itself")
	}
}
