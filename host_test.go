package wisp

import "testing"

func TestNewAppliesConfigDefaults(t *testing.T) {
	vm := New(Config{})
	if vm == nil || vm.vm == nil {
		t.Fatal("New returned a VM with no underlying runtime")
	}
	vm.Close()
}

func TestPrintRoutesThroughConfiguredCallback(t *testing.T) {
	var got string
	vm := New(Config{Print: func(_ any, s string) { got += s }})
	vm.Print("hello")
	if got != "hello" {
		t.Errorf("Print callback got %q, want %q", got, "hello")
	}
}

func TestLastErrorReflectsMostRecentRuntimeError(t *testing.T) {
	vm := New(Config{})
	_, err := vm.ExecuteInModule("m", "var x = 1 + nil;")
	if err == nil {
		t.Fatal("expected adding a number to nil to fail")
	}
	msg, code := vm.LastError()
	if code == ErrNone {
		t.Errorf("LastError code = ErrNone after a failing exec, want a non-zero code")
	}
	if msg == "" {
		t.Error("LastError message is empty after a failing exec")
	}
}

func TestRuntimeExposesUnderlyingVM(t *testing.T) {
	vm := New(Config{})
	if vm.Runtime() != vm.vm {
		t.Error("Runtime() did not return the wrapped wruntime.VM")
	}
}
