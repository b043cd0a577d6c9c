package wisp

import "testing"

func TestErrorImplementsErrorInterface(t *testing.T) {
	var err error = &Error{Code: ErrRuntime, Message: "boom"}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "boom")
	}
}

func TestWrapRuntimeErrPassesNilThrough(t *testing.T) {
	if wrapRuntimeErr(nil) != nil {
		t.Error("wrapRuntimeErr(nil) returned a non-nil error")
	}
}

func TestErrorCallbackSeesStackTraceEvents(t *testing.T) {
	var kinds []StackTraceKind
	vm := New(Config{ErrorCallback: func(kind StackTraceKind, frameIndex int, line uint32, functionName string) {
		kinds = append(kinds, kind)
	}})

	if _, err := vm.ExecuteInModule("caller", `
		func boom() {
			return 1 + nil;
		}
		boom();
	`); err == nil {
		t.Fatal("expected the runtime error from adding a number to nil")
	}

	if len(kinds) < 2 {
		t.Fatalf("got %d stack-trace events, want at least a begin and an end", len(kinds))
	}
	if kinds[0] != StackTraceBegin {
		t.Errorf("first event = %v, want StackTraceBegin", kinds[0])
	}
	if kinds[len(kinds)-1] != StackTraceEnd {
		t.Errorf("last event = %v, want StackTraceEnd", kinds[len(kinds)-1])
	}
}
