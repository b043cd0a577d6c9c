package wruntime

import (
	"testing"

	"wisp/internal/bytecode"
)

// buildAddFunction hand-assembles a function computing 6+3 via MATH_ADD,
// the way the compiler's function builder would, to exercise run()'s
// dispatch loop without depending on the parser.
func buildAddFunction(t *testing.T, vm *VM) ObjectID {
	t.Helper()
	id := vm.NewFunction(0, "add", 0)
	fn := vm.heap.get(id).(*ObjFunction)
	fn.Constants = []Value{Number(6), Number(3)}

	loadA, err := bytecode.EncodeABx(bytecode.OpLoadBasic, 0, int(bytecode.LoadBasicConstBase))
	if err != nil {
		t.Fatal(err)
	}
	loadB, err := bytecode.EncodeABx(bytecode.OpLoadBasic, 1, int(bytecode.LoadBasicConstBase)+1)
	if err != nil {
		t.Fatal(err)
	}
	add, err := bytecode.EncodeABC(bytecode.OpMathAdd, 2, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	ret, err := bytecode.EncodeABx(bytecode.OpReturn, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	fn.Code = []bytecode.Instruction{loadA, loadB, add, ret}
	fn.Lines = []uint32{1, 1, 1, 1}
	fn.NeededStackSpace = 3
	return id
}

func TestVMRunsAddFunction(t *testing.T) {
	vm := New(Config{})
	id := buildAddFunction(t, vm)

	result, err := vm.Call(FromObject(id), nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if !result.IsNumber() || result.AsNumber() != 9 {
		t.Fatalf("result = %v, want 9", result)
	}
}

func TestVMStringConcatenation(t *testing.T) {
	vm := New(Config{})
	id := vm.NewFunction(0, "concat", 0)
	fn := vm.heap.get(id).(*ObjFunction)
	strID := vm.NewString([]byte("n="))
	fn.Constants = []Value{FromObject(strID), Number(3)}

	loadStr, _ := bytecode.EncodeABx(bytecode.OpLoadBasic, 0, int(bytecode.LoadBasicConstBase))
	loadNum, _ := bytecode.EncodeABx(bytecode.OpLoadBasic, 1, int(bytecode.LoadBasicConstBase)+1)
	add, _ := bytecode.EncodeABC(bytecode.OpMathAdd, 2, 0, 1)
	ret, _ := bytecode.EncodeABx(bytecode.OpReturn, 0, 2)
	fn.Code = []bytecode.Instruction{loadStr, loadNum, add, ret}
	fn.Lines = []uint32{1, 1, 1, 1}
	fn.NeededStackSpace = 3

	result, err := vm.Call(FromObject(id), nil)
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if !result.IsPointer() {
		t.Fatalf("result = %v, want a string object", result)
	}
	s := vm.heap.get(result.AsObject()).(*ObjString)
	if s.String() != "n=3" {
		t.Errorf("concatenation = %q, want %q", s.String(), "n=3")
	}
}

func TestVMArityMismatchRaisesRuntimeError(t *testing.T) {
	vm := New(Config{})
	id := vm.NewFunction(0, "needsOne", 1)
	fn := vm.heap.get(id).(*ObjFunction)
	ret, _ := bytecode.EncodeABx(bytecode.OpReturn, 0, 0)
	fn.Code = []bytecode.Instruction{ret}
	fn.Lines = []uint32{1}
	fn.NeededStackSpace = 2

	_, err := vm.Call(FromObject(id), nil)
	if err == nil {
		t.Fatal("expected an arity-mismatch error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Code != ErrFunctionArityMismatch {
		t.Fatalf("err = %v, want ErrFunctionArityMismatch", err)
	}
}

func TestVMCallOnNonCallableRaises(t *testing.T) {
	vm := New(Config{})
	_, err := vm.Call(Number(1), nil)
	if err == nil {
		t.Fatal("expected a runtime error calling a number")
	}
}

func TestVMNativeFunctionCall(t *testing.T) {
	vm := New(Config{})
	doubled := vm.NewNativeFunction("double", 1, 0, 0, func(vm *VM) {
		arg := vm.At(0)
		vm.SetAt(0, Number(arg.AsNumber()*2))
	})

	result, err := vm.Call(FromObject(doubled), []Value{Number(21)})
	if err != nil {
		t.Fatalf("Call returned error: %v", err)
	}
	if result.AsNumber() != 42 {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestVMNewClzInitializesFields(t *testing.T) {
	vm := New(Config{})
	classID := vm.NewClass("Point", 0)
	cls := vm.heap.get(classID).(*ObjClass)
	symX := vm.symbols.Intern("x")
	cls.Fields = []FieldInit{{Symbol: symX, Init: Number(7)}}

	v := vm.execNewClz(FromObject(classID))
	if !v.IsPointer() {
		t.Fatal("new must produce a pointer value")
	}
	inst := vm.heap.get(v.AsObject()).(*ObjInstance)
	got, ok := inst.Fields.Get(symX)
	if !ok || got.AsNumber() != 7 {
		t.Errorf("field x = %v, ok=%v; want 7, true", got, ok)
	}
}

func TestModuleRegistryDuplicateErrors(t *testing.T) {
	vm := New(Config{})
	if _, err := vm.ModuleMake("main"); err != nil {
		t.Fatalf("first ModuleMake failed: %v", err)
	}
	if _, err := vm.ModuleMake("main"); err == nil {
		t.Fatal("expected ErrModuleAlreadyDefined on duplicate ModuleMake")
	}
	if err := vm.ModuleUnload("main"); err != nil {
		t.Fatalf("ModuleUnload failed: %v", err)
	}
	if err := vm.ModuleUnload("main"); err == nil {
		t.Fatal("expected ErrModuleNotFound unloading an already-unloaded module")
	}
}
