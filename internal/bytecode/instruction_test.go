package bytecode

import "testing"

func TestEncodeDecodeABC(t *testing.T) {
	inst, err := EncodeABC(OpMathAdd, 1, 2, 3)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if inst.Op() != OpMathAdd || inst.A() != 1 || inst.B() != 2 || inst.C() != 3 {
		t.Fatalf("roundtrip mismatch: op=%s a=%d b=%d c=%d", inst.Op(), inst.A(), inst.B(), inst.C())
	}
}

func TestEncodeDecodeABx(t *testing.T) {
	inst, err := EncodeABx(OpLoadBasic, 5, 200)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if inst.A() != 5 || inst.Bx() != 200 {
		t.Fatalf("roundtrip mismatch: a=%d bx=%d", inst.A(), inst.Bx())
	}
}

func TestEncodeDecodeAsBxRoundTrip(t *testing.T) {
	for _, sbx := range []int{0, 1, -1, MaxSBx, MinSBx, 1000, -1000} {
		inst, err := EncodeAsBx(OpJump, 0, sbx)
		if err != nil {
			t.Fatalf("encode sBx=%d: %v", sbx, err)
		}
		if got := inst.SBx(); got != sbx {
			t.Fatalf("sBx roundtrip: want %d got %d", sbx, got)
		}
	}
}

func TestEncodeRejectsOutOfRangeOperands(t *testing.T) {
	if _, err := EncodeABC(OpMathAdd, MaxRegister+1, 0, 0); err == nil {
		t.Fatal("expected error for A out of range")
	}
	if _, err := EncodeABx(OpLoadBasic, 0, MaxBx+1); err == nil {
		t.Fatal("expected error for Bx out of range")
	}
	if _, err := EncodeAsBx(OpJump, 0, MaxSBx+1); err == nil {
		t.Fatal("expected error for sBx above range")
	}
	if _, err := EncodeAsBx(OpJump, 0, MinSBx-1); err == nil {
		t.Fatal("expected error for sBx below range")
	}
}

func TestInvalidSentinelDecodesOutsideOpcodeTable(t *testing.T) {
	if !Invalid.IsInvalid() {
		t.Fatal("Invalid must report IsInvalid")
	}
	if op := Invalid.Op(); op != OpInvalid {
		t.Fatalf("all-ones word must decode to OpInvalid, got %s", op)
	}
}

func TestEncodeRejectsOpInvalid(t *testing.T) {
	if _, err := EncodeABC(OpInvalid, 0, 0, 0); err == nil {
		t.Fatal("expected error encoding OpInvalid")
	}
}

func TestOpFormTable(t *testing.T) {
	if OpMathAdd.Form() != FormABC {
		t.Fatal("MATH_ADD must be ABC form")
	}
	if OpLoadBasic.Form() != FormABx {
		t.Fatal("LOAD_BASIC must be ABx form")
	}
	if OpJump.Form() != FormAsBx {
		t.Fatal("JUMP must be AsBx form")
	}
}
