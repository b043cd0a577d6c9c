package bytecode

import (
	"fmt"

	"fortio.org/safecast"
)

// Instruction is a single 32-bit fixed-width bytecode word (§4.4):
//
//	bit  0      5         14        23       32
//	     [ooooo|aaaaaaaaa|bbbbbbbbb|ccccccccc]
//	     [ooooo|aaaaaaaaa|bxxxxxxxxxxxxxxxxxx]
//	     [ooooo|aaaaaaaaa|sBx (biased)       ]
type Instruction uint32

const (
	opMask  = 0x1F
	opShift = 0

	aMask  = 0x1FF
	aShift = 5

	bMask  = 0x1FF
	bShift = 14

	cMask  = 0x1FF
	cShift = 23

	bxMask  = 0x3FFFF
	bxShift = 14

	sBxMask  = 0x3FFFF
	sBxShift = 14
	sBxBias  = sBxMask / 2 // 131071, matches reference RsBx_MAX
)

// Invalid is the break-placeholder sentinel: an all-ones word. It can never
// be produced by EncodeABC/ABx/AsBx because OpInvalid (0x1F) is reserved and
// every legal opcode is strictly less than it, so no legal encoding can set
// every opcode bit; the loop finalizer rewrites every such word in a loop
// body to a forward JUMP once the post-loop address is known (§4.4, §9).
const Invalid Instruction = 0xFFFFFFFF

// MaxRegister is the largest value representable in a 9-bit A/B/C field.
const MaxRegister = aMask

// MaxBx is the largest value representable in the 18-bit Bx field.
const MaxBx = bxMask

// MinSBx/MaxSBx bound the signed 18-bit sBx field.
const (
	MinSBx = -sBxBias
	MaxSBx = sBxMask - sBxBias
)

// EncodeABC packs an opcode with three 9-bit register operands.
func EncodeABC(op Op, a, b, c int) (Instruction, error) {
	if op == OpInvalid || uint8(op) > opMask {
		return 0, fmt.Errorf("bytecode: invalid opcode %d", op)
	}
	ua, err := checkedReg("A", a)
	if err != nil {
		return 0, err
	}
	ub, err := checkedReg("B", b)
	if err != nil {
		return 0, err
	}
	uc, err := checkedReg("C", c)
	if err != nil {
		return 0, err
	}
	word := Instruction(uint32(op)&opMask) |
		Instruction((ua&aMask)<<aShift) |
		Instruction((ub&bMask)<<bShift) |
		Instruction((uc&cMask)<<cShift)
	return word, nil
}

// EncodeABx packs an opcode, a 9-bit A, and an unsigned 18-bit Bx.
func EncodeABx(op Op, a, bx int) (Instruction, error) {
	if op == OpInvalid || uint8(op) > opMask {
		return 0, fmt.Errorf("bytecode: invalid opcode %d", op)
	}
	ua, err := checkedReg("A", a)
	if err != nil {
		return 0, err
	}
	ubx, err := safecast.Conv[uint32](bx)
	if err != nil || ubx > bxMask {
		return 0, fmt.Errorf("bytecode: Bx operand %d out of range", bx)
	}
	word := Instruction(uint32(op)&opMask) |
		Instruction((ua&aMask)<<aShift) |
		Instruction((ubx&bxMask)<<bxShift)
	return word, nil
}

// EncodeAsBx packs an opcode, a 9-bit A, and a signed 18-bit sBx biased by
// half the Bx range, matching the reference BIFROST_MAKE_INST_OP_AsBx macro.
func EncodeAsBx(op Op, a, sbx int) (Instruction, error) {
	if op == OpInvalid || uint8(op) > opMask {
		return 0, fmt.Errorf("bytecode: invalid opcode %d", op)
	}
	ua, err := checkedReg("A", a)
	if err != nil {
		return 0, err
	}
	if sbx < MinSBx || sbx > MaxSBx {
		return 0, fmt.Errorf("bytecode: sBx operand %d out of range [%d,%d]", sbx, MinSBx, MaxSBx)
	}
	biased := uint32(sbx + sBxBias)
	word := Instruction(uint32(op)&opMask) |
		Instruction((ua&aMask)<<aShift) |
		Instruction((biased&sBxMask)<<sBxShift)
	return word, nil
}

func checkedReg(name string, v int) (uint32, error) {
	uv, err := safecast.Conv[uint32](v)
	if err != nil || uv > aMask {
		return 0, fmt.Errorf("bytecode: %s operand %d out of range [0,%d]", name, v, aMask)
	}
	return uv, nil
}

// Op extracts the 5-bit opcode field.
func (i Instruction) Op() Op {
	return Op(uint32(i) & opMask)
}

// A extracts the 9-bit A field, common to every form.
func (i Instruction) A() int {
	return int((uint32(i) >> aShift) & aMask)
}

// B extracts the 9-bit B field (ABC form only).
func (i Instruction) B() int {
	return int((uint32(i) >> bShift) & bMask)
}

// C extracts the 9-bit C field (ABC form only).
func (i Instruction) C() int {
	return int((uint32(i) >> cShift) & cMask)
}

// Bx extracts the unsigned 18-bit Bx field (ABx form).
func (i Instruction) Bx() int {
	return int((uint32(i) >> bxShift) & bxMask)
}

// SBx extracts the signed 18-bit sBx field (AsBx form), undoing the bias.
func (i Instruction) SBx() int {
	return int((uint32(i)>>sBxShift)&sBxMask) - sBxBias
}

// IsInvalid reports whether i is the break-placeholder sentinel.
func (i Instruction) IsInvalid() bool {
	return i == Invalid
}

// String renders the instruction in "OP a b c" / "OP a bx" form for
// disassembly and golden tests.
func (i Instruction) String() string {
	if i.IsInvalid() {
		return "<break-placeholder>"
	}
	op := i.Op()
	switch op.Form() {
	case FormABx:
		return fmt.Sprintf("%-12s %d %d", op, i.A(), i.Bx())
	case FormAsBx:
		return fmt.Sprintf("%-12s %d %d", op, i.A(), i.SBx())
	default:
		return fmt.Sprintf("%-12s %d %d %d", op, i.A(), i.B(), i.C())
	}
}
