// Package bytecode defines the 32-bit fixed-width instruction encoding
// shared by the compiler and the VM (§4.4).
package bytecode

// Op identifies a VM operation. The reference encoding reserves 5 bits for
// the opcode (0-31); OpInvalid sits at the top of that range so the
// all-ones break-placeholder word (§4.4, §9) never collides with a legal op.
type Op uint8

const (
	OpLoadSymbol Op = iota // rA = rB.SYMBOLS[rC]
	OpLoadBasic             // rA = basic(rBx): 0=true 1=false 2=nil 3=current-module >=4=K[rBx-4]
	OpStoreMove             // rA = rBx
	OpStoreSymbol           // rA.SYMBOLS[rB] = rC
	OpNewClz                // rA = new instance of class locals[rBx]
	OpMathAdd
	OpMathSub
	OpMathMul
	OpMathDiv
	OpMathMod
	OpMathPow
	OpMathInv // rA = -rBx
	OpCmpEE
	OpCmpNE
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE
	OpCmpAnd
	OpCmpOr
	OpNot     // rA = !truthy(rBx)
	OpCallFn  // call locals[rB] with rC args starting at locals[rA]
	OpJump    // ip += sBx
	OpJumpIf  // if truthy(rA) ip += sBx
	OpJumpIfNot
	OpReturn // return locals[rBx]

	// OpCallCtor is not part of the reference opcode table (§4.4); it is
	// how this port expresses the supplemented "ctor auto-invocation on
	// new" feature (DESIGN.md) without overloading NEW_CLZ's two-operand
	// ABx form to also carry an argument count. rA names the
	// already-allocated instance, rB the base of its constructor
	// arguments, rC their count. A class (or base class) without a ctor
	// method makes this a no-op; the instance at rA is left untouched.
	OpCallCtor // ctor(locals[rA], locals[rB..rB+rC-1]) if defined, else no-op

	// OpInvalid is never emitted. It exists so the all-ones break-placeholder
	// pattern always decodes to an opcode outside the legal table, and so a
	// stray instruction word with op==OpInvalid can be asserted against
	// during encode/decode tests (§9: "Reserve opcode value 0x1F ... and
	// assert this during instruction encoding").
	OpInvalid Op = 0x1F
)

var opNames = [...]string{
	OpLoadSymbol:   "LOAD_SYMBOL",
	OpLoadBasic:    "LOAD_BASIC",
	OpStoreMove:    "STORE_MOVE",
	OpStoreSymbol:  "STORE_SYMBOL",
	OpNewClz:       "NEW_CLZ",
	OpMathAdd:      "MATH_ADD",
	OpMathSub:      "MATH_SUB",
	OpMathMul:      "MATH_MUL",
	OpMathDiv:      "MATH_DIV",
	OpMathMod:      "MATH_MOD",
	OpMathPow:      "MATH_POW",
	OpMathInv:      "MATH_INV",
	OpCmpEE:        "CMP_EE",
	OpCmpNE:        "CMP_NE",
	OpCmpLT:        "CMP_LT",
	OpCmpLE:        "CMP_LE",
	OpCmpGT:        "CMP_GT",
	OpCmpGE:        "CMP_GE",
	OpCmpAnd:       "CMP_AND",
	OpCmpOr:        "CMP_OR",
	OpNot:          "NOT",
	OpCallFn:       "CALL_FN",
	OpJump:         "JUMP",
	OpJumpIf:       "JUMP_IF",
	OpJumpIfNot:    "JUMP_IF_NOT",
	OpReturn:       "RETURN",
	OpCallCtor:     "CALL_CTOR",
}

// String renders the opcode's mnemonic, used by the disassembler and by
// diagnostics/golden tests.
func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	if o == OpInvalid {
		return "INVALID"
	}
	return "UNKNOWN_OP"
}

// Form reports which immediate layout an opcode uses, for disassembly.
type Form uint8

const (
	FormABC Form = iota
	FormABx
	FormAsBx
)

var opForms = [...]Form{
	OpLoadSymbol:  FormABC,
	OpLoadBasic:   FormABx,
	OpStoreMove:   FormABx,
	OpStoreSymbol: FormABC,
	OpNewClz:      FormABx,
	OpMathAdd:     FormABC,
	OpMathSub:     FormABC,
	OpMathMul:     FormABC,
	OpMathDiv:     FormABC,
	OpMathMod:     FormABC,
	OpMathPow:     FormABC,
	OpMathInv:     FormABx,
	OpCmpEE:       FormABC,
	OpCmpNE:       FormABC,
	OpCmpLT:       FormABC,
	OpCmpLE:       FormABC,
	OpCmpGT:       FormABC,
	OpCmpGE:       FormABC,
	OpCmpAnd:      FormABC,
	OpCmpOr:       FormABC,
	OpNot:         FormABx,
	OpCallFn:      FormABC,
	OpJump:        FormAsBx,
	OpJumpIf:      FormAsBx,
	OpJumpIfNot:   FormAsBx,
	OpReturn:      FormABx,
	OpCallCtor:    FormABC,
}

// Form reports the immediate layout used to decode o's operands.
func (o Op) Form() Form {
	if int(o) < len(opForms) {
		return opForms[o]
	}
	return FormABC
}

// LoadBasic's rBx sub-range (§4.4).
const (
	LoadBasicTrue    uint32 = 0
	LoadBasicFalse   uint32 = 1
	LoadBasicNil     uint32 = 2
	LoadBasicModule  uint32 = 3
	LoadBasicConstBase uint32 = 4
)
