// Copyright 2025, The DOC Authors

package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// CodeOp is the 4-bit opcode held in the high nibble of an instruction's first byte.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_MOV_RR = CodeOp(0x0) // mov
	OP_MOV_RL = CodeOp(0x1) // mov
	OP_LDR    = CodeOp(0x2) // mov
	OP_STA    = CodeOp(0x3) // sta
	OP_LDA    = CodeOp(0x4) // lda
	OP_PSH    = CodeOp(0x5) // psh
	OP_POP    = CodeOp(0x6) // pop
	OP_JNZ    = CodeOp(0x7) // jnz
	OP_ADD    = CodeOp(0x8) // add
	OP_ADC    = CodeOp(0x9) // adc
	OP_SUB    = CodeOp(0xA) // sub
	OP_SBB    = CodeOp(0xB) // sbb
	OP_OR     = CodeOp(0xC) // or
	OP_AND    = CodeOp(0xD) // and
	OP_NOT    = CodeOp(0xE) // not
)

// ArgKind is the kind of an argument slot, as used for overload matching.
type ArgKind int

//go:generate go tool stringer -linecomment -type=ArgKind
const (
	KIND_REGISTER = ArgKind(0) // register
	KIND_LITERAL  = ArgKind(1) // literal
)

// CodeShape is the operand layout of an encoded instruction.
type CodeShape int

const (
	SHAPE_NONE = CodeShape(iota) // Undefined opcode, no operands.
	SHAPE_RR                     // [op|dst] [src|0]
	SHAPE_RL                     // [op|reg] [imm8]
	SHAPE_R                      // [op|reg]
	SHAPE_L                      // [op|0] [hi] [lo]
)

// Register indices.
const (
	REG_RZ  = 0x0 // Alias of r0.
	REG_R0  = 0x0
	REG_R1  = 0x1
	REG_R2  = 0x2
	REG_R3  = 0x3
	REG_R4  = 0x4
	REG_R5  = 0x5
	REG_R6  = 0x6
	REG_R7  = 0x7
	REG_R8  = 0x8
	REG_RV  = 0x9 // Scratch used by the standard macros.
	REG_RSH = 0xA
	REG_RAL = 0xB // Address pair, low byte.
	REG_RAH = 0xC // Address pair, high byte.
	REG_RSP = 0xD // Stack pointer.
	REG_RBP = 0xE // Base pointer.
	REG_RF  = 0xF // Flags.
)

// Flag bits of the rf register.
const (
	FLAG_HALT   = 1 << 0
	FLAG_CARRY  = 1 << 1
	FLAG_BORROW = 1 << 2
)

const (
	REGISTER_COUNT = 16
	MEMORY_SIZE    = 49152 // Code and data share one address space.
)

// FLAGS_FROM_REGISTER_INDEX records the arithmetic flag model of the machine:
// add and sub derive carry and borrow from the operand register indices,
// not their values, and adc and sbb fold in the raw flag bit (2 or 4),
// not a normalised 0/1.
const FLAGS_FROM_REGISTER_INDEX = true

var registerMap = map[string]uint8{
	"rz":  REG_RZ,
	"r0":  REG_R0,
	"r1":  REG_R1,
	"r2":  REG_R2,
	"r3":  REG_R3,
	"r4":  REG_R4,
	"r5":  REG_R5,
	"r6":  REG_R6,
	"r7":  REG_R7,
	"r8":  REG_R8,
	"rv":  REG_RV,
	"rsh": REG_RSH,
	"ral": REG_RAL,
	"rah": REG_RAH,
	"rsp": REG_RSP,
	"rbp": REG_RBP,
	"rf":  REG_RF,
}

// RegisterNames are the display names of the registers, by index.
var RegisterNames = [REGISTER_COUNT]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "rv", "rsh", "ral", "rah", "rsp", "rbp", "rf",
}

// RegisterIndex returns the register index of a register name.
func RegisterIndex(name string) (index uint8, ok bool) {
	index, ok = registerMap[name]
	return
}

// Key is an overload key: a name plus the ordered kinds of its arguments.
type Key string

// MakeKey builds the overload key of a name called with the given argument kinds.
func MakeKey(name string, kinds ...ArgKind) Key {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for n, kind := range kinds {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(kind.String())
	}
	sb.WriteByte(')')
	return Key(sb.String())
}

// Instruction is a catalog entry: one hardware encoding of a mnemonic.
type Instruction struct {
	Mnemonic string
	Op       CodeOp
	Kinds    []ArgKind
	Length   int // Encoded length in bytes.
}

// Key returns the overload key of the catalog entry.
func (ins Instruction) Key() Key {
	return MakeKey(ins.Mnemonic, ins.Kinds...)
}

// Shape returns the operand layout of the catalog entry.
func (ins Instruction) Shape() CodeShape {
	return shapeOf(ins.Kinds)
}

func shapeOf(kinds []ArgKind) CodeShape {
	switch {
	case len(kinds) == 2 && kinds[0] == KIND_REGISTER && kinds[1] == KIND_REGISTER:
		return SHAPE_RR
	case len(kinds) == 2 && kinds[0] == KIND_REGISTER && kinds[1] == KIND_LITERAL:
		return SHAPE_RL
	case len(kinds) == 1 && kinds[0] == KIND_REGISTER:
		return SHAPE_R
	case len(kinds) == 1 && kinds[0] == KIND_LITERAL:
		return SHAPE_L
	}
	return SHAPE_NONE
}

var (
	kindsRR = []ArgKind{KIND_REGISTER, KIND_REGISTER}
	kindsRL = []ArgKind{KIND_REGISTER, KIND_LITERAL}
	kindsR  = []ArgKind{KIND_REGISTER}
	kindsL  = []ArgKind{KIND_LITERAL}
)

// catalog is the instruction set, in opcode order.
var catalog = [...]Instruction{
	{"mov", OP_MOV_RR, kindsRR, 2},
	{"mov", OP_MOV_RL, kindsRL, 2},
	{"mov", OP_LDR, kindsR, 1},
	{"sta", OP_STA, kindsR, 1},
	{"lda", OP_LDA, kindsL, 3},
	{"psh", OP_PSH, kindsR, 1},
	{"pop", OP_POP, kindsR, 1},
	{"jnz", OP_JNZ, kindsR, 1},
	{"add", OP_ADD, kindsRR, 2},
	{"adc", OP_ADC, kindsRR, 2},
	{"sub", OP_SUB, kindsRR, 2},
	{"sbb", OP_SBB, kindsRR, 2},
	{"or", OP_OR, kindsRR, 2},
	{"and", OP_AND, kindsRR, 2},
	{"not", OP_NOT, kindsR, 1},
}

var (
	catalogByKey, catalogByOp = indexCatalog()

	// Mnemonics lists every mnemonic the hardware understands.
	Mnemonics = mnemonicsOf(catalog[:])
)

func indexCatalog() (byKey map[Key]*Instruction, byOp [16]*Instruction) {
	byKey = make(map[Key]*Instruction, len(catalog))
	for n := range catalog {
		ins := &catalog[n]
		key := ins.Key()
		if _, ok := byKey[key]; ok {
			panic(fmt.Sprintf("cpu: catalog key %v duplicated", key))
		}
		if byOp[ins.Op] != nil {
			panic(fmt.Sprintf("cpu: catalog opcode %#x duplicated", int(ins.Op)))
		}
		byKey[key] = ins
		byOp[ins.Op] = ins
	}
	return
}

func mnemonicsOf(table []Instruction) (names []string) {
	for _, ins := range table {
		if !slices.Contains(names, ins.Mnemonic) {
			names = append(names, ins.Mnemonic)
		}
	}
	return
}

// Lookup returns the catalog entry for an overload key.
func Lookup(key Key) (ins Instruction, ok bool) {
	entry, ok := catalogByKey[key]
	if ok {
		ins = *entry
	}
	return
}

// Catalog returns a copy of the instruction set, in opcode order.
func Catalog() []Instruction {
	return append([]Instruction(nil), catalog[:]...)
}

// Code is a single decoded instruction.
type Code struct {
	Op  CodeOp
	Reg uint8  // First register operand.
	Src uint8  // Second register operand.
	Imm uint16 // 8-bit immediate, or 16-bit address.
}

// MakeCodeRR creates a register, register instruction.
func MakeCodeRR(op CodeOp, dst, src uint8) Code {
	return Code{Op: op, Reg: dst & 0xf, Src: src & 0xf}
}

// MakeCodeRL creates a register, 8-bit immediate instruction.
func MakeCodeRL(op CodeOp, reg uint8, imm uint8) Code {
	return Code{Op: op, Reg: reg & 0xf, Imm: uint16(imm)}
}

// MakeCodeR creates a single register instruction.
func MakeCodeR(op CodeOp, reg uint8) Code {
	return Code{Op: op, Reg: reg & 0xf}
}

// MakeCodeL creates a 16-bit address instruction.
func MakeCodeL(op CodeOp, addr uint16) Code {
	return Code{Op: op, Imm: addr}
}

// Shape returns the operand layout of the opcode.
func (code Code) Shape() CodeShape {
	ins := catalogByOp[code.Op&0xf]
	if ins == nil {
		return SHAPE_NONE
	}
	return ins.Shape()
}

// Length returns the encoded length of the instruction in bytes.
func (code Code) Length() int {
	ins := catalogByOp[code.Op&0xf]
	if ins == nil {
		return 1
	}
	return ins.Length
}

// Bytes encodes the instruction.
func (code Code) Bytes() []byte {
	first := byte(code.Op&0xf) << 4

	switch code.Shape() {
	case SHAPE_RR:
		return []byte{first | code.Reg&0xf, (code.Src & 0xf) << 4}
	case SHAPE_RL:
		return []byte{first | code.Reg&0xf, byte(code.Imm)}
	case SHAPE_R:
		return []byte{first | code.Reg&0xf}
	case SHAPE_L:
		return []byte{first, byte(code.Imm >> 8), byte(code.Imm)}
	}

	return []byte{first | code.Reg&0xf}
}

// DecodeCode decodes the instruction at the start of data.
// It fails with ErrOpcodeShort if data holds fewer bytes than the opcode needs.
func DecodeCode(data []byte) (code Code, err error) {
	if len(data) == 0 {
		err = ErrOpcodeShort
		return
	}

	code.Op = CodeOp(data[0] >> 4)
	if len(data) < code.Length() {
		err = ErrOpcodeShort
		return
	}

	switch code.Shape() {
	case SHAPE_RR:
		code.Reg = data[0] & 0xf
		code.Src = data[1] >> 4
	case SHAPE_RL:
		code.Reg = data[0] & 0xf
		code.Imm = uint16(data[1])
	case SHAPE_R:
		code.Reg = data[0] & 0xf
	case SHAPE_L:
		code.Imm = uint16(data[1])<<8 | uint16(data[2])
	default:
		code.Reg = data[0] & 0xf
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	switch code.Shape() {
	case SHAPE_RR:
		return fmt.Sprintf("%v %v, %v", code.Op, RegisterNames[code.Reg&0xf], RegisterNames[code.Src&0xf])
	case SHAPE_RL:
		return fmt.Sprintf("%v %v, #%02xh", code.Op, RegisterNames[code.Reg&0xf], code.Imm&0xff)
	case SHAPE_R:
		return fmt.Sprintf("%v %v", code.Op, RegisterNames[code.Reg&0xf])
	case SHAPE_L:
		return fmt.Sprintf("%v #%04xh", code.Op, code.Imm)
	}
	return fmt.Sprintf("??? #%02xh", byte(code.Op&0xf)<<4|code.Reg&0xf)
}
