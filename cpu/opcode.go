package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Opcode is an LS-8 instruction byte.
//
// The encoding is AABCDDDD:
//   - AA: number of operand bytes that follow the opcode.
//   - B: set for ALU operations.
//   - C: set if the instruction assigns the PC itself.
//   - DDDD: instruction identifier.
type Opcode byte

const (
	OP_HLT  = Opcode(0b00_0_0_0001) // hlt
	OP_RET  = Opcode(0b00_0_1_0001) // ret
	OP_PUSH = Opcode(0b01_0_0_0101) // push
	OP_POP  = Opcode(0b01_0_0_0110) // pop
	OP_PRN  = Opcode(0b01_0_0_0111) // prn
	OP_CALL = Opcode(0b01_0_1_0000) // call
	OP_JMP  = Opcode(0b01_0_1_0100) // jmp
	OP_JEQ  = Opcode(0b01_0_1_0101) // jeq
	OP_JNE  = Opcode(0b01_0_1_0110) // jne
	OP_LDI  = Opcode(0b10_0_0_0010) // ldi
	OP_ADD  = Opcode(0b10_1_0_0000) // add
	OP_SUB  = Opcode(0b10_1_0_0001) // sub
	OP_MUL  = Opcode(0b10_1_0_0010) // mul
	OP_DIV  = Opcode(0b10_1_0_0011) // div
	OP_CMP  = Opcode(0b10_1_0_0111) // cmp
)

const (
	OPCODE_OPERANDS_SHIFT = 6
	OPCODE_ALU            = Opcode(0b0010_0000)
	OPCODE_SETS_PC        = Opcode(0b0001_0000)
	OPCODE_ID_MASK        = Opcode(0b0000_1111)
)

// opcodeMnemonic is the closed set of implemented instructions.
var opcodeMnemonic = map[Opcode]string{
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_PRN:  "PRN",
	OP_CALL: "CALL",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_LDI:  "LDI",
	OP_ADD:  "ADD",
	OP_SUB:  "SUB",
	OP_MUL:  "MUL",
	OP_DIV:  "DIV",
	OP_CMP:  "CMP",
}

var mnemonicOpcode = func() map[string]Opcode {
	rev := make(map[string]Opcode, len(opcodeMnemonic))
	for op, name := range opcodeMnemonic {
		rev[name] = op
	}
	return rev
}()

// OpcodeOf looks up an opcode by mnemonic, in any case.
func OpcodeOf(mnemonic string) (op Opcode, ok bool) {
	op, ok = mnemonicOpcode[strings.ToUpper(mnemonic)]
	return
}

// OpcodeDefines returns an iterator of OP_<MNEMONIC> to opcode value.
func OpcodeDefines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for op, name := range opcodeMnemonic {
			if !yield("OP_"+name, fmt.Sprintf("%#02x", byte(op))) {
				return
			}
		}
	}
}

// Opcodes returns an iterator over all implemented opcodes.
func Opcodes() iter.Seq[Opcode] {
	return maps.Keys(opcodeMnemonic)
}

// Valid returns true for implemented opcodes.
func (op Opcode) Valid() bool {
	_, ok := opcodeMnemonic[op]
	return ok
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// IsAlu returns true if the opcode is executed by the ALU.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the opcode is responsible for the PC.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

// Id returns the instruction identifier bits.
func (op Opcode) Id() byte {
	return byte(op & OPCODE_ID_MASK)
}

func (op Opcode) String() string {
	name, ok := opcodeMnemonic[op]
	if !ok {
		return fmt.Sprintf("op%02x", byte(op))
	}
	return name
}

// Code is a decoded instruction: an opcode and its operand bytes.
type Code struct {
	Opcode   Opcode
	Operands []byte
}

// MakeCode creates an instruction.
func MakeCode(op Opcode, operands ...byte) Code {
	return Code{Opcode: op, Operands: operands}
}

// Len returns the size in bytes of the instruction.
func (code Code) Len() int {
	return 1 + len(code.Operands)
}

// Arg returns operand n, or 0 if absent.
func (code Code) Arg(n int) byte {
	if n < len(code.Operands) {
		return code.Operands[n]
	}
	return 0
}

// Bytes returns the encoded instruction.
func (code Code) Bytes() []byte {
	return append([]byte{byte(code.Opcode)}, code.Operands...)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	var args []string
	for n, arg := range code.Operands {
		if code.Opcode == OP_LDI && n == 1 {
			args = append(args, fmt.Sprintf("%d", arg))
		} else {
			args = append(args, fmt.Sprintf("R%d", arg))
		}
	}

	if len(args) == 0 {
		return code.Opcode.String()
	}

	return code.Opcode.String() + " " + strings.Join(args, ",")
}
