package cpu

import (
	"fmt"
)

// AluOp is an ALU operation. The values match the identifier bits of the
// ALU class opcodes.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0b0000) // add
	ALU_OP_SUB = AluOp(0b0001) // sub
	ALU_OP_MUL = AluOp(0b0010) // mul
	ALU_OP_DIV = AluOp(0b0011) // div
	ALU_OP_CMP = AluOp(0b0111) // cmp
)

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_SUB:
		return "sub"
	case ALU_OP_MUL:
		return "mul"
	case ALU_OP_DIV:
		return "div"
	case ALU_OP_CMP:
		return "cmp"
	}
	return fmt.Sprintf("alu%d", int(op))
}

// Alu performs op on registers reg_a and reg_b.
// Arithmetic stores into reg_a and wraps at 8 bits; CMP only updates the
// flags. Nothing is modified when an error is returned.
func (cpu *Cpu) Alu(op AluOp, reg_a, reg_b byte) (err error) {
	a, err := cpu.Get(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.Get(reg_b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD:
		err = cpu.Set(reg_a, a+b)
	case ALU_OP_SUB:
		err = cpu.Set(reg_a, a-b)
	case ALU_OP_MUL:
		err = cpu.Set(reg_a, a*b)
	case ALU_OP_DIV:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		err = cpu.Set(reg_a, a/b)
	case ALU_OP_CMP:
		switch {
		case a == b:
			cpu.SetFlags(FL_EQ)
		case a < b:
			cpu.SetFlags(FL_LT)
		default:
			cpu.SetFlags(FL_GT)
		}
	default:
		err = ErrUnsupportedOperation
	}

	return
}
